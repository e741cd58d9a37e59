// gencsv writes a synthetic CSV fixture for benchmarks and manual runs.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/oleg578/swiftcsv"
)

func main() {
	rows := flag.Int("rows", 100_000, "number of data rows")
	cols := flag.Int("cols", 6, "number of columns")
	out := flag.String("out", "fixture.csv", "output path")
	seed := flag.Int64("seed", 1, "rng seed")
	flag.Parse()

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("gencsv: %v", err)
	}
	defer f.Close()

	w := swiftcsv.NewWriter(f)
	rng := rand.New(rand.NewSource(*seed))

	header := make([]string, *cols)
	for c := range header {
		header[c] = fmt.Sprintf("col_%d", c)
	}
	if err := w.Write(header); err != nil {
		log.Fatalf("gencsv: %v", err)
	}

	words := []string{"alpha", "bravo, inc", "charlie", "delta\n east", "echo", "$12.50"}
	row := make([]string, *cols)
	for i := 0; i < *rows; i++ {
		for c := range row {
			row[c] = fmt.Sprintf("%s-%d", words[rng.Intn(len(words))], i)
		}
		if err := w.Write(row); err != nil {
			log.Fatalf("gencsv: %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		log.Fatalf("gencsv: %v", err)
	}
}
