// Package csvfile reads rows from a CSV file or stdin through swiftcsv.
package csvfile

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/oleg578/swiftcsv"

	"github.com/dhatim/csvsed/source"
)

type Config struct {
	// Path of the input file; "-" or empty reads stdin.
	Path string `yaml:"path"`
	// Comma and Quote override the CSV dialect; zero values mean ',' and '"'.
	Comma byte `yaml:"comma"`
	Quote byte `yaml:"quote"`
}

type driver struct {
	cfg Config
	f   *os.File // nil when reading stdin
	r   *swiftcsv.Reader
}

func (d *driver) Configure(raw any) error {
	cfg, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("csvfile-source: expected Config, got %T", raw)
	}
	d.cfg = cfg

	var src io.Reader
	if cfg.Path == "" || cfg.Path == "-" {
		src = os.Stdin
	} else {
		f, err := os.Open(cfg.Path)
		if err != nil {
			return fmt.Errorf("csvfile-source: %w", err)
		}
		d.f = f
		src = f
	}
	d.r = swiftcsv.NewReader(bufio.NewReader(src))
	if cfg.Comma != 0 {
		d.r.Comma = cfg.Comma
	}
	if cfg.Quote != 0 {
		d.r.Quote = cfg.Quote
	}
	return nil
}

func (d *driver) Next(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.r.Read()
}

func (d *driver) Close() error {
	if d.f != nil {
		return d.f.Close()
	}
	return nil
}

func init() {
	source.Register("file", func() source.Adapter { return &driver{} })
}
