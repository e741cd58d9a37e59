package csvfile

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/dhatim/csvsed/source"
)

func writeFixture(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.csv")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestDriver_ReadsRowsUntilEOF(t *testing.T) {
	path := writeFixture(t, "a,b\n1,2\n\"x,y\",3\n")

	d, err := source.New("file")
	if err != nil {
		t.Fatalf("source.New: %v", err)
	}
	if err := d.Configure(Config{Path: path}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	defer d.Close()

	var rows [][]string
	for {
		row, err := d.Next(context.Background())
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		rows = append(rows, row)
	}
	want := [][]string{{"a", "b"}, {"1", "2"}, {"x,y", "3"}}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("got %v, want %v", rows, want)
	}
}

func TestDriver_CustomDelimiter(t *testing.T) {
	path := writeFixture(t, "a;b\n1;2\n")

	d := &driver{}
	if err := d.Configure(Config{Path: path, Comma: ';'}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	defer d.Close()

	row, err := d.Next(context.Background())
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if !reflect.DeepEqual(row, []string{"a", "b"}) {
		t.Fatalf("got %v", row)
	}
}

func TestDriver_ConfigureRejectsWrongType(t *testing.T) {
	d := &driver{}
	if err := d.Configure(42); err == nil {
		t.Fatal("expected type error")
	}
}
