// Package csvfile writes rows to a CSV file or stdout through swiftcsv.
package csvfile

import (
	"fmt"
	"io"
	"os"

	"github.com/oleg578/swiftcsv"

	"github.com/dhatim/csvsed/sink"
)

type Config struct {
	// Path of the output file; "-" or empty writes stdout.
	Path string `yaml:"path"`
	// Comma and Quote override the CSV dialect; zero values mean ',' and '"'.
	Comma byte `yaml:"comma"`
	Quote byte `yaml:"quote"`
	// UseCRLF terminates records with \r\n.
	UseCRLF bool `yaml:"use_crlf"`
	// AlwaysQuote forces quoting of every field.
	AlwaysQuote bool `yaml:"always_quote"`
}

type driver struct {
	cfg    Config
	f      *os.File // nil when writing stdout
	w      *swiftcsv.Writer
	closed bool
}

func (d *driver) Configure(raw any) error {
	cfg, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("csvfile-sink: expected Config, got %T", raw)
	}
	d.cfg = cfg

	var dst io.Writer
	if cfg.Path == "" || cfg.Path == "-" {
		dst = os.Stdout
	} else {
		f, err := os.Create(cfg.Path)
		if err != nil {
			return fmt.Errorf("csvfile-sink: %w", err)
		}
		d.f = f
		dst = f
	}
	d.w = swiftcsv.NewWriter(dst)
	if cfg.Comma != 0 {
		d.w.Comma = cfg.Comma
	}
	if cfg.Quote != 0 {
		d.w.Quote = cfg.Quote
	}
	d.w.UseCRLF = cfg.UseCRLF
	d.w.AlwaysQuote = cfg.AlwaysQuote
	return nil
}

func (d *driver) PushHeader(row []string) error { return d.Push(row) }

func (d *driver) Push(row []string) error {
	return d.w.Write(row)
}

func (d *driver) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	err := d.w.Flush()
	if d.f != nil {
		if cerr := d.f.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func init() {
	sink.Register("file", func() sink.Adapter { return &driver{} })
}
