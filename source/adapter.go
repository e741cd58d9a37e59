// Package source defines the row-source contract and the driver registry.
package source

import (
	"context"
	"fmt"
)

// Adapter is the common behaviour every row source exposes. Next returns one
// row of string fields; io.EOF signals a clean end of stream.
type Adapter interface {
	Configure(cfg any) error
	Next(ctx context.Context) ([]string, error)
	Close() error
}

/*──────── registry ───────*/

type factory = func() Adapter

var reg = map[string]factory{}

// Register is called from each driver's init() or from main.
func Register(name string, f factory) { reg[name] = f }

func New(name string) (Adapter, error) {
	if f, ok := reg[name]; ok {
		return f(), nil
	}
	return nil, fmt.Errorf("unknown source %q", name)
}
