// Package sink defines the row-sink contract and the driver registry.
package sink

import "fmt"

// Adapter is the common behaviour every row sink exposes. PushHeader accepts
// the header row when the stream has one; Push accepts every data row in
// order. Close is idempotent and flushes buffered output.
type Adapter interface {
	Configure(cfg any) error
	PushHeader(row []string) error
	Push(row []string) error
	Close() error
}

/*──────── registry ───────*/

type factory = func() Adapter

var reg = map[string]factory{}

func Register(name string, f factory) { reg[name] = f }

func New(name string) (Adapter, error) {
	if f, ok := reg[name]; ok {
		return f(), nil
	}
	return nil, fmt.Errorf("unknown sink %q", name)
}
