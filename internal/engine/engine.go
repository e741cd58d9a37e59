// Package engine wires a row source, the sed filter, and a row sink into a
// single synchronous pump: one row pulled, transformed, and pushed at a time.
package engine

import (
	"context"
	"errors"
	"io"

	"github.com/dhatim/csvsed/internal/logging"
	"github.com/dhatim/csvsed/internal/sed"
	"github.com/dhatim/csvsed/internal/telemetry"
	"github.com/dhatim/csvsed/sink"
	"github.com/dhatim/csvsed/source"
)

type Engine struct {
	src       source.Adapter
	filter    *sed.Filter
	out       sink.Adapter
	hasHeader bool
}

// Run pumps rows until the source is exhausted or the stream fails, then
// releases the source, the filter's operators, and the sink on every path.
func (e *Engine) Run(ctx context.Context) error {
	runErr := e.pump(ctx)
	if cerr := e.Close(); runErr == nil {
		runErr = cerr
	}
	return runErr
}

func (e *Engine) pump(ctx context.Context) error {
	first := true
	for {
		row, err := e.filter.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			telemetry.StreamFailures.Inc()
			var execErr *sed.ExecError
			if errors.As(err, &execErr) {
				telemetry.ExecFailures.Inc()
			}
			logging.L().Error("stream aborted", "err", err)
			return err
		}
		telemetry.RowsRead.Inc()

		if first && e.hasHeader {
			err = e.out.PushHeader(row)
		} else {
			err = e.out.Push(row)
		}
		if err != nil {
			telemetry.StreamFailures.Inc()
			return err
		}
		telemetry.RowsWritten.Inc()
		first = false
	}
}

// Close is idempotent through its parts; each of them tolerates a second
// call. The sink closes last so buffered rows flush before the process ends.
func (e *Engine) Close() error {
	var first error
	if e.filter != nil {
		if err := e.filter.Close(); err != nil {
			first = err
		}
	}
	if e.src != nil {
		if err := e.src.Close(); err != nil && first == nil {
			first = err
		}
	}
	if e.out != nil {
		if err := e.out.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
