package sed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
)

// RowSource yields one row of string fields per call. io.EOF signals a clean
// end of stream; any other error aborts it.
type RowSource interface {
	Next(ctx context.Context) ([]string, error)
}

// Filter applies a resolved column mapping to every data row pulled from an
// upstream source. It implements RowSource itself, so it chains anywhere a
// row source is expected. Single pass, at most one row buffered, forward
// only: row order, column order, and untargeted fields pass through exactly
// as received.
type Filter struct {
	src     RowSource
	mapping ColumnMapping
	cols    []int // mapped columns in ascending order, for deterministic errors

	header    []string
	hasHeader bool
	pending   bool // header not yet replayed
	done      bool
	err       error // sticky abort error, replayed on later pulls
}

// NewFilter resolves mods against the stream and returns the filter. When
// header is true the first row is consumed immediately so that name-keyed
// modifiers can resolve; it is replayed unmodified on the first Next call.
func NewFilter(ctx context.Context, src RowSource, mods ModifierSet, header bool, opts Options) (*Filter, error) {
	f := &Filter{src: src}
	var names []string
	if header {
		row, err := src.Next(ctx)
		switch {
		case errors.Is(err, io.EOF):
			f.done = true
		case err != nil:
			return nil, err
		default:
			f.header = row
			f.hasHeader = true
			f.pending = true
			names = row
		}
	}
	mapping, err := Resolve(names, mods, opts)
	if err != nil {
		return nil, err
	}
	f.mapping = mapping
	f.cols = make([]int, 0, len(mapping))
	for col := range mapping {
		f.cols = append(f.cols, col)
	}
	sort.Ints(f.cols)
	return f, nil
}

// Header returns the header row, or nil when the stream has none.
func (f *Filter) Header() []string {
	if !f.hasHeader {
		return nil
	}
	return f.header
}

// Next returns the next row with mapped columns transformed. The header row,
// when present, is the first row returned and is never transformed. After an
// operator failure or end of stream the filter is terminal: further calls
// replay the same signal.
func (f *Filter) Next(ctx context.Context) ([]string, error) {
	if f.pending {
		f.pending = false
		return f.header, nil
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.done {
		return nil, io.EOF
	}
	row, err := f.src.Next(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) {
			f.done = true
		} else {
			f.err = err
		}
		return nil, err
	}
	for _, col := range f.cols {
		if col >= len(row) {
			f.err = &ColumnIdentifierError{
				Index:  col,
				Reason: fmt.Sprintf("row has %d fields, modifier targets column %d", len(row), col),
			}
			return nil, f.err
		}
		v, err := f.mapping[col].Apply(ctx, row[col])
		if err != nil {
			f.err = err
			return nil, err
		}
		row[col] = v
	}
	return row, nil
}

// Close releases operators that own external resources (continuous-mode
// Execute subprocesses). The upstream source is not closed; its owner does
// that.
func (f *Filter) Close() error {
	var first error
	for _, col := range f.cols {
		if c, ok := f.mapping[col].(io.Closer); ok {
			if err := c.Close(); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}
