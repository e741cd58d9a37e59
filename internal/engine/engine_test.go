package engine

import (
	"context"
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/dhatim/csvsed/internal/sed"
)

type fakeSource struct {
	rows   [][]string
	pos    int
	closed bool
}

func (s *fakeSource) Configure(any) error { return nil }
func (s *fakeSource) Next(context.Context) ([]string, error) {
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.pos]
	s.pos++
	return append([]string(nil), row...), nil
}
func (s *fakeSource) Close() error {
	s.closed = true
	return nil
}

type captureSink struct {
	header []string
	pushed [][]string
	closed bool
}

func (c *captureSink) Configure(any) error { return nil }
func (c *captureSink) PushHeader(row []string) error {
	c.header = row
	return nil
}
func (c *captureSink) Push(row []string) error {
	c.pushed = append(c.pushed, row)
	return nil
}
func (c *captureSink) Close() error {
	c.closed = true
	return nil
}

func newEngine(t *testing.T, src *fakeSource, mods sed.ModifierSet, header bool) (*Engine, *captureSink) {
	t.Helper()
	filter, err := sed.NewFilter(context.Background(), src, mods, header, sed.Options{})
	if err != nil {
		t.Fatalf("NewFilter: %v", err)
	}
	out := &captureSink{}
	return &Engine{src: src, filter: filter, out: out, hasHeader: header}, out
}

func TestEngine_RoutesHeaderAndTransformsRows(t *testing.T) {
	src := &fakeSource{rows: [][]string{
		{"name", "qty"},
		{"apple", "3"},
		{"banana", "7"},
	}}
	e, out := newEngine(t, src, sed.ModifierSet{ByColumn: map[string]string{"qty": "y/0-9/a-j/"}}, true)

	if err := e.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !reflect.DeepEqual(out.header, []string{"name", "qty"}) {
		t.Fatalf("header: %v", out.header)
	}
	want := [][]string{
		{"apple", "d"},
		{"banana", "h"},
	}
	if !reflect.DeepEqual(out.pushed, want) {
		t.Fatalf("rows: %v, want %v", out.pushed, want)
	}
	if !src.closed || !out.closed {
		t.Fatal("resources not released")
	}
}

func TestEngine_NoHeaderPushesEverythingAsData(t *testing.T) {
	src := &fakeSource{rows: [][]string{{"abc"}}}
	e, out := newEngine(t, src, sed.ModifierSet{Ordered: []string{"s/b/X/"}}, false)

	if err := e.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.header != nil {
		t.Fatalf("unexpected header: %v", out.header)
	}
	if !reflect.DeepEqual(out.pushed, [][]string{{"aXc"}}) {
		t.Fatalf("rows: %v", out.pushed)
	}
}

func TestEngine_ExecFailureAbortsAndReleases(t *testing.T) {
	src := &fakeSource{rows: [][]string{{"v1"}, {"v2"}}}
	e, out := newEngine(t, src, sed.ModifierSet{Ordered: []string{"e/exit 7/"}}, false)

	err := e.Run(context.Background())
	var execErr *sed.ExecError
	if !errors.As(err, &execErr) {
		t.Fatalf("want ExecError, got %v", err)
	}
	if len(out.pushed) != 0 {
		t.Fatalf("no row should reach the sink, got %v", out.pushed)
	}
	if !src.closed || !out.closed {
		t.Fatal("resources not released on failure")
	}
}
