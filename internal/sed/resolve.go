package sed

import (
	"fmt"
	"sort"
	"strconv"
)

// ModifierSet carries raw modifier expressions before column resolution.
// Exactly one of the two forms may be populated: ByColumn keys columns by
// header name or decimal 0-based index; Ordered aligns expressions with
// column positions starting at 0. Empty expressions mean "leave this column
// alone" in both forms.
type ModifierSet struct {
	ByColumn map[string]string
	Ordered  []string
}

func (m ModifierSet) empty() bool {
	return len(m.ByColumn) == 0 && len(m.Ordered) == 0
}

// ColumnMapping assigns at most one operator per zero-based column index.
type ColumnMapping map[int]Operator

// Resolve parses every expression and maps it onto a column index. header is
// the ordered header row, or nil when the stream has none; without a header,
// non-numeric keys cannot be resolved. A name entry and an index entry
// landing on the same physical column is a conflict, not an overwrite.
func Resolve(header []string, mods ModifierSet, opts Options) (ColumnMapping, error) {
	if len(mods.ByColumn) > 0 && len(mods.Ordered) > 0 {
		return nil, fmt.Errorf("modifiers: keyed and positional forms are mutually exclusive")
	}
	if len(mods.Ordered) > 0 {
		return resolveOrdered(mods.Ordered, opts)
	}
	return resolveKeyed(header, mods.ByColumn, opts)
}

func resolveOrdered(exprs []string, opts Options) (ColumnMapping, error) {
	mapping := make(ColumnMapping, len(exprs))
	for i, expr := range exprs {
		if expr == "" {
			continue
		}
		op, err := ParseWith(expr, opts)
		if err != nil {
			return nil, err
		}
		mapping[i] = op
	}
	return mapping, nil
}

func resolveKeyed(header []string, byColumn map[string]string, opts Options) (ColumnMapping, error) {
	// Index-keyed entries land first so that a name entry colliding with one
	// is reported against the name, deterministically.
	type entry struct {
		key   string
		expr  string
		index int
		named bool
	}
	var indexed, named []entry
	for key, expr := range byColumn {
		if expr == "" {
			continue
		}
		if idx := headerIndex(header, key); idx >= 0 {
			named = append(named, entry{key: key, expr: expr, index: idx, named: true})
			continue
		}
		if idx, err := strconv.Atoi(key); err == nil && idx >= 0 {
			indexed = append(indexed, entry{key: key, expr: expr, index: idx})
			continue
		}
		if header == nil {
			return nil, &ColumnIdentifierError{
				Name:   key,
				Index:  -1,
				Reason: fmt.Sprintf("column %q cannot be resolved without a header row", key),
			}
		}
		return nil, &ColumnIdentifierError{
			Name:   key,
			Index:  -1,
			Reason: fmt.Sprintf("column %q is neither a header name nor a valid index", key),
		}
	}
	sort.Slice(indexed, func(i, j int) bool { return indexed[i].index < indexed[j].index })
	sort.Slice(named, func(i, j int) bool { return named[i].key < named[j].key })

	// Every expression parses before any placement, so a bad modifier is
	// reported ahead of any collision it might also be involved in.
	all := append(indexed, named...)
	ops := make([]Operator, len(all))
	for i, e := range all {
		op, err := ParseWith(e.expr, opts)
		if err != nil {
			return nil, err
		}
		ops[i] = op
	}

	mapping := make(ColumnMapping, len(all))
	taken := make(map[int]string)
	for i, e := range all {
		if prev, ok := taken[e.index]; ok {
			return nil, &ColumnIdentifierError{
				Name:  e.key,
				Index: e.index,
				Reason: fmt.Sprintf("column %q has index %d which already has a modifier (%q vs key %q)",
					e.key, e.index, e.expr, prev),
			}
		}
		mapping[e.index] = ops[i]
		taken[e.index] = e.key
	}
	return mapping, nil
}

func headerIndex(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}
