// Package sed implements the csvsed modifier mini-language: parsing
// sed-style modifier expressions into operators and applying them to CSV
// fields as rows stream through a Filter.
//
// An expression is one of
//
//	s<sep>pattern<sep>replacement<sep>flags   substitution
//	y<sep>source<sep>destination<sep>flags    transliteration
//	e<sep>command<sep>                        external command
//
// where <sep> is any single character not used inside the parts.
package sed

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Operator transforms one field value. Substitute and Transliterate are pure;
// Execute spawns (or feeds) an external process and honors ctx.
type Operator interface {
	Apply(ctx context.Context, value string) (string, error)
}

// DefaultExecTimeout bounds the wait on a spawned command when Options does
// not say otherwise. A hung command must not stall the stream forever.
const DefaultExecTimeout = 30 * time.Second

// Options tunes operator construction. The zero value is valid.
type Options struct {
	// ExecTimeout bounds each spawned command; zero means DefaultExecTimeout.
	ExecTimeout time.Duration
	// ExecContinuous keeps one subprocess alive per Execute operator and
	// feeds it one line per field instead of spawning per call.
	ExecContinuous bool
}

func (o Options) execTimeout() time.Duration {
	if o.ExecTimeout > 0 {
		return o.ExecTimeout
	}
	return DefaultExecTimeout
}

// Flag whitelists per operator kind. Order matches the documented sets.
const (
	substituteFlags    = "iglmsux"
	transliterateFlags = "i"
)

// Parse builds an operator from a modifier expression with default Options.
func Parse(expr string) (Operator, error) {
	return ParseWith(expr, Options{})
}

// ParseWith builds an operator from a modifier expression. The first byte
// selects the kind, the rune after it is the part delimiter.
func ParseWith(expr string, opts Options) (Operator, error) {
	if expr == "" {
		return nil, &InvalidModifierError{Spec: expr, Reason: "empty modifier"}
	}
	switch expr[0] {
	case 's':
		return parseSubstitute(expr)
	case 'y':
		return parseTransliterate(expr)
	case 'e':
		return parseExecute(expr, opts)
	default:
		return nil, &InvalidModifierError{
			Spec:   expr,
			Reason: fmt.Sprintf("unsupported modifier type %q (want s, y, or e)", expr[0]),
		}
	}
}

// splitParts splits everything after the type tag on the delimiter rune at
// position 1 and checks the part count. want counts the parts after the tag:
// 3 for s/y (pattern, replacement, flags), 2 for e (command, empty flags).
func splitParts(expr string, want int, form string) ([]string, rune, error) {
	sep, size := utf8.DecodeRuneInString(expr[1:])
	if size == 0 || sep == utf8.RuneError {
		return nil, 0, &InvalidModifierError{Spec: expr, Reason: "missing delimiter"}
	}
	parts := strings.Split(expr[1+size:], string(sep))
	if len(parts) != want {
		tmpl := strings.ReplaceAll(form, "/", string(sep))
		return nil, 0, &InvalidModifierError{
			Spec:   expr,
			Reason: fmt.Sprintf("does not match expected form %q", tmpl),
		}
	}
	return parts, sep, nil
}

func checkFlags(expr, flags, allowed, kind string) error {
	for _, f := range flags {
		if strings.ContainsRune(allowed, f) {
			continue
		}
		var reason string
		switch {
		case allowed == "":
			reason = fmt.Sprintf("%s modifiers accept no flags, got %q", kind, f)
		case utf8.RuneCountInString(allowed) == 1:
			reason = fmt.Sprintf("unknown flag %q for %s modifiers (only %q is supported)", f, kind, allowed)
		default:
			reason = fmt.Sprintf("unknown flag %q for %s modifiers (supported: %q)", f, kind, allowed)
		}
		return &InvalidModifierError{Spec: expr, Reason: reason}
	}
	return nil
}

// Substitute replaces regular-expression matches in a field. With the g flag
// every non-overlapping match is replaced, otherwise only the first.
type Substitute struct {
	re     *regexp.Regexp
	repl   string // RE2 expand template, rewritten from sed-style back-references
	global bool
}

func parseSubstitute(expr string) (*Substitute, error) {
	parts, _, err := splitParts(expr, 3, "s/pattern/replacement/flags")
	if err != nil {
		return nil, err
	}
	pattern, repl, flags := parts[0], parts[1], parts[2]
	if pattern == "" {
		return nil, &InvalidModifierError{Spec: expr, Reason: "no previous regular expression"}
	}
	if err := checkFlags(expr, flags, substituteFlags, "substitute"); err != nil {
		return nil, err
	}

	var inline string
	for _, f := range "ims" {
		if strings.ContainsRune(flags, f) {
			inline += string(f)
		}
	}
	// l and u are accepted for compatibility; RE2 is Unicode-native and not
	// locale-aware, so they have nothing to select.
	if strings.ContainsRune(flags, 'x') {
		pattern = stripVerbose(pattern)
	}
	if inline != "" {
		pattern = "(?" + inline + ")" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &InvalidModifierError{Spec: expr, Reason: err.Error()}
	}
	return &Substitute{
		re:     re,
		repl:   compileReplacement(repl),
		global: strings.ContainsRune(flags, 'g'),
	}, nil
}

func (s *Substitute) Apply(_ context.Context, value string) (string, error) {
	if s.global {
		return s.re.ReplaceAllString(value, s.repl), nil
	}
	loc := s.re.FindStringSubmatchIndex(value)
	if loc == nil {
		return value, nil
	}
	out := make([]byte, 0, len(value))
	out = append(out, value[:loc[0]]...)
	out = s.re.ExpandString(out, s.repl, value, loc)
	out = append(out, value[loc[1]:]...)
	return string(out), nil
}

// compileReplacement rewrites a sed/PCRE-style replacement into an RE2 expand
// template: \1..\9 become ${n}, \n and \t become control characters, \x drops
// the backslash, and literal $ is doubled so Expand leaves it alone.
func compileReplacement(repl string) string {
	var b strings.Builder
	b.Grow(len(repl))
	for i := 0; i < len(repl); i++ {
		c := repl[i]
		switch {
		case c == '$':
			b.WriteString("$$")
		case c == '\\' && i+1 < len(repl):
			i++
			n := repl[i]
			switch {
			case n >= '0' && n <= '9':
				b.WriteString("${")
				b.WriteByte(n)
				b.WriteByte('}')
			case n == 'n':
				b.WriteByte('\n')
			case n == 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(n)
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// stripVerbose removes insignificant whitespace and #-comments from a pattern
// written with the x flag. RE2 has no free-spacing mode, so the cleanup
// happens before compilation. Whitespace inside character classes and escaped
// characters survive.
func stripVerbose(pattern string) string {
	var b strings.Builder
	b.Grow(len(pattern))
	inClass := false
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '\\' && i+1 < len(pattern):
			b.WriteByte(c)
			i++
			b.WriteByte(pattern[i])
		case c == '[' && !inClass:
			inClass = true
			b.WriteByte(c)
		case c == ']' && inClass:
			inClass = false
			b.WriteByte(c)
		case inClass:
			b.WriteByte(c)
		case c == '#':
			for i < len(pattern) && pattern[i] != '\n' {
				i++
			}
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Transliterate remaps individual characters through a table built from
// equal-length (after range expansion) source and destination sets.
type Transliterate struct {
	table map[rune]rune
}

func parseTransliterate(expr string) (*Transliterate, error) {
	parts, _, err := splitParts(expr, 3, "y/source/destination/flags")
	if err != nil {
		return nil, err
	}
	src, dst, flags := parts[0], parts[1], parts[2]
	if src == "" {
		return nil, &InvalidModifierError{Spec: expr, Reason: "no previous regular expression"}
	}
	if err := checkFlags(expr, flags, transliterateFlags, "transliterate"); err != nil {
		return nil, err
	}
	if src, err = ExpandRanges(src); err != nil {
		return nil, &InvalidModifierError{Spec: expr, Reason: err.Error()}
	}
	if dst, err = ExpandRanges(dst); err != nil {
		return nil, &InvalidModifierError{Spec: expr, Reason: err.Error()}
	}
	sr, dr := []rune(src), []rune(dst)
	if len(sr) != len(dr) {
		return nil, &InvalidModifierError{
			Spec:   expr,
			Reason: fmt.Sprintf("source and destination must have equal length (%d vs %d)", len(sr), len(dr)),
		}
	}
	if strings.ContainsRune(flags, 'i') {
		// ToLower and ToUpper map rune for rune, so the sets stay aligned.
		sr = append([]rune(strings.ToLower(src)), []rune(strings.ToUpper(src))...)
		dr = append(dr, dr...)
	}
	table := make(map[rune]rune, len(sr))
	for i, r := range sr {
		// First occurrence wins, matching a left-to-right scan of the set.
		if _, ok := table[r]; !ok {
			table[r] = dr[i]
		}
	}
	return &Transliterate{table: table}, nil
}

func (t *Transliterate) Apply(_ context.Context, value string) (string, error) {
	return strings.Map(func(r rune) rune {
		if to, ok := t.table[r]; ok {
			return to
		}
		return r
	}, value), nil
}
