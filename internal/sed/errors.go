package sed

import "fmt"

// InvalidModifierError reports a modifier expression that cannot be parsed
// into an operator: unknown type tag, malformed delimiters, bad flags,
// reversed or unbalanced character ranges, or a pattern that fails to compile.
type InvalidModifierError struct {
	Spec   string
	Reason string
}

func (e *InvalidModifierError) Error() string {
	return fmt.Sprintf("invalid modifier %q: %s", e.Spec, e.Reason)
}

// ColumnIdentifierError reports a column key that cannot be resolved to a
// position, or two keys that resolve to the same physical column.
type ColumnIdentifierError struct {
	Name   string
	Index  int
	Reason string
}

func (e *ColumnIdentifierError) Error() string {
	return "column identifier: " + e.Reason
}

// ExecError reports an external command that could not be spawned, exited
// non-zero, or exceeded its bounded wait. Stderr carries whatever the
// command wrote to its error stream before failing.
type ExecError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *ExecError) Error() string {
	msg := fmt.Sprintf("command %q failed: %v", e.Command, e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ExecError) Unwrap() error { return e.Err }
