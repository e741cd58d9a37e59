package sed

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// Execute pipes a field value through an external shell command. The default
// mode spawns one process per call, writes the value to stdin, and returns
// captured stdout with exactly one trailing newline trimmed. Continuous mode
// keeps a single subprocess alive for the operator's lifetime and exchanges
// one line per field.
type Execute struct {
	command    string
	timeout    time.Duration
	continuous bool

	mu     sync.Mutex
	proc   *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	stderr *bytes.Buffer
	broken error // terminal once the continuous subprocess fails
}

func parseExecute(expr string, opts Options) (*Execute, error) {
	parts, _, err := splitParts(expr, 2, "e/command/")
	if err != nil {
		return nil, err
	}
	command, flags := parts[0], parts[1]
	if command == "" {
		return nil, &InvalidModifierError{Spec: expr, Reason: "empty command"}
	}
	if err := checkFlags(expr, flags, "", "execute"); err != nil {
		return nil, err
	}
	return &Execute{
		command:    command,
		timeout:    opts.execTimeout(),
		continuous: opts.ExecContinuous,
	}, nil
}

// Command returns the shell command string the operator runs.
func (e *Execute) Command() string { return e.command }

func (e *Execute) Apply(ctx context.Context, value string) (string, error) {
	if e.continuous {
		return e.applyContinuous(value)
	}
	return e.applyOnce(ctx, value)
}

func (e *Execute) applyOnce(ctx context.Context, value string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", e.command)
	cmd.Stdin = strings.NewReader(value)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s", e.timeout)
		}
		return "", &ExecError{Command: e.command, Stderr: stderr.String(), Err: err}
	}
	return strings.TrimSuffix(stdout.String(), "\n"), nil
}

// applyContinuous feeds one line to the persistent subprocess and reads one
// line back. The protocol is line-oriented, so a field value containing a
// newline cannot be represented and fails.
func (e *Execute) applyContinuous(value string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.broken != nil {
		return "", e.broken
	}
	if strings.ContainsRune(value, '\n') {
		return "", &ExecError{
			Command: e.command,
			Err:     errors.New("field value contains a newline, unsupported in continuous mode"),
		}
	}
	if e.proc == nil {
		if err := e.startLocked(); err != nil {
			e.broken = err
			return "", err
		}
	}
	if _, err := io.WriteString(e.stdin, value+"\n"); err != nil {
		return "", e.failLocked(err)
	}
	line, err := e.stdout.ReadString('\n')
	if err != nil {
		return "", e.failLocked(err)
	}
	return strings.TrimSuffix(line, "\n"), nil
}

func (e *Execute) startLocked() error {
	cmd := exec.Command("/bin/sh", "-c", e.command)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return &ExecError{Command: e.command, Err: err}
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return &ExecError{Command: e.command, Err: err}
	}
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr
	if err := cmd.Start(); err != nil {
		return &ExecError{Command: e.command, Err: err}
	}
	e.proc = cmd
	e.stdin = stdin
	e.stdout = bufio.NewReader(stdout)
	e.stderr = stderr
	return nil
}

// failLocked tears the subprocess down after an I/O error and records the
// stream as broken so later calls fail fast instead of hanging.
func (e *Execute) failLocked(cause error) error {
	_ = e.stdin.Close()
	werr := e.waitLocked()
	execErr := &ExecError{Command: e.command, Stderr: e.stderr.String(), Err: cause}
	if werr != nil {
		execErr.Err = fmt.Errorf("%v (process: %v)", cause, werr)
	}
	e.proc = nil
	e.broken = execErr
	return execErr
}

// waitLocked reaps the subprocess with a bounded wait, killing it if it does
// not exit on its own.
func (e *Execute) waitLocked() error {
	done := make(chan error, 1)
	go func() { done <- e.proc.Wait() }()
	select {
	case err := <-done:
		return err
	case <-time.After(e.timeout):
		_ = e.proc.Process.Kill()
		return <-done
	}
}

// Close releases the persistent subprocess, if any. It is idempotent and a
// no-op for spawn-per-call operators.
func (e *Execute) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.proc == nil {
		return nil
	}
	_ = e.stdin.Close()
	err := e.waitLocked()
	e.proc = nil
	if err != nil {
		return &ExecError{Command: e.command, Stderr: e.stderr.String(), Err: err}
	}
	return nil
}
