package prober

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"slices"
)

// Runner sends a single echo probe to target and returns the text it
// produced. An error means the probe could not be attempted at all.
type Runner interface {
	Probe(target string) ([]byte, error)
}

// ExecRunner delegates each probe to an external ping utility
type ExecRunner struct {
	Binary string   // utility to run, looked up in PATH
	Args   []string // arguments placed before the target
}

// NewExecRunner returns a runner invoking `binary -c 1 <target>`
func NewExecRunner(binary string) ExecRunner {
	return ExecRunner{
		Binary: binary,
		Args:   []string{"-c", "1"},
	}
}

// Probe runs the utility to completion and returns its standard output.
// Standard error is discarded and a non-zero exit status is not an error:
// an unreachable target still produced a (possibly empty) block of text.
func (r ExecRunner) Probe(target string) ([]byte, error) {
	var stdout bytes.Buffer

	cmd := exec.Command(r.Binary, append(slices.Clone(r.Args), target)...)
	cmd.Stdout = &stdout
	cmd.Stderr = io.Discard

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("launch %s: %w", r.Binary, err)
		}
		slog.Debug("Probe exited with non-zero status", "target", target, "exit_code", exitErr.ExitCode())
	}

	return stdout.Bytes(), nil
}
