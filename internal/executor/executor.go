// Package executor wraps external tool invocation so command-driven
// components can be exercised in tests with canned exit statuses.
package executor

import (
	"bytes"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"git.home.luguber.info/inful/debbuilder/internal/logfields"
)

// Executor runs one external command to completion inside a working
// directory. Calls block until the tool exits; there is deliberately no
// timeout or cancellation, matching the rest of the release toolchain — a
// hung tool is an operator problem, not something to paper over.
type Executor interface {
	Run(dir string, argv ...string) error
}

// System executes commands with os/exec, capturing output for the log.
type System struct{}

// NewSystem returns the real Executor.
func NewSystem() *System { return &System{} }

func (s *System) Run(dir string, argv ...string) error {
	if len(argv) == 0 {
		return fmt.Errorf("empty command")
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("Running command", logfields.Command(strings.Join(argv, " ")), logfields.Path(dir))
	err := cmd.Run()

	if out := stdout.String(); out != "" {
		slog.Debug("command stdout", logfields.Command(argv[0]), slog.String("output", out))
	}
	if errOut := stderr.String(); errOut != "" {
		slog.Warn("command stderr", logfields.Command(argv[0]), slog.String("output", errOut))
	}

	if err != nil {
		if tail := lastLines(stderr.String(), 5); tail != "" {
			return fmt.Errorf("%s failed: %w: %s", argv[0], err, tail)
		}
		return fmt.Errorf("%s failed: %w", argv[0], err)
	}
	return nil
}

// lastLines keeps error messages readable when a tool dumps pages of output.
func lastLines(s string, n int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
