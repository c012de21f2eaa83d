// Package checks runs configured pre-commit tools (linters, test
// runners, type checkers) against a change set and reduces their
// results to a pass/block decision.
package checks

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// Kind is a category of pre-commit check.
type Kind string

const (
	KindLint      Kind = "lint"
	KindTest      Kind = "test"
	KindTypecheck Kind = "typecheck"
)

// AllKinds is the expansion of a "full" check request, in run order.
var AllKinds = []Kind{KindLint, KindTest, KindTypecheck}

// ParseKinds maps a CLI check selector ("lint", "lint,test", "full") to
// the kinds to run.
func ParseKinds(s string) []Kind {
	switch s {
	case "", "none":
		return nil
	case "full":
		return AllKinds
	}
	var kinds []Kind
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			kinds = append(kinds, Kind(part))
		}
	}
	return kinds
}

// Tool is a runnable check command resolved for the current project.
type Tool struct {
	Name       string
	Command    []string
	Kind       Kind
	Blocking   bool
	PassFiles  bool // append the filtered file list to the command
	Extensions []string
	Timeout    time.Duration
}

// Outcome is the result of one tool run (or skip).
type Outcome struct {
	Tool       string `json:"tool"`
	Kind       Kind   `json:"kind"`
	Success    bool   `json:"success"`
	Blocking   bool   `json:"blocking"`
	Output     string `json:"output,omitempty"`
	Skipped    bool   `json:"skipped,omitempty"`
	SkipReason string `json:"skip_reason,omitempty"`
	DurationMs int    `json:"duration_ms,omitempty"`
}

// HasBlockingFailure reports whether any blocking tool failed. Skipped
// tools never count; non-blocking failures are recorded but don't stop
// the pipeline.
func HasBlockingFailure(outcomes []Outcome) bool {
	for _, o := range outcomes {
		if o.Blocking && !o.Success && !o.Skipped {
			return true
		}
	}
	return false
}

// CommandRunner abstracts tool execution for testability.
type CommandRunner interface {
	Run(ctx context.Context, dir string, command []string) (stdout string, stderr string, exitCode int, err error)
}

// ExecRunner implements CommandRunner with os/exec.
type ExecRunner struct{}

func (e *ExecRunner) Run(ctx context.Context, dir string, command []string) (string, string, int, error) {
	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Dir = dir

	var stdoutBuf, stderrBuf strings.Builder
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
			err = nil
		}
	}
	return stdoutBuf.String(), stderrBuf.String(), exitCode, err
}
