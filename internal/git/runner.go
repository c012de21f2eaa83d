package git

import (
	"bytes"
	"context"
	"os/exec"
)

// CommandRunner abstracts git command execution for testability.
type CommandRunner interface {
	Run(ctx context.Context, dir string, args ...string) (stdout string, stderr string, exitCode int, err error)
}

// ExecRunner implements CommandRunner by invoking the git binary.
type ExecRunner struct{}

func (e *ExecRunner) Run(ctx context.Context, dir string, args ...string) (string, string, int, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stdoutBuf, stderrBuf bytes.Buffer
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
