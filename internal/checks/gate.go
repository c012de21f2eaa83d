package checks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/seshat-dev/seshat/internal/config"
)

const defaultTimeout = 5 * time.Minute

// Gate resolves and runs the pre-commit checks for a change set.
type Gate struct {
	dir      string
	runner   CommandRunner
	strategy Strategy
}

// NewGate creates a Gate for the project at dir. A nil runner executes
// real commands; a nil strategy means no project type was detected and
// every kind is skipped.
func NewGate(dir string, runner CommandRunner, strategy Strategy) *Gate {
	if runner == nil {
		runner = &ExecRunner{}
	}
	return &Gate{dir: dir, runner: runner, strategy: strategy}
}

// Run executes the requested check kinds against files. Deleted paths
// must already be excluded by the caller; files is what remains on disk.
func (g *Gate) Run(ctx context.Context, files []string, kinds []Kind, cfg *config.Project) []Outcome {
	var outcomes []Outcome

	if g.strategy == nil {
		for _, kind := range kinds {
			outcomes = append(outcomes, Outcome{
				Tool:       string(kind),
				Kind:       kind,
				Success:    true,
				Skipped:    true,
				SkipReason: "project type not detected",
			})
		}
		return outcomes
	}

	tools := g.strategy.DiscoverTools(g.dir)
	for _, kind := range kinds {
		tool, ok := tools[kind]
		if !ok {
			outcomes = append(outcomes, Outcome{
				Tool:       string(kind),
				Kind:       kind,
				Success:    true,
				Skipped:    true,
				SkipReason: "no tool available",
			})
			continue
		}
		tool = applyOverride(tool, cfg)
		outcomes = append(outcomes, g.runTool(ctx, tool, files))
	}
	return outcomes
}

func (g *Gate) runTool(ctx context.Context, tool Tool, files []string) Outcome {
	relevant := g.strategy.FilterFiles(files, tool.Kind, tool.Extensions)
	if len(relevant) == 0 {
		return Outcome{
			Tool:       tool.Name,
			Kind:       tool.Kind,
			Success:    true,
			Blocking:   tool.Blocking,
			Skipped:    true,
			SkipReason: "no matching files",
		}
	}

	command := append([]string(nil), tool.Command...)
	if tool.PassFiles {
		command = append(command, relevant...)
	}

	timeout := tool.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	stdout, stderr, exitCode, err := g.runner.Run(runCtx, g.dir, command)
	duration := int(time.Since(start).Milliseconds())

	output := strings.TrimSpace(stdout)
	if s := strings.TrimSpace(stderr); s != "" {
		if output != "" {
			output += "\n"
		}
		output += s
	}

	if err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			output = fmt.Sprintf("timeout after %s", timeout)
		} else {
			output = fmt.Sprintf("failed to run %s: %v", command[0], err)
		}
		return Outcome{
			Tool:       tool.Name,
			Kind:       tool.Kind,
			Success:    false,
			Blocking:   tool.Blocking,
			Output:     output,
			DurationMs: duration,
		}
	}

	return Outcome{
		Tool:       tool.Name,
		Kind:       tool.Kind,
		Success:    exitCode == 0,
		Blocking:   tool.Blocking,
		Output:     output,
		DurationMs: duration,
	}
}
