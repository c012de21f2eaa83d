package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seshat-dev/seshat/internal/classify"
	"github.com/seshat-dev/seshat/internal/engine"
	"github.com/seshat-dev/seshat/internal/git"
)

var commitFlags commonFlags

var commitCmd = &cobra.Command{
	Use:   "commit [paths...]",
	Short: "Commit staged changes with a generated message",
	Long: `commit inspects the staged change set (optionally scoped to the given
paths), runs any requested checks and code review, generates a
Conventional Commits message and commits.

Pure deletions, documentation-only and dotfile-only change sets get an
automatic message without contacting the AI provider.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(commitFlags)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		statuses, err := d.git.Status(ctx, args...)
		if err != nil {
			return err
		}
		cs := stagedChangeSet(statuses)
		if cs.Empty() {
			return fmt.Errorf("nothing staged; stage changes with git add first")
		}

		outcome, err := d.engine.Decide(ctx, cs, d.flags)
		if err != nil {
			reportOutcome(cmd, outcome)
			return err
		}
		reportOutcome(cmd, outcome)
		cmd.Printf("committed: %s\n", firstLine(outcome.Message))
		return nil
	},
}

func init() {
	addCommonFlags(commitCmd, &commitFlags)
}

// stagedChangeSet keeps only entries with something in the index.
// Untracked files stay out: commit works on what the user staged.
func stagedChangeSet(statuses []git.FileStatus) classify.ChangeSet {
	var files []git.FileStatus
	for _, s := range statuses {
		if s.Kind != git.Untracked {
			files = append(files, s)
		}
	}
	return classify.ChangeSet{Files: files}
}

func reportOutcome(cmd *cobra.Command, outcome *engine.Outcome) {
	if outcome == nil {
		return
	}
	for _, c := range outcome.Checks {
		switch {
		case c.Skipped:
			cmd.Printf("check %s (%s): skipped, %s\n", c.Tool, c.Kind, c.SkipReason)
		case c.Success:
			cmd.Printf("check %s (%s): ok\n", c.Tool, c.Kind)
		default:
			cmd.Printf("check %s (%s): FAILED\n", c.Tool, c.Kind)
			if c.Output != "" {
				cmd.Println(strings.TrimRight(c.Output, "\n"))
			}
		}
	}
	if outcome.Warning != "" {
		cmd.Printf("warning: %s\n", outcome.Warning)
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
