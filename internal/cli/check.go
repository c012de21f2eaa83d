package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seshat-dev/seshat/internal/checks"
	"github.com/seshat-dev/seshat/internal/git"
)

var (
	checkPath     string
	checkSelector string
)

var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Run pre-commit checks without committing",
	Long: `check detects the project type, resolves its lint, test and typecheck
tools (honoring .seshat overrides) and runs them against the given
files, or against all changed files when none are given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(commonFlags{path: checkPath})
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		kinds := checks.ParseKinds(checkSelector)
		if len(kinds) == 0 {
			kinds = checks.AllKinds
		}

		files := args
		if len(files) == 0 {
			statuses, err := d.git.Status(ctx)
			if err != nil {
				return err
			}
			for _, s := range statuses {
				if s.Kind != git.Deleted {
					files = append(files, s.Path)
				}
			}
		}

		workdir := checkPath
		if workdir == "" {
			workdir = "."
		}
		strategy := checks.Detect(workdir, d.project)
		gate := checks.NewGate(workdir, nil, strategy)

		outcomes := gate.Run(ctx, files, kinds, d.project)
		failed := false
		for _, o := range outcomes {
			switch {
			case o.Skipped:
				cmd.Printf("%s (%s): skipped, %s\n", o.Tool, o.Kind, o.SkipReason)
			case o.Success:
				cmd.Printf("%s (%s): ok\n", o.Tool, o.Kind)
			default:
				cmd.Printf("%s (%s): FAILED\n", o.Tool, o.Kind)
				if o.Output != "" {
					cmd.Println(strings.TrimRight(o.Output, "\n"))
				}
				if o.Blocking {
					failed = true
				}
			}
		}
		if failed {
			return fmt.Errorf("blocking checks failed")
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVarP(&checkPath, "path", "C", "", "run as if started in this directory")
	checkCmd.Flags().StringVar(&checkSelector, "check", "full", "checks to run: lint, test, typecheck, full")
}
