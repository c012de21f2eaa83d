package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seshat-dev/seshat/internal/flow"
	"github.com/seshat-dev/seshat/internal/history"
)

var (
	flowFlags    commonFlags
	flowMaxCount int
	flowDryRun   bool
	flowNoLog    bool
)

var flowCmd = &cobra.Command{
	Use:   "flow",
	Short: "Commit every changed file individually",
	Long: `flow discovers modified, untracked and staged files and commits each
one as its own commit. Every file is processed under a per-file lock so
multiple agents can run flows in the same repository concurrently; a
file locked by another agent is skipped, never fought over.

One failing file never aborts the batch: the run continues and the
summary reports committed, failed and skipped counts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(flowFlags)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		locks := flow.NewLockManager(d.git)

		var recorder flow.Recorder
		if !flowNoLog {
			dbPath, err := history.DefaultPath()
			if err == nil {
				store, err := history.Open(dbPath)
				if err == nil {
					defer store.Close()
					recorder = store
				}
			}
			// History is best-effort; a broken database never stops a flow.
		}

		orch := flow.NewOrchestrator(d.git, locks, d.engine, recorder)

		candidates, err := orch.Candidates(ctx)
		if err != nil {
			return err
		}
		if len(candidates) == 0 {
			cmd.Println("nothing to commit")
			return nil
		}

		if flowDryRun {
			cmd.Printf("%d candidate file(s):\n", len(candidates))
			for _, p := range candidates {
				cmd.Printf("  %s\n", p)
			}
			return nil
		}

		result := orch.Run(ctx, candidates, flow.RunOpts{
			MaxCount: flowMaxCount,
			Flags:    d.flags,
		})

		for _, f := range result.Files {
			if f.Detail != "" {
				cmd.Printf("%-9s %s (%s)\n", f.Status, f.Path, firstLine(f.Detail))
			} else {
				cmd.Printf("%-9s %s\n", f.Status, f.Path)
			}
		}
		cmd.Printf("flow done: %d committed, %d failed, %d skipped\n",
			result.Succeeded, result.Failed, result.Skipped)

		if result.Failed > 0 {
			return fmt.Errorf("%d file(s) failed", result.Failed)
		}
		return nil
	},
}

func init() {
	addCommonFlags(flowCmd, &flowFlags)
	flowCmd.Flags().IntVarP(&flowMaxCount, "max-count", "n", 0, "process at most n files (0 = all)")
	flowCmd.Flags().BoolVar(&flowDryRun, "dry-run", false, "list candidate files without committing")
	flowCmd.Flags().BoolVar(&flowNoLog, "no-log", false, "skip recording outcomes to the history database")
}
