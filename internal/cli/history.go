package cli

import (
	"github.com/spf13/cobra"

	"github.com/seshat-dev/seshat/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent flow outcomes",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := history.DefaultPath()
		if err != nil {
			return err
		}
		store, err := history.Open(path)
		if err != nil {
			return err
		}
		defer store.Close()

		events, err := store.Recent(historyLimit)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			cmd.Println("no recorded flow events")
			return nil
		}
		for _, e := range events {
			if e.Detail != "" {
				cmd.Printf("%s  %-9s %s (%s)\n", e.TS, e.Status, e.Path, firstLine(e.Detail))
			} else {
				cmd.Printf("%s  %-9s %s\n", e.TS, e.Status, e.Path)
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 50, "number of events to show")
}
