package cli

import (
	"github.com/spf13/cobra"
)

var version = "dev"

func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "seshat",
	Short: "AI-assisted conventional commits",
	Long: `seshat generates Conventional Commits messages from staged diffs using an
AI provider, gates commits behind pre-commit checks and an AI code review,
and batch-commits modified files one at a time with cross-process file locks.

Global configuration lives in ~/.seshat/config.yaml; per-project settings
in a .seshat file at the repository root.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(flowCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)
}
