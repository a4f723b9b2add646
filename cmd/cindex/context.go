package main

import (
	"github.com/spf13/cobra"

	"github.com/cindexdev/cindex/internal/tools"
)

var flagContextBudget int

var contextCmd = &cobra.Command{
	Use:   "context <path> <task>",
	Short: "Assemble a ranked context bundle for a natural-language task",
	Args:  cobra.ExactArgs(2),
	RunE:  runContext,
}

func init() {
	contextCmd.Flags().IntVar(&flagContextBudget, "budget", 8000, "token budget (100-50000)")
}

func runContext(cmd *cobra.Command, args []string) error {
	repoPath, err := resolveRepoPath(args[:1])
	if err != nil {
		return err
	}
	task := args[1]

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	bundle, terr := tools.Context(s, repoPath, task, flagContextBudget, nil)
	if terr != nil {
		return outputError("context", terr)
	}
	return outputResult(CLIResult{Command: "context", Results: bundle})
}
