package main

import (
	"github.com/spf13/cobra"

	"github.com/cindexdev/cindex/internal/tools"
)

var statusCmd = &cobra.Command{
	Use:   "status [path]",
	Short: "Report whether a repository is indexed",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	repoPath, err := resolveRepoPath(args)
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	status, terr := tools.Status(s, repoPath)
	if terr != nil {
		return outputError("status", terr)
	}
	return outputResult(CLIResult{Command: "status", Results: status})
}
