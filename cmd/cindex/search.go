package main

import (
	"github.com/spf13/cobra"

	"github.com/cindexdev/cindex/internal/tools"
)

var flagSearchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <path> <query>",
	Short: "Full-text search a repository's indexed files and symbols",
	Args:  cobra.ExactArgs(2),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&flagSearchLimit, "limit", 20, "maximum results (1-100)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	repoPath, err := resolveRepoPath(args[:1])
	if err != nil {
		return err
	}
	query := args[1]

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	results, terr := tools.Search(s, repoPath, query, flagSearchLimit)
	if terr != nil {
		return outputError("search", terr)
	}
	return outputResult(CLIResult{Command: "search", Results: results})
}
