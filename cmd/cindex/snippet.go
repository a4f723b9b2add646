package main

import (
	"github.com/spf13/cobra"

	"github.com/cindexdev/cindex/internal/tools"
)

var (
	flagSnippetStart int
	flagSnippetEnd   int
)

var snippetCmd = &cobra.Command{
	Use:   "snippet <path> <file>",
	Short: "Read a line range from a file within a repository",
	Args:  cobra.ExactArgs(2),
	RunE:  runSnippet,
}

func init() {
	snippetCmd.Flags().IntVar(&flagSnippetStart, "start", 0, "first line (1-based, default: whole file)")
	snippetCmd.Flags().IntVar(&flagSnippetEnd, "end", 0, "last line (1-based, default: whole file)")
}

func runSnippet(cmd *cobra.Command, args []string) error {
	repoPath, err := resolveRepoPath(args[:1])
	if err != nil {
		return err
	}
	filePath := args[1]

	result, terr := tools.Snippet(repoPath, filePath, flagSnippetStart, flagSnippetEnd)
	if terr != nil {
		return outputError("snippet", terr)
	}
	return outputResult(CLIResult{Command: "snippet", Results: result})
}
