package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cindexdev/cindex/internal/tools"
	"github.com/cindexdev/cindex/internal/types"
)

var (
	flagMode  string
	flagLevel int
)

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Index a repository, building or updating its graph",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runIndex,
}

func init() {
	indexCmd.Flags().StringVar(&flagMode, "mode", "", "full|incremental (default: auto-detected)")
	indexCmd.Flags().IntVar(&flagLevel, "level", 0, "indexing detail level: 0 or 1")
}

func runIndex(cmd *cobra.Command, args []string) error {
	repoPath, err := resolveRepoPath(args)
	if err != nil {
		return err
	}

	mode := types.IndexMode(flagMode)
	if mode != "" && mode != types.ModeFull && mode != types.ModeIncremental {
		return fmt.Errorf("invalid mode %q: must be full or incremental", flagMode)
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	summary, terr := tools.Index(s, repoPath, mode, flagLevel)
	if terr != nil {
		return outputError("index", terr)
	}
	return outputResult(CLIResult{Command: "index", Results: summary})
}
