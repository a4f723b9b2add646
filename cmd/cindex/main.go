package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cindexdev/cindex/internal/config"
	"github.com/cindexdev/cindex/internal/store"
)

var (
	flagDB     string
	flagFormat string
)

// errorHandled is set by outputError so main() doesn't double-print.
var errorHandled bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errorHandled {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "cindex",
	Short:         "Offline multi-language codebase indexer and context retriever",
	Long:          "cindex builds a dependency-and-symbol graph of a repository with tree-sitter and serves ranked context bundles for natural-language task descriptions.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(flagFormat)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "database path (default: $CINDEX_DB_PATH or ~/.cindex/cindex.db)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "json", "output format: json|text")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(snippetCmd)
	rootCmd.AddCommand(contextCmd)
}

// resolveDBPath returns the store path from --db if set, else defers to
// config.DefaultDBPath for the CINDEX_DB_PATH/~/.cindex/cindex.db default,
// creating the parent directory if absent.
func resolveDBPath() (string, error) {
	if flagDB == "" {
		return config.DefaultDBPath()
	}
	abs, err := filepath.Abs(flagDB)
	if err != nil {
		return "", fmt.Errorf("resolving db path %q: %w", flagDB, err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", filepath.Dir(abs), err)
	}
	return abs, nil
}

// openStore resolves the db path and opens (and migrates) the Store.
func openStore() (*store.Store, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, err
	}
	s, err := store.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, fmt.Errorf("migrating store: %w", err)
	}
	return s, nil
}

// resolveRepoPath converts a positional repo argument to an absolute path,
// defaulting to the current working directory.
func resolveRepoPath(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path %q: %w", dir, err)
	}
	return abs, nil
}
