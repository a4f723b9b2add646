package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/cindexdev/cindex/internal/cerrors"
)

var validFormats = []string{"json", "text"}

func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}

// outputResult marshals a CLIResult to stdout in the selected format.
func outputResult(result CLIResult) error {
	if flagFormat == "text" {
		return outputResultText(result)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// outputError writes a tool-surface error in the selected format and
// returns it so RunE can propagate it to Cobra. In JSON mode it's written
// to stdout as a CLIResult envelope carrying any *cerrors.Error suggestion;
// in text mode it goes to stderr.
func outputError(command string, err error) error {
	errorHandled = true

	var suggestion string
	var cerr *cerrors.Error
	if errors.As(err, &cerr) {
		suggestion = cerr.Suggestion
	}

	if flagFormat == "text" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		if suggestion != "" {
			fmt.Fprintf(os.Stderr, "Suggestion: %s\n", suggestion)
		}
		return err
	}
	result := CLIResult{Command: command, Error: err.Error(), Suggestion: suggestion}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(result)
	return err
}

// outputResultText dispatches to a plain-text rendering of the result,
// falling back to a key-value dump for shapes without a dedicated
// formatter.
func outputResultText(result CLIResult) error {
	switch v := result.Results.(type) {
	case fmt.Stringer:
		fmt.Fprintln(os.Stdout, v.String())
	default:
		fmt.Fprintf(os.Stdout, "%+v\n", v)
	}
	return nil
}
