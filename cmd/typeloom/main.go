// Package main provides the typeloom CLI: a two-tier validation engine
// for user-defined content types and the records submitted against them.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/typeloom/typeloom/pkg/types"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the CLI exit code: validation and usage
// failures are user errors, everything else is a system error.
func exitCode(err error) int {
	var structural *types.StructuralError
	var validation *types.ValidationError
	switch {
	case errors.As(err, &structural),
		errors.As(err, &validation),
		errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrInvalidID),
		errors.Is(err, types.ErrInvalidData),
		errors.Is(err, types.ErrDuplicateName),
		errors.Is(err, types.ErrTableNotFound):
		return exitUserError
	default:
		return exitSysError
	}
}
