// Package main provides the CLI entry point for tidy.
package main

import (
	"errors"
	"fmt"
	"os"

	"tidy/internal/cmd"
)

func main() {
	if err := cmd.NewRootCommand().Execute(); err != nil {
		if !errors.Is(err, cmd.ErrOperationFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
