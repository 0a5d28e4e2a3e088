// Package main provides the entry point for the doppel CLI.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/doppel/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
