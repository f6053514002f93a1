// Package main provides the CLI for Metamath Prelude.
package main

import (
	"os"

	"github.com/epistemic-frontier/metamath-prelude/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
