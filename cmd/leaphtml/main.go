// Package main provides the CLI entry point for the LeapHTML linter.
package main

import (
	"os"

	"github.com/leapstack-labs/leaphtml/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
