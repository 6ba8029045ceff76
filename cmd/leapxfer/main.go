// Package main provides the CLI for leapxfer.
package main

import (
	"os"

	"github.com/leapstack-labs/leapxfer/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
