// Package main is the entry point for the pkba CLI tool.
package main

import (
	"os"

	"github.com/new-divos/pkbassist/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
