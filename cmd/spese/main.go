// Package main is the entry point for the spese CLI.
package main

import (
	"os"

	"spese/cmd/spese/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
