// Package main is the entry point for the logstream CLI.
package main

import (
	"os"

	"github.com/Philipp01105/logstream/cmd/logstream/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
