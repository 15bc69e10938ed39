// Package main provides the entry point for the gitcal CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/Sumatoshi-tech/gitcal/cmd/gitcal/commands"
	"github.com/Sumatoshi-tech/gitcal/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	err := commands.NewCalendarCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
