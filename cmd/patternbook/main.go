package main

import (
	"os"

	"github.com/patternbook/patternbook/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
