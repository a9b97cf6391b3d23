package main

import (
	"os"

	"github.com/arthur-debert/dotman/cmd/dotman/commands"
	"github.com/arthur-debert/dotman/pkg/ui"
	"github.com/arthur-debert/dotman/pkg/ui/output"
)

func main() {
	rootCmd := commands.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		output.Error(os.Stderr, err, ui.DetectFormat(os.Stderr))
		os.Exit(1)
	}
}
