package main

import (
	"os"

	"github.com/mcncl/jsonedit/internal/cli"
)

func main() {
	os.Exit(cli.Main(arguments(os.Args[1:]), os.Stdin, os.Stdout, os.Stderr))
}

// arguments starts the interactive shell when no arguments are provided.
func arguments(args []string) []string {
	if len(args) == 0 {
		return []string{"shell"}
	}
	return args
}
