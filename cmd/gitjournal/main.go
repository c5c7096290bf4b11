package main

import (
	"os"

	"github.com/jmragsdale/git-journal/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
