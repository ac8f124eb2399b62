package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fenlabs/barter/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// Operation refusals are already rendered by the formatter in the
		// requested output format; everything else prints here.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) || !exitErr.Rendered {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
