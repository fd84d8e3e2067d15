package main

import (
	"os"

	errs "themedl/pkg/errors"
	"themedl/pkg/ui"
)

func main() {
	if err := Execute(); err != nil {
		ui.PrintError(err.Error())
		os.Exit(errs.ExitCode(err))
	}
}
