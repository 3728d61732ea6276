package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/pixelscan/cmd"
	"github.com/cwbudde/pixelscan/internal/errs"
)

// Exit codes reported to the shell.
const (
	exitSuccess     = 0
	exitBadArgument = 1
	exitUnknown     = 2
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps error kinds onto exit codes. Invalid input, whether
// from the command line or a malformed scan file, is a bad argument;
// everything else is an unknown failure.
func exitCode(err error) int {
	switch errs.KindOf(err) {
	case errs.InvalidArgument, errs.InvalidFormat:
		return exitBadArgument
	default:
		return exitUnknown
	}
}
