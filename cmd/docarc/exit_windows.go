//go:build windows

package main

import (
	"bufio"
	"fmt"
	"os"

	"golang.org/x/term"
)

func exit(err error) {
	// docarc.exe started from Explorer gets a console that closes as soon as docarc exits, taking the log with it.
	if term.IsTerminal(int(os.Stdin.Fd())) {
		_, _ = fmt.Fprintf(os.Stderr, "docarc has finished, press any key to close this console\n")
		r := bufio.NewReader(os.Stdin)
		_, _, _ = r.ReadRune()
	}

	os.Exit(exitCode(err))
}
