// Package ui holds terminal styling for the qaseio CLI: result and run
// status colors, icons, and markdown rendering for case text.
package ui

import (
	"os"

	"golang.org/x/term"
)

func stdoutFd() int { return int(os.Stdout.Fd()) }

// IsTerminal reports whether stdout is a TTY.
func IsTerminal() bool {
	return term.IsTerminal(stdoutFd())
}

// Width returns the terminal width of stdout, or fallback when stdout is
// not a terminal.
func Width(fallback int) int {
	if w, _, err := term.GetSize(stdoutFd()); err == nil && w > 0 {
		return w
	}
	return fallback
}

// ShouldUseColor decides whether output is styled. NO_COLOR, CLICOLOR=0
// and TERM=dumb turn color off; CLICOLOR_FORCE or FORCE_COLOR turn it on
// for pipes (CI logs). Otherwise color follows TTY detection.
func ShouldUseColor() bool {
	switch {
	case os.Getenv("NO_COLOR") != "", os.Getenv("CLICOLOR") == "0", os.Getenv("TERM") == "dumb":
		return false
	case os.Getenv("CLICOLOR_FORCE") != "", os.Getenv("FORCE_COLOR") != "":
		return true
	}
	return IsTerminal()
}
