package cmd

import (
	"os"
	"strconv"

	"golang.org/x/term"
)

const defaultScreenRows = 24

// screenRows returns the terminal height by probing stdout, stderr and
// stdin, then $LINES, then falls back to 24.
func screenRows() int {
	for _, f := range []*os.File{os.Stdout, os.Stderr, os.Stdin} {
		if _, h, err := term.GetSize(int(f.Fd())); err == nil && h > 0 {
			return h
		}
	}
	if lines := os.Getenv("LINES"); lines != "" {
		if h, err := strconv.Atoi(lines); err == nil && h > 0 {
			return h
		}
	}
	return defaultScreenRows
}
