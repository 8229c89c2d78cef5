package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

type writer = io.Writer

var (
	header = color.New(color.FgCyan, color.Bold).SprintFunc()
	ok     = color.New(color.FgGreen).SprintFunc()
	warn   = color.New(color.FgYellow).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
	added  = color.New(color.FgGreen).SprintFunc()
	gone   = color.New(color.FgRed).SprintFunc()
	hunk   = color.New(color.FgCyan).SprintFunc()
)

func setColor(enabled bool) {
	if !enabled {
		color.NoColor = true
	}
}

// writeDiff prints a unified diff with +/- lines colored.
func writeDiff(w io.Writer, d string) {
	for _, line := range strings.SplitAfter(d, "\n") {
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			fmt.Fprint(w, dim(line))
		case strings.HasPrefix(line, "@@"):
			fmt.Fprint(w, hunk(line))
		case strings.HasPrefix(line, "+"):
			fmt.Fprint(w, added(line))
		case strings.HasPrefix(line, "-"):
			fmt.Fprint(w, gone(line))
		default:
			fmt.Fprint(w, line)
		}
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
