package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the tabula ASCII art banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"  _        _           _       ", "#34d399"},
		{" | |_ __ _| |__  _   _| | __ _ ", "#2dd4bf"},
		{" | __/ _` | '_ \\| | | | |/ _` |", "#22d3ee"},
		{" | || (_| | |_) | |_| | | (_| |", "#38bdf8"},
		{"  \\__\\__,_|_.__/ \\__,_|_|\\__,_|", "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
