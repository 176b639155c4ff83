package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the switchyard banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text, color string
	}{
		{"              _ _       _                           _ ", "#34d399"},
		{"  _____      _(_) |_ ___| |__  _   _  __ _ _ __ __| |", "#2dd4bf"},
		{" / __\\ \\ /\\ / / | __/ __| '_ \\| | | |/ _` | '__/ _` |", "#22d3ee"},
		{" \\__ \\\\ V  V /| | || (__| | | | |_| | (_| | | | (_| |", "#38bdf8"},
		{" |___/ \\_/\\_/ |_|\\__\\___|_| |_|\\__, |\\__,_|_|  \\__,_|", "#60a5fa"},
		{"                               |___/                 ", "#818cf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
