// Package ui holds the colors and small printing helpers used by the CLI.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Colors
var (
	Brand  = color.New(color.FgHiCyan, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Info   = color.New(color.FgCyan)
	Good   = color.New(color.FgGreen)
	Bad    = color.New(color.FgRed)
)

// Banner prints the program name and a subtitle.
func Banner(w io.Writer, subtitle string) {
	fmt.Fprintf(w, "%s - %s\n\n", Brand.Sprint("dndflow"), subtitle)
}

// Section prints a section heading.
func Section(w io.Writer, title string) {
	fmt.Fprintln(w, Info.Sprint("["+title+"]"))
}

// KeyValues prints aligned "key  value" lines, keys in input order.
func KeyValues(w io.Writer, pairs [][2]string) {
	width := 0
	for _, p := range pairs {
		width = max(width, len(p[0]))
	}
	for _, p := range pairs {
		fmt.Fprintf(w, "  %s  %s\n", Subtle.Sprintf("%-*s", width, p[0]), p[1])
	}
}

// List prints a bulleted list.
func List(w io.Writer, items []string) {
	for _, item := range items {
		fmt.Fprintf(w, "  %s %s\n", Subtle.Sprint("•"), item)
	}
}

// Quote renders a string the way it would appear in the config file.
func Quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
