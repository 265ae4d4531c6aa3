// Copyright (c) 2025 ToeiRei
// uidcolumn - UID column types for bun-backed stores
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// styled reports whether w is a terminal. Pipes and test buffers get plain
// text.
func styled(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func render(w io.Writer, s lipgloss.Style, text string) string {
	if !styled(w) {
		return text
	}
	return s.Render(text)
}

// printTable writes rows as left-aligned columns separated by two spaces.
func printTable(w io.Writer, header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if n := lipgloss.Width(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}

	line := func(cells []string, style *lipgloss.Style) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			padded := cell + strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
			if style != nil {
				padded = render(w, *style, padded)
			}
			parts[i] = padded
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}
	line(header, &headerStyle)
	for _, row := range rows {
		line(row, nil)
	}
}

// printFields writes label: value pairs with aligned values.
func printFields(w io.Writer, fields [][2]string) {
	width := 0
	for _, f := range fields {
		if n := lipgloss.Width(f[0]); n > width {
			width = n
		}
	}
	for _, f := range fields {
		label := f[0] + ":" + strings.Repeat(" ", width-lipgloss.Width(f[0]))
		fmt.Fprintf(w, "%s %s\n", render(w, labelStyle, label), f[1])
	}
}
