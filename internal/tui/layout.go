package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// normalizePane forces s to be exactly width columns wide (ANSI-aware) and height
// lines tall. A height of 0 keeps the line count.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}

	for i, ln := range lines {
		w := xansi.StringWidth(ln)
		if w > width {
			switch {
			case width <= 0:
				ln = ""
			case width == 1:
				ln = xansi.Cut(ln, 0, 1)
			default:
				ln = xansi.Cut(ln, 0, width-1) + "…"
			}
			w = xansi.StringWidth(ln)
		}
		if w < width {
			ln += strings.Repeat(" ", width-w)
		}
		lines[i] = ln
	}
	return strings.Join(lines, "\n")
}

const (
	modalMinWidth = 30
	modalMaxWidth = 64
)

// modalBodyWidth is the usable inner width of a modal on a terminal termW wide.
func modalBodyWidth(termW int) int {
	w := termW - 8
	if w > modalMaxWidth {
		w = modalMaxWidth
	}
	if w < modalMinWidth {
		w = modalMinWidth
	}
	return w
}

// renderModalBox frames body under a title bar. Every body line is padded to bodyW.
func renderModalBox(title, body string, bodyW int) string {
	header := lipgloss.NewStyle().
		Bold(true).
		Background(colorControlBg).
		Foreground(colorSurfaceFg).
		Render(normalizePane(" "+title, bodyW, 1))

	inner := lipgloss.NewStyle().
		Background(colorSurfaceBg).
		Foreground(colorSurfaceFg).
		Render(normalizePane(body, bodyW, 0))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Render(header + "\n" + inner)
}
