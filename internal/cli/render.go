package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorRed       = lipgloss.Color("#D14D41")
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorText).Align(lipgloss.Center)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	valueStyle  = lipgloss.NewStyle().Foreground(ColorText)
	mutedStyle  = lipgloss.NewStyle().Foreground(ColorTextMuted)
	dimStyle    = lipgloss.NewStyle().Foreground(ColorTextDim)
	gainStyle   = lipgloss.NewStyle().Foreground(ColorGreen).Bold(true)
	lossStyle   = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)
)

// SeparatorRow marks a horizontal rule inside Table.Rows.
const SeparatorRow = "---"

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderNote renders muted explanatory text, one line per entry.
func RenderNote(lines ...string) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString("  ")
		b.WriteString(mutedStyle.Render(l))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderSavings renders a labelled signed amount: green for savings, red for
// a loss shown in parentheses.
func RenderSavings(period string, v float64) string {
	label := fmt.Sprintf("%s %s: %s", period, SavingsLabel(v), FormatSavings(v))
	if SavingsLabel(v) == "Loss" {
		return lossStyle.Render(label)
	}
	return gainStyle.Render(label)
}

// RenderTable renders a bordered table with headers and rows. The first
// column is left-aligned and the rest are right-aligned.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	widths := columnWidths(t)
	var b strings.Builder

	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	b.WriteString(rule(widths, "╭", "┬", "╮"))

	if len(t.Headers) > 0 {
		b.WriteString(row(widths, t.Headers, headerStyle))
		b.WriteString(rule(widths, "├", "┼", "┤"))
	}

	for _, r := range t.Rows {
		if len(r) == 1 && r[0] == SeparatorRow {
			b.WriteString(rule(widths, "├", "┼", "┤"))
			continue
		}
		b.WriteString(row(widths, r, valueStyle))
	}

	b.WriteString(rule(widths, "╰", "┴", "╯"))
	return b.String()
}

func columnWidths(t Table) []int {
	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
		return widths
	}
	for i, h := range t.Headers {
		widths[i] = max(widths[i], lipgloss.Width(h))
	}
	for _, r := range t.Rows {
		for i, cell := range r {
			if i < numCols {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}
	return widths
}

func rule(widths []int, left, mid, right string) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("─", w+2)
	}
	return dimStyle.Render(left+strings.Join(parts, mid)+right) + "\n"
}

func row(widths []int, cells []string, style lipgloss.Style) string {
	var b strings.Builder
	b.WriteString(dimStyle.Render("│"))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		pad := strings.Repeat(" ", max(0, w-lipgloss.Width(cell)))
		if i == 0 {
			b.WriteString(style.Render(" " + cell + pad + " "))
		} else {
			b.WriteString(style.Render(" " + pad + cell + " "))
		}
		b.WriteString(dimStyle.Render("│"))
	}
	b.WriteString("\n")
	return b.String()
}

// RenderSignedBar renders a horizontal bar for a signed value scaled against
// maxAbs. Positive values grow right in green, negative values grow left in red.
func RenderSignedBar(value, maxAbs float64, halfWidth int) string {
	if maxAbs <= 0 || halfWidth <= 0 {
		return strings.Repeat(" ", halfWidth) + "│" + strings.Repeat(" ", halfWidth)
	}

	n := int(absf(value) / maxAbs * float64(halfWidth))
	n = min(n, halfWidth)

	if value < 0 {
		return strings.Repeat(" ", halfWidth-n) + lossStyle.Render(strings.Repeat("█", n)) +
			dimStyle.Render("│") + strings.Repeat(" ", halfWidth)
	}
	return strings.Repeat(" ", halfWidth) + dimStyle.Render("│") +
		gainStyle.Render(strings.Repeat("█", n)) + strings.Repeat(" ", halfWidth-n)
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
