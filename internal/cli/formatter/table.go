package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const colGap = 2

// rightAligned lists the headers whose columns hold amounts or counts.
// Those columns are right-aligned so digits line up.
var rightAligned = map[string]bool{
	"COUNT":         true,
	"LEAKAGE":       true,
	"ANOMALIES":     true,
	"TOTAL LEAKAGE": true,
}

// RenderTable renders an aligned table with a styled header and a rule
// under it. Widths are measured on visible text so styled cells (pills,
// badges) line up with plain ones.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	widths := columnWidths(headers, rows)
	last := len(headers) - 1

	var b strings.Builder
	for i, h := range headers {
		b.WriteString(pad(StyleHeader.Render(h), lipgloss.Width(h), widths[i], rightAligned[h], i == last))
	}
	b.WriteString("\n")

	for i, w := range widths {
		b.WriteString(StyleDim.Render(strings.Repeat("─", w)))
		if i < last {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")

	for _, row := range rows {
		for i, h := range headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(pad(cell, lipgloss.Width(cell), widths[i], rightAligned[h], i == last))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderTableOr renders the table, or a single dimmed placeholder line under
// the headers when there are no rows.
func RenderTableOr(headers []string, rows [][]string, placeholder string) string {
	if len(rows) > 0 || placeholder == "" {
		return RenderTable(headers, rows)
	}
	return RenderTable(headers, nil) + "  " + Dim(placeholder) + "\n"
}

func columnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(headers) && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}
	return widths
}

// pad fills cell to width. The last left-aligned column gets no trailing
// spaces.
func pad(cell string, visible, width int, right, last bool) string {
	fill := strings.Repeat(" ", max(width-visible, 0))
	gap := strings.Repeat(" ", colGap)
	switch {
	case right && last:
		return fill + cell
	case right:
		return fill + cell + gap
	case last:
		return cell
	default:
		return cell + fill + gap
	}
}
