package tui

import (
	"fmt"
	"strings"

	"github.com/CosmoTheDev/scamshield/models"
	"github.com/charmbracelet/lipgloss"
)

// renderReportList is the shared list used by scan results and drill-downs.
func renderReportList(records []models.ReportRecord, width, limit int) string {
	if len(records) == 0 {
		return dimStyle.Render("No reports found.")
	}
	if limit < 1 {
		limit = 1
	}
	descW := max(20, width-44)

	var b strings.Builder
	b.WriteString(dimStyle.Render("Category      Identifier                 Filed        Description"))
	b.WriteString("\n")
	for i, r := range records {
		if i >= limit {
			b.WriteString(dimStyle.Render(fmt.Sprintf("… %d more", len(records)-limit)))
			b.WriteString("\n")
			break
		}
		row := lipgloss.JoinHorizontal(lipgloss.Left,
			lipgloss.NewStyle().Width(14).Foreground(accent).Render(r.Category.Label()),
			lipgloss.NewStyle().Width(27).Foreground(ink).Render(truncate(r.ScammerIdentifier, 25)),
			lipgloss.NewStyle().Width(13).Foreground(slate).Render(r.CreatedAt.Format(models.DateLayout)),
			dimStyle.Render(truncate(r.DisplayDescription(), descW)),
		)
		b.WriteString(row)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderCounter(label, value string, style lipgloss.Style, width int) string {
	return boxStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Center,
			style.Bold(true).Render(value),
			dimStyle.Render(strings.ToUpper(label)),
		),
	) + "  "
}

// tickerLine renders a continuously scrolling line of the feed. The records
// are repeated so the window can wrap around without a visible seam.
func tickerLine(records []models.ReportRecord, offset, width int) string {
	if len(records) == 0 || width <= 0 {
		return ""
	}
	items := make([]string, len(records))
	for i, r := range records {
		items[i] = fmt.Sprintf("%s %s", r.Category.Label(), r.ScammerIdentifier)
	}
	base := []rune(strings.Join(items, "  •  ") + "  •  ")
	period := base
	for len(period) < width {
		period = append(period, base...)
	}
	loop := append(append([]rune{}, period...), period...)
	start := offset % len(period)
	return string(loop[start : start+width])
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
