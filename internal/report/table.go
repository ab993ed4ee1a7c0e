package report

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/wakagist/internal/model"
)

// Column widths of a report line, in terminal cells.
const (
	NameWidth     = 11
	DurationWidth = 14
	BarWidth      = 15
	PercentWidth  = 5
)

// FormatLine renders one record as name, duration, bar and percentage.
// Names and durations longer than their column overflow rather than truncate.
func FormatLine(rec model.StatsRecord) string {
	var b strings.Builder
	b.WriteString(padCell(rec.Name, NameWidth, false))
	b.WriteByte(' ')
	b.WriteString(padCell(rec.DurationText, DurationWidth, false))
	b.WriteByte(' ')
	b.WriteString(RenderBar(rec.Percent, BarWidth))
	b.WriteByte(' ')
	b.WriteString(padCell(formatPercent(rec.Percent), PercentWidth, true))
	b.WriteByte('%')
	return b.String()
}

func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64)
}

func padCell(value string, width int, rightAlign bool) string {
	valueWidth := displayWidth(value)
	if valueWidth >= width {
		return value
	}
	padding := width - valueWidth
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}

func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
