package report

import (
	"strings"

	"github.com/verte-zerg/wakagist/internal/model"
)

// BuildReport renders records in their original order, one line each.
// An empty input yields an empty string.
func BuildReport(records []model.StatsRecord) string {
	if len(records) == 0 {
		return ""
	}
	lines := make([]string, len(records))
	for i, rec := range records {
		lines[i] = FormatLine(rec)
	}
	return strings.Join(lines, "\n")
}
