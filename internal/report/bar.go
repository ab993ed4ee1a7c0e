// Package report renders weekly language stats as fixed-width text.
package report

import (
	"math"
	"strings"
)

const (
	fullGlyph  = "█"
	emptyGlyph = "░"
	eighths    = 8
)

// fracGlyphs is indexed by the number of filled eighths in the boundary cell.
// Index 0 means the boundary cell is fully solid.
var fracGlyphs = []string{"█", "▏", "▎", "▍", "▌", "▋", "▊", "▉"}

// RenderBar renders a bar of width cells filled to percent with
// eighth-of-a-cell precision. Partial fill always rounds up.
func RenderBar(percent float64, width int) string {
	if width < 1 {
		return ""
	}
	percent = clampPercent(percent)
	total := filledEighths(percent, width)
	if total <= 0 {
		return strings.Repeat(emptyGlyph, width)
	}

	full := (total + eighths - 1) / eighths
	rem := total % eighths
	solid := full - 1
	if solid < 0 {
		solid = 0
	}

	var b strings.Builder
	b.Grow(width * len(fullGlyph))
	b.WriteString(strings.Repeat(fullGlyph, solid))
	b.WriteString(fracGlyphs[rem])
	b.WriteString(strings.Repeat(emptyGlyph, width-full))
	return b.String()
}

func filledEighths(percent float64, width int) int {
	total := int(math.Ceil(float64(width*eighths) * percent / 100))
	if limit := width * eighths; total > limit {
		total = limit
	}
	return total
}

func clampPercent(p float64) float64 {
	switch {
	case math.IsNaN(p), p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}
