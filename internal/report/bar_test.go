package report

import (
	"math"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestRenderBarKnownValues(t *testing.T) {
	cases := []struct {
		percent float64
		width   int
		want    string
	}{
		{0, 15, strings.Repeat("░", 15)},
		{100, 15, strings.Repeat("█", 15)},
		{41.9, 15, "██████▍░░░░░░░░"},
		{50, 15, "███████▌░░░░░░░"},
		{0.01, 15, "▏░░░░░░░░░░░░░░"},
		{12.5, 4, "▌░░░"},
		{25, 4, "█░░░"},
		{75, 4, "███░"},
		{1, 1, "▏"},
		{math.NaN(), 15, strings.Repeat("░", 15)},
	}
	for _, tc := range cases {
		if got := RenderBar(tc.percent, tc.width); got != tc.want {
			t.Fatalf("RenderBar(%v, %d) = %q, want %q", tc.percent, tc.width, got, tc.want)
		}
	}
}

func TestRenderBarClampsOutOfRange(t *testing.T) {
	if got := RenderBar(-5, 6); got != strings.Repeat("░", 6) {
		t.Fatalf("negative percent should render empty, got %q", got)
	}
	if got := RenderBar(250, 6); got != strings.Repeat("█", 6) {
		t.Fatalf("percent above 100 should render full, got %q", got)
	}
	if got := RenderBar(10, 0); got != "" {
		t.Fatalf("zero width should render nothing, got %q", got)
	}
}

func TestRenderBarLengthAndMonotonic(t *testing.T) {
	for width := 1; width <= 20; width++ {
		prev := -1
		for i := 0; i <= 1000; i++ {
			percent := float64(i) / 10
			bar := RenderBar(percent, width)
			if n := utf8.RuneCountInString(bar); n != width {
				t.Fatalf("RenderBar(%v, %d) has %d glyphs", percent, width, n)
			}
			fill := countEighths(bar)
			if fill < prev {
				t.Fatalf("fill shrank at percent %v width %d: %d < %d", percent, width, fill, prev)
			}
			if percent > 0 && fill == 0 {
				t.Fatalf("nonzero percent %v rendered empty at width %d", percent, width)
			}
			prev = fill
		}
	}
}

func countEighths(bar string) int {
	total := 0
	for _, r := range bar {
		switch string(r) {
		case fullGlyph:
			total += eighths
		case emptyGlyph:
		default:
			for i, g := range fracGlyphs {
				if g == string(r) {
					total += i
				}
			}
		}
	}
	return total
}
