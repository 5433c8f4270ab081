package stamp

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutArcPartitionIsExact(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"single char", "A"},
		{"short", "CITY CLINIC"},
		{"medium", "ST. MARY GENERAL HOSPITAL"},
		{"long", "NATIONAL INSTITUTE OF CARDIOVASCULAR DISEASES"},
		{"very long", strings.Repeat("METROPOLITAN ", 6)},
		{"narrow chars", "I.J.L.I.J.L."},
		{"wide chars", "MMWW@@MMWW"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout := layoutArc(tt.text, 300)

			var sum float64
			for _, g := range layout.Glyphs {
				sum += g.Allot
			}
			// Spaces consume coverage without producing glyphs, so the glyph
			// sum can only fall short by the space allotments.
			assert.LessOrEqual(t, sum, layout.Coverage+1e-9)
			assert.LessOrEqual(t, layout.Coverage, maxArcSpan+1e-9)

			// Walking the allotments from the start angle must land exactly on
			// the end of the coverage: no trailing gap, no overshoot.
			end := layout.StartAngle + layout.Coverage
			cursorEnd := layout.StartAngle
			for _, g := range layout.Glyphs {
				assert.GreaterOrEqual(t, g.Angle-g.Allot/2, cursorEnd-1e-9, "glyphs must not overlap")
				cursorEnd = g.Angle + g.Allot/2
			}
			assert.LessOrEqual(t, cursorEnd, end+1e-9)
		})
	}
}

func TestLayoutArcGapAtBottom(t *testing.T) {
	layout := layoutArc("CITY HOSPITAL", 300)

	// Coverage is centered on -90 degrees (top of a y-down canvas), which
	// leaves the uncovered gap at the bottom.
	mid := layout.StartAngle + layout.Coverage/2
	assert.InDelta(t, -90, mid, 1e-9)
}

func TestLayoutArcRadiusTiers(t *testing.T) {
	short := layoutArc("SHORT NAME", 300)
	long := layoutArc(strings.Repeat("LONG NAME ", 7), 300)

	// Longer text pushes the ring outward.
	assert.Greater(t, long.OuterRadius, short.OuterRadius)
	assert.Less(t, short.InnerRadius, short.TextRadius)
	assert.Less(t, short.TextRadius, short.OuterRadius)
	assert.Less(t, long.InnerRadius, long.TextRadius)
	assert.Less(t, long.TextRadius, long.OuterRadius)
}

func TestLayoutArcInnerFloor(t *testing.T) {
	layout := layoutArc("A", 100)
	assert.GreaterOrEqual(t, layout.InnerRadius, 0.12*100-1e-9)
}

func TestLayoutArcFontBounds(t *testing.T) {
	for _, size := range []int{100, 300, 800} {
		layout := layoutArc("REGIONAL MEDICAL CENTER", size)
		require.GreaterOrEqual(t, layout.FontSize, 8)
		require.LessOrEqual(t, float64(layout.FontSize), math.Ceil(float64(size)/6))
	}
}

func TestLayoutArcMarkerFirst(t *testing.T) {
	layout := layoutArc("city hospital", 300)

	require.NotEmpty(t, layout.Glyphs)
	assert.Equal(t, markerDot, layout.Glyphs[0].Char)
	// Text is uppercased for display.
	for _, g := range layout.Glyphs[1:] {
		assert.False(t, g.Char >= 'a' && g.Char <= 'z', "glyph %q not uppercased", g.Char)
	}
}

func TestCharUnits(t *testing.T) {
	assert.Equal(t, wordGapUnits, charUnits(' '))
	assert.Equal(t, 0.7, charUnits('I'))
	assert.Equal(t, 1.3, charUnits('W'))
	assert.Equal(t, 1.0, charUnits('A'))
}
