package stamp

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"
	"unicode"

	"github.com/disintegration/imaging"

	"golang.org/x/image/font"
)

// markerDot is the fixed glyph prefixed to circular text.
const markerDot = '●'

// Angular step bounds per unit-width character, in degrees.
const (
	minCharStep = 3.0
	maxCharStep = 16.0
	maxArcSpan  = 350.0
)

// wordGapUnits is the angular weight of an inter-word space relative to a
// unit-width character.
const wordGapUnits = 1.5

// arcGlyph is one character placed on the circle.
type arcGlyph struct {
	Char  rune
	Angle float64 // center angle in degrees, y-down screen convention
	Allot float64 // angular width allotted to this character, degrees
}

// arcLayout is the solved geometry for one circular text ring.
type arcLayout struct {
	OuterRadius float64
	InnerRadius float64
	TextRadius  float64
	FontSize    int
	Coverage    float64 // sum of all allotments, degrees
	StartAngle  float64
	Glyphs      []arcGlyph
}

// charUnits weights a character's angular share by its visual width.
func charUnits(r rune) float64 {
	switch {
	case r == ' ':
		return wordGapUnits
	case strings.ContainsRune("IJL.,:;'|!", r):
		return 0.7
	case strings.ContainsRune("MW@", r):
		return 1.3
	default:
		return 1.0
	}
}

// layoutArc solves radius, font size and per-character angles for text drawn
// along the border band of a circular stamp of the given pixel size.
//
// The allotments partition the coverage angle exactly: their sum equals the
// coverage, so the ring never ends with leftover arc and neighboring
// characters never share angular range.
func layoutArc(text string, size int) arcLayout {
	display := string(markerDot) + " " + strings.ToUpper(strings.TrimSpace(text))
	runes := []rune(display)
	textLen := len([]rune(strings.TrimSpace(text)))

	margin := float64(size)/2 - 10

	// Longer text pushes the ring outward and narrows the border band.
	var outerTier, gapRatio float64
	switch {
	case textLen <= 15:
		outerTier, gapRatio = 0.75, 0.35
	case textLen <= 25:
		outerTier, gapRatio = 0.80, 0.33
	case textLen <= 40:
		outerTier, gapRatio = 0.85, 0.31
	case textLen <= 60:
		outerTier, gapRatio = 0.90, 0.29
	default:
		outerTier, gapRatio = 0.95, 0.28
	}
	outer := margin * outerTier
	inner := outer * (1 - gapRatio)
	if floor := 0.12 * float64(size); inner < floor {
		inner = floor
	}

	// Text sits inside the band, biased toward the outer edge as text grows.
	bandPos := 0.5
	switch {
	case textLen > 40:
		bandPos = 0.75
	case textLen > 25:
		bandPos = 0.65
	}
	band := outer - inner
	pad := band * 0.12
	textRadius := inner + band*bandPos
	textRadius = math.Max(inner+pad, math.Min(outer-pad, textRadius))

	// Solve font size from the estimated occupancy of the circumference.
	fontSize := float64(size) / 10
	circ := 2 * math.Pi * textRadius
	est := float64(len(runes)) * fontSize * 0.6
	if est < 0.45*circ {
		fontSize *= 0.45 * circ / est
	} else if est > 0.75*circ {
		fontSize *= 0.75 * circ / est
	}
	fontSize = math.Max(8, math.Min(float64(size)/6, fontSize))

	var coverage float64
	switch {
	case textLen <= 15:
		coverage = 320
	case textLen <= 30:
		coverage = 330
	case textLen <= 45:
		coverage = 340
	default:
		coverage = 350
	}

	var totalUnits float64
	for _, r := range runes {
		totalUnits += charUnits(r)
	}

	// The whole coverage angle is divided across character and word-gap
	// units; clamping the unit step re-derives the effective coverage so the
	// partition stays exact.
	stepUnit := coverage / totalUnits
	stepUnit = math.Max(minCharStep, math.Min(maxCharStep, stepUnit))
	if stepUnit*totalUnits > maxArcSpan {
		stepUnit = maxArcSpan / totalUnits
	}
	coverage = stepUnit * totalUnits

	layout := arcLayout{
		OuterRadius: outer,
		InnerRadius: inner,
		TextRadius:  textRadius,
		FontSize:    int(math.Round(fontSize)),
		Coverage:    coverage,
		StartAngle:  -90 - coverage/2,
	}

	cursor := layout.StartAngle
	for _, r := range runes {
		allot := charUnits(r) * stepUnit
		if !unicode.IsSpace(r) {
			layout.Glyphs = append(layout.Glyphs, arcGlyph{
				Char:  r,
				Angle: cursor + allot/2,
				Allot: allot,
			})
		}
		cursor += allot
	}
	return layout
}

// renderArcText rasterizes each glyph into its own transparent tile with a
// bold pass, rotates the tile tangent to the circle, and composites it onto
// the canvas at its solved angle.
func renderArcText(canvas *image.NRGBA, layout arcLayout, face font.Face, cx, cy float64, ink color.NRGBA) {
	tile := layout.FontSize * 3
	for _, g := range layout.Glyphs {
		t := newCanvas(tile, tile)
		s := string(g.Char)
		w := textWidth(face, s)
		asc := face.Metrics().Ascent.Ceil()
		h := textHeight(face)
		drawStringBold(t, s, (tile-w)/2, (tile-h)/2+asc, face, ink)

		// Tangent orientation: the glyph's top faces outward.
		rotated := imaging.Rotate(t, -(g.Angle + 90), color.NRGBA{})

		rad := g.Angle * math.Pi / 180
		px := cx + layout.TextRadius*math.Cos(rad)
		py := cy + layout.TextRadius*math.Sin(rad)
		rb := rotated.Bounds()
		at := image.Pt(int(math.Round(px))-rb.Dx()/2, int(math.Round(py))-rb.Dy()/2)
		draw.Draw(canvas, rb.Sub(rb.Min).Add(at), rotated, rb.Min, draw.Over)
	}
}
