package stamp

import (
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/font"

	"stampapi/internal/fonts"
	"stampapi/internal/model"
)

// Rectangular stamp bounds.
const (
	MinRectWidth  = 200
	MaxRectWidth  = 800
	MinRectHeight = 100
	MaxRectHeight = 800

	rectPadding   = 20
	lineSpacing   = 8
	afterNameGap  = 12
	afterDegGap   = 10
	registerLabel = "Reg. No.: "
)

// DoctorParams are the inputs for a rectangular doctor stamp.
type DoctorParams struct {
	Name         string
	Degree       string
	Registration string
	Width        int // 0 means default
	Height       int
}

// formatRegistration prepends the fixed registration label unless the input
// already carries a recognized one.
func formatRegistration(reg string) string {
	reg = strings.TrimSpace(reg)
	lower := strings.ToLower(reg)
	for _, prefix := range []string{"reg.", "reg ", "registration"} {
		if strings.HasPrefix(lower, prefix) {
			return reg
		}
	}
	return registerLabel + reg
}

// wrapWords greedily packs words into lines that fit maxWidth at the given
// face. A word longer than the line gets a line of its own.
func wrapWords(text string, face font.Face, maxWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		test := current + " " + word
		if textWidth(face, test) <= maxWidth {
			current = test
		} else {
			lines = append(lines, current)
			current = word
		}
	}
	return append(lines, current)
}

// Doctor renders a borderless rectangular doctor stamp: name, degree and
// registration stacked vertically and centered, each block wrapped
// independently.
func (g *Generator) Doctor(p DoctorParams) (*model.StampAsset, error) {
	name := strings.TrimSpace(p.Name)
	degree := strings.TrimSpace(p.Degree)
	registration := strings.TrimSpace(p.Registration)
	if name == "" || degree == "" || registration == "" {
		return nil, fmt.Errorf("doctor name, degree and registration: %w", ErrMissingText)
	}

	width, height := p.Width, p.Height
	if width == 0 {
		width = DefaultRectWidth
	}
	if height == 0 {
		height = DefaultRectHeight
	}
	if width < MinRectWidth || width > MaxRectWidth {
		return nil, fmt.Errorf("width %d outside [%d,%d]", width, MinRectWidth, MaxRectWidth)
	}
	if height < MinRectHeight || height > MaxRectHeight {
		return nil, fmt.Errorf("height %d outside [%d,%d]", height, MinRectHeight, MaxRectHeight)
	}

	canvas := newCanvas(width, height)
	textArea := width - 2*rectPadding
	cx := width / 2

	nameFace := g.fonts.Face(max(28, width/14), fonts.WeightBold)
	degreeFace := g.fonts.Face(max(18, width/22), fonts.WeightMedium)
	regFace := g.fonts.Face(max(14, width/28), fonts.WeightRegular)

	y := rectPadding
	for _, line := range wrapWords(name, nameFace, textArea) {
		baseline := y + nameFace.Metrics().Ascent.Ceil()
		// Enhanced pass: 1px shadow for depth, brighter fill on top.
		drawShadowed(canvas, line, cx, baseline, nameFace)
		y += textHeight(nameFace) + lineSpacing
	}
	y += afterNameGap

	for _, line := range wrapWords(degree, degreeFace, textArea) {
		baseline := y + degreeFace.Metrics().Ascent.Ceil()
		drawStringCentered(canvas, line, cx, baseline, degreeFace, doctorInk, false)
		y += textHeight(degreeFace) + lineSpacing
	}
	y += afterDegGap

	for _, line := range wrapWords(formatRegistration(registration), regFace, textArea) {
		baseline := y + regFace.Metrics().Ascent.Ceil()
		drawStringCentered(canvas, line, cx, baseline, regFace, doctorInk, false)
		y += textHeight(regFace) + lineSpacing
	}

	pngBytes, err := encodePNG(canvas)
	if err != nil {
		return nil, fmt.Errorf("encode stamp: %w", err)
	}
	return &model.StampAsset{
		Type:  model.StampTypeDoctor,
		Image: canvas,
		PNG:   pngBytes,
		Params: model.GenerationParams{
			Type:         model.StampTypeDoctor,
			DoctorName:   name,
			Degree:       degree,
			Registration: registration,
			Width:        width,
			Height:       height,
		},
	}, nil
}

// drawShadowed draws a centered line with the doctor-name enhancement.
func drawShadowed(canvas *image.NRGBA, line string, cx, baseline int, face font.Face) {
	x := cx - textWidth(face, line)/2
	drawString(canvas, line, x+1, baseline+1, face, doctorShadowInk)
	drawString(canvas, line, x, baseline, face, doctorNameInk)
}
