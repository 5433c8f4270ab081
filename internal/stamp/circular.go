package stamp

import (
	"errors"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"stampapi/internal/fonts"
	"stampapi/internal/model"
)

// Pixel bounds for generated stamps.
const (
	MinStampSize      = 100
	MaxStampSize      = 800
	DefaultSize       = 300
	DefaultRectWidth  = 400
	DefaultRectHeight = 200
)

// ErrMissingText reports an empty required text field.
var ErrMissingText = errors.New("required text field is empty")

// HospitalParams are the inputs for a circular hospital stamp.
type HospitalParams struct {
	Name        string
	Size        int
	FontSize    int // 0 means auto
	Color       model.StampColor
	Style       model.StampStyle
	Border      model.BorderStyle
	IncludeDate bool
	IncludeLogo bool
}

// Generator renders stamp assets. It is stateless apart from the font
// resolver cache and the output directory used by SaveAsset.
type Generator struct {
	fonts     *fonts.Resolver
	outputDir string
	now       func() time.Time
}

// NewGenerator creates a stamp generator writing convenience files under dir.
func NewGenerator(resolver *fonts.Resolver, dir string) *Generator {
	return &Generator{fonts: resolver, outputDir: dir, now: time.Now}
}

// Hospital renders a circular hospital stamp on a transparent canvas.
func (g *Generator) Hospital(p HospitalParams) (*model.StampAsset, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, fmt.Errorf("hospital name: %w", ErrMissingText)
	}
	size := p.Size
	if size == 0 {
		size = DefaultSize
	}
	if size < MinStampSize || size > MaxStampSize {
		return nil, fmt.Errorf("size %d outside [%d,%d]", size, MinStampSize, MaxStampSize)
	}
	if p.Color == "" {
		p.Color = model.ColorBlue
	}
	if p.Style == "" {
		p.Style = model.StyleClassic
	}
	if p.Border == "" {
		p.Border = model.BorderDouble
	}

	ink := inkFor(p.Color)
	canvas := newCanvas(size, size)
	center := float64(size) / 2

	layout := layoutArc(name, size)
	if p.FontSize > 0 {
		layout.FontSize = int(math.Max(8, math.Min(float64(size)/6, float64(p.FontSize))))
	}

	outerW, innerW := 3.0, 1.5
	switch p.Style {
	case model.StyleModern:
		outerW, innerW = 2.0, 1.0
	case model.StyleOfficial:
		outerW, innerW = 4.0, 2.0
	case model.StyleEmergency:
		outerW, innerW = 5.0, 2.0
	}

	drawRing(canvas, center, center, layout.OuterRadius, outerW, ink)
	switch p.Border {
	case model.BorderDouble:
		drawRing(canvas, center, center, layout.InnerRadius, innerW, ink)
	case model.BorderTriple:
		drawRing(canvas, center, center, layout.OuterRadius-outerW-3, 1, ink)
		drawRing(canvas, center, center, layout.InnerRadius, innerW, ink)
	}

	face := g.fonts.Face(layout.FontSize, fonts.WeightBold)
	renderArcText(canvas, layout, face, center, center, ink)

	g.drawCenterTemplate(canvas, center, layout.InnerRadius, p)

	pngBytes, err := encodePNG(canvas)
	if err != nil {
		return nil, fmt.Errorf("encode stamp: %w", err)
	}
	return &model.StampAsset{
		Type:  model.StampTypeHospital,
		Image: canvas,
		PNG:   pngBytes,
		Params: model.GenerationParams{
			Type:         model.StampTypeHospital,
			HospitalName: name,
			Size:         size,
			FontSize:     p.FontSize,
			Style:        p.Style,
			Color:        p.Color,
			BorderStyle:  p.Border,
			IncludeDate:  p.IncludeDate,
			IncludeLogo:  p.IncludeLogo,
		},
	}, nil
}

// drawCenterTemplate draws the fixed center content: two divider chords
// splitting the inner disc into three sections, the literal PAID and
// CASH / Online labels, and the optional date line and medical cross. The
// template is not user-configurable text.
func (g *Generator) drawCenterTemplate(canvas *image.NRGBA, center, inner float64, p HospitalParams) {
	ink := inkFor(p.Color)

	// Divider chords at ±28% of the inner radius, trimmed to 80% of the
	// chord length at that height.
	dy := inner * 0.28
	for _, sign := range []float64{-1, 1} {
		y := center + sign*dy
		half := math.Sqrt(inner*inner-dy*dy) * 0.8
		drawHLine(canvas, int(center-half), int(center+half), y, 2, ink)
	}

	// Middle section: PAID, sized from the inner radius.
	paidFace := g.fonts.Face(int(math.Max(12, inner*0.42)), fonts.WeightBold)
	paidY := int(center) + textHeight(paidFace)/2 - paidFace.Metrics().Descent.Ceil()
	drawStringCentered(canvas, "PAID", int(center), paidY, paidFace, ink, true)

	// Bottom section: payment mode label.
	modeFace := g.fonts.Face(int(math.Max(9, inner*0.18)), fonts.WeightMedium)
	modeY := int(center + dy + (inner-dy)/2)
	drawStringCentered(canvas, "CASH / Online", int(center), modeY, modeFace, ink, false)

	// Top section: optional medical cross and date line.
	topCY := center - dy - (inner-dy)/2
	if p.IncludeLogo {
		arm := inner * 0.16
		thick := int(math.Max(2, arm/2))
		cx, cy := int(center), int(topCY)
		if p.IncludeDate {
			cx = int(center - inner*0.35)
		}
		fillRect(canvas, image.Rect(cx-int(arm), cy-thick/2, cx+int(arm), cy+thick/2+1), ink)
		fillRect(canvas, image.Rect(cx-thick/2, cy-int(arm), cx+thick/2+1, cy+int(arm)), ink)
	}
	if p.IncludeDate {
		dateFace := g.fonts.Face(int(math.Max(9, inner*0.16)), fonts.WeightRegular)
		x := int(center)
		if p.IncludeLogo {
			x = int(center + inner*0.15)
		}
		dateY := int(topCY) + textHeight(dateFace)/2
		drawStringCentered(canvas, g.now().Format("02 Jan 2006"), x, dateY, dateFace, ink, false)
	}
}

// SaveAsset writes an asset's PNG bytes under the generator's output
// directory and returns the full path.
func (g *Generator) SaveAsset(asset *model.StampAsset, filename string) (string, error) {
	if g.outputDir == "" {
		return "", errors.New("no output directory configured")
	}
	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(g.outputDir, filename)
	if err := os.WriteFile(path, asset.PNG, 0o644); err != nil {
		return "", fmt.Errorf("write stamp file: %w", err)
	}
	return path, nil
}
