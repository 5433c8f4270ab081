package stamp

import (
	"image/color"

	"stampapi/internal/model"
)

// Ink colors, 8-bit RGBA. The doctor name uses a brighter fill over a darker
// shadow for the enhanced pass.
var palette = map[model.StampColor]color.NRGBA{
	model.ColorBlue:   {R: 0, G: 100, B: 200, A: 255},
	model.ColorRed:    {R: 200, G: 30, B: 30, A: 255},
	model.ColorGreen:  {R: 0, G: 130, B: 60, A: 255},
	model.ColorBlack:  {R: 20, G: 20, B: 20, A: 255},
	model.ColorNavy:   {R: 10, G: 35, B: 110, A: 255},
	model.ColorMaroon: {R: 115, G: 25, B: 45, A: 255},
}

var (
	doctorInk       = color.NRGBA{R: 0, G: 102, B: 255, A: 255}
	doctorNameInk   = color.NRGBA{R: 0, G: 128, B: 255, A: 255}
	doctorShadowInk = color.NRGBA{R: 0, G: 64, B: 128, A: 255}
)

// inkFor maps a parsed color to its RGBA value. Unknown values (which the
// parse step should have rejected) fall back to blue.
func inkFor(c model.StampColor) color.NRGBA {
	if ink, ok := palette[c]; ok {
		return ink
	}
	return palette[model.ColorBlue]
}
