package document

import (
	"fmt"
	"image"
	"image/color"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"stampapi/internal/fonts"
	"stampapi/internal/model"
)

// Placeholder page geometry: A4 aspect ratio at a comfortable screen size.
const (
	placeholderWidth  = 1240
	placeholderHeight = 1754
)

var (
	placeholderBorder = color.NRGBA{R: 180, G: 180, B: 190, A: 255}
	placeholderText   = color.NRGBA{R: 90, G: 90, B: 100, A: 255}
)

// placeholderPage synthesizes a clearly labeled stand-in raster for a PDF
// page that could not be rasterized.
func (p *Processor) placeholderPage(number int) *model.Page {
	w, h := placeholderWidth, placeholderHeight
	if w > p.cfg.MaxPageDim {
		scale := float64(p.cfg.MaxPageDim) / float64(w)
		w = p.cfg.MaxPageDim
		h = int(float64(h) * scale)
	}
	if h > p.cfg.MaxPageDim {
		scale := float64(p.cfg.MaxPageDim) / float64(h)
		h = p.cfg.MaxPageDim
		w = int(float64(w) * scale)
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	// Thin frame so the page edge is visible in previews.
	for x := 0; x < w; x++ {
		img.SetNRGBA(x, 0, placeholderBorder)
		img.SetNRGBA(x, h-1, placeholderBorder)
	}
	for y := 0; y < h; y++ {
		img.SetNRGBA(0, y, placeholderBorder)
		img.SetNRGBA(w-1, y, placeholderBorder)
	}

	title := fmt.Sprintf("Page %d", number)
	sub := "PDF preview unavailable"

	titleFace := p.fonts.Face(w/12, fonts.WeightBold)
	subFace := p.fonts.Face(w/28, fonts.WeightRegular)
	drawCenteredLabel(img, title, titleFace, w/2, h/2-h/20)
	drawCenteredLabel(img, sub, subFace, w/2, h/2+h/20)

	return &model.Page{
		Number:      number,
		Image:       img,
		Width:       w,
		Height:      h,
		Placeholder: true,
	}
}

func drawCenteredLabel(img *image.NRGBA, s string, face xfont.Face, cx, cy int) {
	width := xfont.MeasureString(face, s).Ceil()
	d := &xfont.Drawer{
		Dst:  img,
		Src:  image.NewUniform(placeholderText),
		Face: face,
		Dot:  fixed.P(cx-width/2, cy),
	}
	d.DrawString(s)
}
