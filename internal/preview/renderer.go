// Package preview composites a page raster with its stamp placements into a
// scaled preview image, optionally decorated with editing affordances.
package preview

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/disintegration/imaging"

	"stampapi/internal/model"
)

// Boundary colors keyed by stamp type.
var (
	hospitalBoundary = color.NRGBA{R: 0, G: 102, B: 255, A: 200}
	hospitalHandle   = color.NRGBA{R: 0, G: 102, B: 255, A: 255}
	doctorBoundary   = color.NRGBA{R: 255, G: 102, B: 0, A: 200}
	doctorHandle     = color.NRGBA{R: 255, G: 102, B: 0, A: 255}
)

const handleSize = 8

// Options control preview scaling and decoration.
type Options struct {
	Width          int // target width; 0 derives from height or keeps original
	Height         int // target height; 0 derives from width or keeps original
	ShowBoundaries bool
}

// Result carries the composited raster plus the state a caller needs to map
// UI coordinates back onto the original page.
type Result struct {
	PageNumber     int                    `json:"page_number"`
	Image          *image.NRGBA           `json:"-"`
	PNG            []byte                 `json:"-"`
	Width          int                    `json:"width"`
	Height         int                    `json:"height"`
	ScaleFactor    float64                `json:"scale_factor"`
	OriginalWidth  int                    `json:"original_width"`
	OriginalHeight int                    `json:"original_height"`
	StampCount     int                    `json:"stamp_count"`
	Stamps         []model.StampPlacement `json:"stamps"`
}

// AssetLookup resolves a placement id to its source raster.
type AssetLookup func(id string) *model.StampAsset

// Renderer is stateless; one instance serves all sessions.
type Renderer struct{}

// NewRenderer creates a preview renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render scales the page to the requested dimensions and composites the
// given placements in ascending z-order.
func (r *Renderer) Render(page *model.Page, stamps []*model.StampPlacement, assets AssetLookup, opts Options) (*Result, error) {
	ow, oh := page.Width, page.Height

	scale := 1.0
	switch {
	case opts.Width > 0 && opts.Height > 0:
		scale = math.Min(float64(opts.Width)/float64(ow), float64(opts.Height)/float64(oh))
	case opts.Width > 0:
		scale = float64(opts.Width) / float64(ow)
	case opts.Height > 0:
		scale = float64(opts.Height) / float64(oh)
	}
	pw := int(float64(ow) * scale)
	ph := int(float64(oh) * scale)
	if pw < 1 {
		pw = 1
	}
	if ph < 1 {
		ph = 1
	}

	canvas := imaging.Resize(page.Image, pw, ph, imaging.Lanczos)

	res := &Result{
		PageNumber:     page.Number,
		Width:          pw,
		Height:         ph,
		ScaleFactor:    scale,
		OriginalWidth:  ow,
		OriginalHeight: oh,
	}

	for _, stamp := range stamps {
		res.Stamps = append(res.Stamps, *stamp)
		canvas = r.applyStamp(canvas, stamp, assets(stamp.ID), scale, opts.ShowBoundaries)
	}
	res.StampCount = len(res.Stamps)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, err
	}
	res.Image = canvas
	res.PNG = buf.Bytes()
	return res, nil
}

// applyStamp scales, rotates, fades and composites a single placement.
func (r *Renderer) applyStamp(canvas *image.NRGBA, stamp *model.StampPlacement, asset *model.StampAsset, scale float64, boundaries bool) *image.NRGBA {
	if asset == nil {
		// Imported placement whose asset was never re-attached; skip rather
		// than fail the whole preview.
		return canvas
	}

	cw, ch := canvas.Bounds().Dx(), canvas.Bounds().Dy()
	sw := int(float64(stamp.Width) * scale)
	sh := int(float64(stamp.Height) * scale)
	if sw < 1 || sh < 1 {
		return canvas
	}

	// Normalized center position to pixel top-left.
	x := int(stamp.X*float64(cw)) - sw/2
	y := int(stamp.Y*float64(ch)) - sh/2
	x = clamp(x, 0, cw-sw)
	y = clamp(y, 0, ch-sh)

	layer := imaging.Resize(asset.Image, sw, sh, imaging.Lanczos)
	if stamp.Rotation != 0 {
		rotated := imaging.Rotate(layer, stamp.Rotation, color.NRGBA{})
		rb := rotated.Bounds()
		x -= (rb.Dx() - sw) / 2
		y -= (rb.Dy() - sh) / 2
		sw, sh = rb.Dx(), rb.Dy()
		layer = rotated
	}

	canvas = imaging.Overlay(canvas, layer, image.Pt(x, y), stamp.Opacity)

	if boundaries {
		border, handle := hospitalBoundary, hospitalHandle
		if stamp.Type == model.StampTypeDoctor {
			border, handle = doctorBoundary, doctorHandle
		}
		drawBoundary(canvas, x, y, sw, sh, border, handle)
	}
	return canvas
}

// drawBoundary draws the editing rectangle and its four corner handles.
func drawBoundary(img *image.NRGBA, x, y, w, h int, border, handle color.NRGBA) {
	drawRectOutline(img, x, y, w, h, 2, border)
	for _, c := range [][2]int{
		{x, y}, {x + w, y}, {x, y + h}, {x + w, y + h},
	} {
		fillSquare(img, c[0]-handleSize/2, c[1]-handleSize/2, handleSize, handle)
	}
}

func drawRectOutline(img *image.NRGBA, x, y, w, h, thickness int, col color.NRGBA) {
	for t := 0; t < thickness; t++ {
		for xx := x; xx < x+w; xx++ {
			setIfInside(img, xx, y+t, col)
			setIfInside(img, xx, y+h-1-t, col)
		}
		for yy := y; yy < y+h; yy++ {
			setIfInside(img, x+t, yy, col)
			setIfInside(img, x+w-1-t, yy, col)
		}
	}
}

func fillSquare(img *image.NRGBA, x, y, size int, col color.NRGBA) {
	for yy := y; yy < y+size; yy++ {
		for xx := x; xx < x+size; xx++ {
			setIfInside(img, xx, yy, col)
		}
	}
}

func setIfInside(img *image.NRGBA, x, y int, col color.NRGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetNRGBA(x, y, col)
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
