// Package stamp renders circular hospital stamps and rectangular doctor
// stamps onto transparent rasters. The layout engines are backend-agnostic:
// everything goes through the small set of drawing primitives in this file.
package stamp

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// newCanvas allocates a fully transparent NRGBA canvas.
func newCanvas(w, h int) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, w, h))
}

// encodePNG serializes a canvas to PNG bytes.
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// blendPixel alpha-composites col over img at (x,y) scaled by cover ∈ [0,1].
func blendPixel(img *image.NRGBA, x, y int, col color.NRGBA, cover float64) {
	if cover <= 0 || !image.Pt(x, y).In(img.Bounds()) {
		return
	}
	a := float64(col.A) * cover / 255
	if a <= 0 {
		return
	}
	dst := img.NRGBAAt(x, y)
	da := float64(dst.A) / 255
	outA := a + da*(1-a)
	if outA == 0 {
		return
	}
	blend := func(s, d uint8) uint8 {
		v := (float64(s)*a + float64(d)*da*(1-a)) / outA
		return uint8(math.Round(math.Min(v, 255)))
	}
	img.SetNRGBA(x, y, color.NRGBA{
		R: blend(col.R, dst.R),
		G: blend(col.G, dst.G),
		B: blend(col.B, dst.B),
		A: uint8(math.Round(outA * 255)),
	})
}

// drawRing strokes an anti-aliased circular ring centered at (cx,cy) with the
// given outer radius and stroke width.
func drawRing(img *image.NRGBA, cx, cy, radius float64, width float64, col color.NRGBA) {
	if radius <= 0 || width <= 0 {
		return
	}
	inner := radius - width
	x0 := int(math.Floor(cx - radius - 1))
	x1 := int(math.Ceil(cx + radius + 1))
	y0 := int(math.Floor(cy - radius - 1))
	y1 := int(math.Ceil(cy + radius + 1))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			d := math.Hypot(float64(x)-cx, float64(y)-cy)
			// 1px soft edge on both sides of the stroke.
			cover := math.Min(radius+0.5-d, d-inner+0.5)
			if cover > 1 {
				cover = 1
			}
			blendPixel(img, x, y, col, cover)
		}
	}
}

// drawHLine draws a horizontal line of the given thickness centered on y.
func drawHLine(img *image.NRGBA, x0, x1 int, y float64, thickness float64, col color.NRGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	half := thickness / 2
	for yy := int(math.Floor(y - half - 1)); yy <= int(math.Ceil(y+half+1)); yy++ {
		cover := math.Min(half+0.5-math.Abs(float64(yy)-y), 1)
		for xx := x0; xx <= x1; xx++ {
			blendPixel(img, xx, yy, col, cover)
		}
	}
}

// fillRect fills an axis-aligned rectangle.
func fillRect(img *image.NRGBA, r image.Rectangle, col color.NRGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			blendPixel(img, x, y, col, 1)
		}
	}
}

// textWidth measures the advance of s in pixels.
func textWidth(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

// textHeight reports the ascent+descent of the face in pixels.
func textHeight(face font.Face) int {
	m := face.Metrics()
	return (m.Ascent + m.Descent).Ceil()
}

// drawString draws s with its baseline at (x, y).
func drawString(img *image.NRGBA, s string, x, y int, face font.Face, col color.NRGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// drawStringBold redraws s with single-pixel offsets to thicken thin faces,
// the raster equivalent of a bold pass.
func drawStringBold(img *image.NRGBA, s string, x, y int, face font.Face, col color.NRGBA) {
	for _, off := range [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		drawString(img, s, x+off[0], y+off[1], face, col)
	}
}

// drawStringCentered centers s horizontally around cx with baseline y.
func drawStringCentered(img *image.NRGBA, s string, cx, y int, face font.Face, col color.NRGBA, bold bool) {
	x := cx - textWidth(face, s)/2
	if bold {
		drawStringBold(img, s, x, y, face, col)
		return
	}
	drawString(img, s, x, y, face, col)
}
