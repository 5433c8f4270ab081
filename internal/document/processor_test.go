package document

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stampapi/internal/fonts"
	"stampapi/internal/model"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 10, B: 10, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSupported(t *testing.T) {
	for _, name := range []string{"a.jpg", "b.JPEG", "c.png", "d.bmp", "e.tiff", "f.gif", "g.pdf", "H.PDF"} {
		assert.True(t, Supported(name), name)
	}
	for _, name := range []string{"a.txt", "b.docx", "noext", "c.svg"} {
		assert.False(t, Supported(name), name)
	}
}

func TestLoadImage(t *testing.T) {
	p := NewProcessor(Config{}, NoRasterizer{}, fonts.NewResolver())

	doc, err := p.Load(pngBytes(t, 120, 80), "scan.png")
	require.NoError(t, err)

	assert.Equal(t, model.DocumentTypeImage, doc.Type)
	assert.Equal(t, 1, doc.PageCount)
	require.Len(t, doc.Pages, 1)
	assert.Equal(t, 120, doc.Pages[0].Width)
	assert.Equal(t, 80, doc.Pages[0].Height)
	assert.Equal(t, "png", doc.Metadata["source_format"])
	assert.Equal(t, "120x80", doc.Metadata["dimensions"])
}

func TestLoadImageDownscalesOversized(t *testing.T) {
	p := NewProcessor(Config{MaxPageDim: 100}, NoRasterizer{}, fonts.NewResolver())

	doc, err := p.Load(pngBytes(t, 400, 200), "big.png")
	require.NoError(t, err)

	page := doc.Pages[0]
	// Longest side shrinks to the cap; aspect ratio is preserved.
	assert.Equal(t, 100, page.Width)
	assert.Equal(t, 50, page.Height)
}

func TestLoadRejectsOversizedFile(t *testing.T) {
	p := NewProcessor(Config{MaxFileBytes: 10}, NoRasterizer{}, fonts.NewResolver())

	_, err := p.Load(pngBytes(t, 50, 50), "scan.png")
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestLoadUnsupportedExtension(t *testing.T) {
	p := NewProcessor(Config{}, NoRasterizer{}, fonts.NewResolver())

	_, err := p.Load([]byte("hello"), "notes.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadCorruptImage(t *testing.T) {
	p := NewProcessor(Config{}, NoRasterizer{}, fonts.NewResolver())

	_, err := p.Load([]byte("definitely not a png"), "scan.png")
	assert.ErrorIs(t, err, ErrCorruptDocument)
}

func TestLoadCorruptPDF(t *testing.T) {
	p := NewProcessor(Config{}, NoRasterizer{}, fonts.NewResolver())

	_, err := p.Load([]byte("%PDF-nope"), "doc.pdf")
	assert.ErrorIs(t, err, ErrCorruptDocument)
}

func TestPlaceholderPage(t *testing.T) {
	p := NewProcessor(Config{}, NoRasterizer{}, fonts.NewResolver())

	page := p.placeholderPage(3)
	assert.Equal(t, 3, page.Number)
	assert.True(t, page.Placeholder)
	assert.Equal(t, placeholderWidth, page.Width)
	assert.Equal(t, placeholderHeight, page.Height)

	// Corner pixel carries the frame color.
	assert.Equal(t, placeholderBorder, page.Image.NRGBAAt(0, 0))
}

func TestPlaceholderPageRespectsDimCap(t *testing.T) {
	p := NewProcessor(Config{MaxPageDim: 500}, NoRasterizer{}, fonts.NewResolver())

	page := p.placeholderPage(1)
	assert.LessOrEqual(t, page.Width, 500)
	assert.LessOrEqual(t, page.Height, 500)
}

func TestNormalizePageFlattensOntoWhite(t *testing.T) {
	p := NewProcessor(Config{}, NoRasterizer{}, fonts.NewResolver())

	// Fully transparent source pixel should land on white after flattening.
	src := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	page := p.normalizePage(src, 1)

	got := page.Image.NRGBAAt(5, 5)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, got)
}
