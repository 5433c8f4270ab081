package document

import (
	"bytes"
	"errors"
	"image"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrRasterizerUnavailable signals that no PDF raster backend is wired in.
// The processor treats it as a degraded mode, not a failure.
var ErrRasterizerUnavailable = errors.New("pdf rasterizer unavailable")

// Rasterizer converts PDF bytes into page images. Real backends shell out to
// an external renderer; the core only depends on this contract.
type Rasterizer interface {
	// RenderPages returns one raster per page, each no larger than maxDim on
	// its longest side, or ErrRasterizerUnavailable.
	RenderPages(data []byte, maxDim int) ([]image.Image, error)
}

// pdfPageCount reads the page count from the PDF structure itself, so page
// navigation works even when no rasterizer is available.
func pdfPageCount(data []byte) (int, error) {
	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed
	return pdfapi.PageCount(bytes.NewReader(data), conf)
}

// NoRasterizer is the default collaborator: it always reports unavailability,
// which downgrades PDF pages to labeled placeholders.
type NoRasterizer struct{}

// RenderPages implements Rasterizer.
func (NoRasterizer) RenderPages([]byte, int) ([]image.Image, error) {
	return nil, ErrRasterizerUnavailable
}
