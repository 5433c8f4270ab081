// Package document normalizes uploaded files (images or PDFs) into lists of
// page rasters the preview compositor can work with.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	// Codecs for the supported image extensions.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"stampapi/internal/fonts"
	"stampapi/internal/model"
)

// Sentinel errors surfaced to the service layer.
var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrFileTooLarge      = errors.New("document exceeds maximum size")
	ErrCorruptDocument   = errors.New("document could not be parsed")
)

// Config bounds document intake.
type Config struct {
	MaxFileBytes int64 // upload cap
	MaxPageDim   int   // largest allowed page width or height in pixels
}

// DefaultConfig mirrors the documented limits: 50MB uploads, 4000px pages.
func DefaultConfig() Config {
	return Config{MaxFileBytes: 50 << 20, MaxPageDim: 4000}
}

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true,
	".bmp": true, ".tiff": true, ".gif": true,
}

// Processor turns raw uploads into DocumentModels.
type Processor struct {
	cfg        Config
	rasterizer Rasterizer
	fonts      *fonts.Resolver
}

// NewProcessor creates a processor. A nil rasterizer degrades PDF pages to
// labeled placeholders instead of failing the upload.
func NewProcessor(cfg Config, rasterizer Rasterizer, resolver *fonts.Resolver) *Processor {
	if cfg.MaxFileBytes == 0 {
		cfg.MaxFileBytes = DefaultConfig().MaxFileBytes
	}
	if cfg.MaxPageDim == 0 {
		cfg.MaxPageDim = DefaultConfig().MaxPageDim
	}
	if resolver == nil {
		resolver = fonts.NewResolver()
	}
	return &Processor{cfg: cfg, rasterizer: rasterizer, fonts: resolver}
}

// Supported reports whether the filename's extension is loadable.
func Supported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".pdf" || imageExtensions[ext]
}

// Load dispatches on the file extension and returns the normalized document.
func (p *Processor) Load(data []byte, filename string) (*model.DocumentModel, error) {
	if int64(len(data)) > p.cfg.MaxFileBytes {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, len(data), p.cfg.MaxFileBytes)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case ext == ".pdf":
		return p.loadPDF(data, filename)
	case imageExtensions[ext]:
		return p.loadImage(data, filename)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
	}
}

func (p *Processor) loadImage(data []byte, filename string) (*model.DocumentModel, error) {
	decoded, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}

	page := p.normalizePage(decoded, 1)
	return &model.DocumentModel{
		Type:      model.DocumentTypeImage,
		PageCount: 1,
		Pages:     []*model.Page{page},
		Filename:  filepath.Base(filename),
		Metadata: map[string]string{
			"source_format": format,
			"dimensions":    strconv.Itoa(page.Width) + "x" + strconv.Itoa(page.Height),
		},
	}, nil
}

func (p *Processor) loadPDF(data []byte, filename string) (*model.DocumentModel, error) {
	count, err := pdfPageCount(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}

	var rasters []image.Image
	if p.rasterizer != nil {
		rasters, err = p.rasterizer.RenderPages(data, p.cfg.MaxPageDim)
		if err != nil && !errors.Is(err, ErrRasterizerUnavailable) {
			return nil, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
		}
	}

	doc := &model.DocumentModel{
		Type:      model.DocumentTypePDF,
		PageCount: count,
		Filename:  filepath.Base(filename),
		Metadata: map[string]string{
			"source_format": "pdf",
		},
	}
	for i := 1; i <= count; i++ {
		if i <= len(rasters) {
			doc.Pages = append(doc.Pages, p.normalizePage(rasters[i-1], i))
			continue
		}
		// Rasterization unavailable: keep the flow interactive with a
		// clearly labeled stand-in page.
		doc.Pages = append(doc.Pages, p.placeholderPage(i))
	}
	return doc, nil
}

// normalizePage converts to NRGBA over white and downscales oversized pages
// with Lanczos resampling, preserving aspect ratio.
func (p *Processor) normalizePage(src image.Image, number int) *model.Page {
	b := src.Bounds()
	flat := imaging.New(b.Dx(), b.Dy(), color.White)
	flat = imaging.Overlay(flat, src, image.Point{}, 1.0)

	if b.Dx() > p.cfg.MaxPageDim || b.Dy() > p.cfg.MaxPageDim {
		flat = imaging.Fit(flat, p.cfg.MaxPageDim, p.cfg.MaxPageDim, imaging.Lanczos)
	}

	nb := flat.Bounds()
	return &model.Page{
		Number: number,
		Image:  flat,
		Width:  nb.Dx(),
		Height: nb.Dy(),
	}
}
