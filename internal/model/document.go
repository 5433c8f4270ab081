package model

import "image"

// DocumentType identifies how a loaded document was interpreted.
type DocumentType string

const (
	DocumentTypeImage DocumentType = "IMAGE"
	DocumentTypePDF   DocumentType = "PDF"
)

// Page is one normalized page raster of a loaded document.
type Page struct {
	Number      int
	Image       *image.NRGBA
	Width       int
	Height      int
	Placeholder bool
}

// DocumentModel holds every page raster of one loaded document plus its
// metadata. It is created once per upload and replaced wholesale on
// re-upload; never partially mutated.
type DocumentModel struct {
	Type      DocumentType
	PageCount int
	Pages     []*Page
	Filename  string
	Metadata  map[string]string
}

// PageByNumber returns the 1-based page, or nil when out of range.
func (d *DocumentModel) PageByNumber(n int) *Page {
	if d == nil || n < 1 || n > len(d.Pages) {
		return nil
	}
	return d.Pages[n-1]
}

// DocumentSummary is the upload response DTO.
type DocumentSummary struct {
	Type      DocumentType      `json:"document_type"`
	PageCount int               `json:"page_count"`
	Filename  string            `json:"filename"`
	Pages     []PageSummary     `json:"pages"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// PageSummary reports per-page dimensions without raster data.
type PageSummary struct {
	Number      int  `json:"page_number"`
	Width       int  `json:"width"`
	Height      int  `json:"height"`
	Placeholder bool `json:"placeholder,omitempty"`
}

// Summary derives the DTO from a document model.
func (d *DocumentModel) Summary() DocumentSummary {
	s := DocumentSummary{
		Type:      d.Type,
		PageCount: d.PageCount,
		Filename:  d.Filename,
		Metadata:  d.Metadata,
	}
	for _, p := range d.Pages {
		s.Pages = append(s.Pages, PageSummary{
			Number:      p.Number,
			Width:       p.Width,
			Height:      p.Height,
			Placeholder: p.Placeholder,
		})
	}
	return s
}
