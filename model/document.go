package model

// Default page dimensions in points, applied when the upstream decoder
// reports no usable size for a page.
const (
	DefaultPageWidth  = 595.0
	DefaultPageHeight = 842.0
)

// Document represents one fully normalized source document. It is built once
// by the ingestion layer and owned by a single job; the only mutation after
// construction is the one-time label assignment performed by classification.
type Document struct {
	Pages []*Page `json:"pages"`
}

// NewDocument creates a new empty document
func NewDocument() *Document {
	return &Document{Pages: make([]*Page, 0)}
}

// AddPage appends a page and assigns its 1-based number
func (d *Document) AddPage(page *Page) {
	page.Number = len(d.Pages) + 1
	d.Pages = append(d.Pages, page)
}

// PageCount returns the total number of pages
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// Page represents a single page: dimensions in points plus the ordered
// block and drawing sequences.
type Page struct {
	Number   int        `json:"page"` // 1-based
	Width    float64    `json:"width"`
	Height   float64    `json:"height"`
	Blocks   []*Block   `json:"blocks"`
	Drawings []*Drawing `json:"drawings"`
}

// NewPage creates a page with the given dimensions in points. Non-positive
// dimensions fall back to the package defaults.
func NewPage(width, height float64) *Page {
	if width <= 0 {
		width = DefaultPageWidth
	}
	if height <= 0 {
		height = DefaultPageHeight
	}
	return &Page{
		Width:    width,
		Height:   height,
		Blocks:   make([]*Block, 0),
		Drawings: make([]*Drawing, 0),
	}
}
