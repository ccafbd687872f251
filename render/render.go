package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/tsawler/folio/model"
)

// CSSScale converts point coordinates (72 per inch) to CSS pixels
// (96 per inch).
const CSSScale = 96.0 / 72.0

// Config holds rendering options.
type Config struct {
	// Scale is the multiplier applied to every point coordinate.
	// Default: CSSScale
	Scale float64

	// DefaultFontPt is the font size assumed for text blocks with no
	// spans, in points.
	// Default: 11
	DefaultFontPt float64

	// Stylesheet is the href of the stylesheet linked from the document
	// head.
	// Default: /static/css/folio.css
	Stylesheet string

	// Generator is the generator name stamped into the JSON export's
	// meta object.
	// Default: folio
	Generator string

	// Version is the export format version stamped into the meta object.
	// Default: 1.0
	Version string
}

// DefaultConfig returns the standard rendering options.
func DefaultConfig() Config {
	return Config{
		Scale:         CSSScale,
		DefaultFontPt: 11,
		Stylesheet:    "/static/css/folio.css",
		Generator:     "folio",
		Version:       "1.0",
	}
}

// Renderer produces the HTML and JSON deliverables for a document. It is
// stateless and safe for concurrent use.
type Renderer struct {
	config Config
}

// New creates a Renderer with the default options.
func New() *Renderer {
	return &Renderer{config: DefaultConfig()}
}

// NewWithConfig creates a Renderer with custom options.
func NewWithConfig(config Config) *Renderer {
	return &Renderer{config: config}
}

// HTML renders the document as a standalone absolutely-positioned page.
func (r *Renderer) HTML(doc *model.Document) string {
	out := []string{
		"<!DOCTYPE html>",
		"<html>",
		"<head>",
		`<meta charset="utf-8">`,
		fmt.Sprintf(`<link rel="stylesheet" href="%s">`, r.config.Stylesheet),
		"</head>",
		`<body class="pdf-render-view">`,
	}

	for _, page := range doc.Pages {
		out = append(out, fmt.Sprintf(`<div class="pdf-page" style="width:%.2fpx;height:%.2fpx;">`,
			page.Width*r.config.Scale, page.Height*r.config.Scale))

		if len(page.Drawings) > 0 {
			out = append(out, r.vectorLayer(page))
		}

		for _, block := range page.Blocks {
			if block.Kind == model.KindImage {
				if tag, ok := r.imageTag(block); ok {
					out = append(out, tag)
				}
				continue
			}
			if tag, ok := r.textTag(block); ok {
				out = append(out, tag)
			}
		}

		out = append(out, "</div>")
	}

	out = append(out, "</body></html>")
	return strings.Join(out, "\n")
}

// imageTag renders one image block. Blocks whose payload was never
// persisted have an empty Src and are dropped.
func (r *Renderer) imageTag(block *model.Block) (string, bool) {
	if block.Image == nil || block.Image.Src == "" {
		return "", false
	}
	style := r.absStyle(block.Image.BBox, true)
	return fmt.Sprintf(`<img src="%s" class="pdf-image" style="%s">`, block.Image.Src, style), true
}

// textTag renders one text block. Blocks with nothing but whitespace are
// dropped; the emitted text itself is not trimmed.
func (r *Renderer) textTag(block *model.Block) (string, bool) {
	text := block.Text()
	if strings.TrimSpace(text) == "" {
		return "", false
	}

	style := r.absStyle(block.BBox, false) +
		fmt.Sprintf("font-size:%.1fpx;", r.fontSizePt(block)*r.config.Scale)

	tag := "p"
	if block.Label == model.LabelHeading {
		tag = "h2"
		if block.Semantic.IsHeadingTag() {
			tag = string(block.Semantic)
		}
	}
	inner := fmt.Sprintf("<%s>%s</%s>", tag, html.EscapeString(text), tag)

	return fmt.Sprintf(`<div class="text-block" style="%s">%s</div>`, style, inner), true
}

// fontSizePt returns the size of the block's first span, in points. A
// reported size of 0 is passed through; only a missing span falls back to
// the default.
func (r *Renderer) fontSizePt(block *model.Block) float64 {
	if len(block.Lines) > 0 && len(block.Lines[0].Spans) > 0 {
		return block.Lines[0].Spans[0].Size
	}
	return r.config.DefaultFontPt
}

// absStyle positions an element absolutely within its page container.
// Text blocks get no height so the browser can reflow them.
func (r *Renderer) absStyle(b model.BBox, image bool) string {
	left := b.X0 * r.config.Scale
	top := b.Y0 * r.config.Scale
	width := b.Width() * r.config.Scale

	if image {
		return fmt.Sprintf("left:%.2fpx;top:%.2fpx;width:%.2fpx;height:%.2fpx;",
			left, top, width, b.Height()*r.config.Scale)
	}
	return fmt.Sprintf("left:%.2fpx;top:%.2fpx;width:%.2fpx;", left, top, width)
}

// vectorLayer renders the page's drawings as one svg overlay. The svg is
// sized in scaled pixels while the viewBox keeps original point
// dimensions, so path data needs no conversion. Drawings that reduce to no
// path data emit nothing.
func (r *Renderer) vectorLayer(page *model.Page) string {
	var paths []string
	for _, d := range page.Drawings {
		var cmd strings.Builder
		for _, item := range d.Items {
			switch it := item.(type) {
			case model.LineItem:
				fmt.Fprintf(&cmd, "M %g %g L %g %g ", it.P1.X, it.P1.Y, it.P2.X, it.P2.Y)
			case model.RectItem:
				rc := it.Rect
				fmt.Fprintf(&cmd, "M %g %g L %g %g L %g %g L %g %g Z ",
					rc.X0, rc.Y0, rc.X1, rc.Y0, rc.X1, rc.Y1, rc.X0, rc.Y1)
			case model.CurveItem:
				fmt.Fprintf(&cmd, "M %g %g C %g %g %g %g %g %g ",
					it.P1.X, it.P1.Y, it.P2.X, it.P2.Y, it.P3.X, it.P3.Y, it.P4.X, it.P4.Y)
			}
		}
		if cmd.Len() == 0 {
			continue
		}

		stroke := fmt.Sprintf("rgb(%d,%d,%d)",
			channel(d.Color.R), channel(d.Color.G), channel(d.Color.B))
		paths = append(paths, fmt.Sprintf(`<path d="%s" stroke="%s" stroke-width="%g" fill="none"/>`,
			cmd.String(), stroke, d.Width))
	}

	return fmt.Sprintf(`<svg class="pdf-vectors" width="%.2f" height="%.2f" viewBox="0 0 %g %g">%s</svg>`,
		page.Width*r.config.Scale, page.Height*r.config.Scale,
		page.Width, page.Height, strings.Join(paths, ""))
}

// channel maps a unit color component to its 0-255 integer form.
func channel(v float64) int {
	return int(v * 255)
}

// Meta identifies the export format on the wire.
type Meta struct {
	Version   string `json:"version"`
	Generator string `json:"generator"`
}

// Export is the machine-readable deliverable: format metadata plus the
// full classified page tree. Encoding and re-decoding an Export loses
// nothing.
type Export struct {
	Meta  Meta          `json:"meta"`
	Pages []*model.Page `json:"pages"`
}

// Export wraps the document's pages with format metadata.
func (r *Renderer) Export(doc *model.Document) *Export {
	return &Export{
		Meta:  Meta{Version: r.config.Version, Generator: r.config.Generator},
		Pages: doc.Pages,
	}
}

// ExportJSON renders the JSON deliverable.
func (r *Renderer) ExportJSON(doc *model.Document) ([]byte, error) {
	data, err := json.Marshal(r.Export(doc))
	if err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}
	return data, nil
}
