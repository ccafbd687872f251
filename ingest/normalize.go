package ingest

import (
	"encoding/json"
	"log"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/folio/model"
)

// Normalizer converts raw decoder payloads into fully-defaulted model trees,
// persisting image payloads through its store as it goes.
type Normalizer struct {
	store Store
}

// NewNormalizer creates a normalizer. A nil store behaves like DiscardStore.
func NewNormalizer(store Store) *Normalizer {
	if store == nil {
		store = DiscardStore{}
	}
	return &Normalizer{store: store}
}

// Normalize builds the model tree for one document. Every field of the
// result is present and typed; malformed primitives degrade to defaults and
// never abort the document. jobID scopes persisted image resources.
func (n *Normalizer) Normalize(raw *RawDocument, jobID string) *model.Document {
	doc := model.NewDocument()
	for i, rp := range raw.Pages {
		doc.AddPage(n.normalizePage(&rp, i+1, jobID))
	}
	return doc
}

func (n *Normalizer) normalizePage(rp *RawPage, pageNum int, jobID string) *model.Page {
	page := model.NewPage(rp.Width, rp.Height)

	for _, rb := range rp.Blocks {
		page.Blocks = append(page.Blocks, n.normalizeBlock(&rb, pageNum, jobID))
	}
	for _, rd := range rp.Drawings {
		page.Drawings = append(page.Drawings, normalizeDrawing(&rd))
	}
	return page
}

func (n *Normalizer) normalizeBlock(rb *RawBlock, pageNum int, jobID string) *model.Block {
	block := &model.Block{
		Kind:   model.KindText,
		Number: intOr(rb.Number, -1),
		BBox:   coerceRect(rb.BBox),
	}

	// Only the decoder's two known type codes carry content; any other code
	// degrades to an empty text block.
	switch intOr(rb.Type, -1) {
	case 0:
		block.Lines = normalizeLines(rb.Lines)
	case 1:
		block.Kind = model.KindImage
		block.Image = n.normalizeImage(rb, block.BBox, pageNum, jobID)
	}
	return block
}

func normalizeLines(raw []RawLine) []model.Line {
	lines := make([]model.Line, 0, len(raw))
	for _, rl := range raw {
		line := model.Line{
			BBox:  coerceRect(rl.BBox),
			WMode: rl.WMode,
			Dir:   dirOrDefault(rl.Dir),
			Spans: make([]model.Span, 0, len(rl.Spans)),
		}
		for _, rs := range rl.Spans {
			line.Spans = append(line.Spans, model.Span{
				Text:   norm.NFC.String(rs.Text),
				BBox:   coerceRect(rs.BBox),
				Size:   rs.Size,
				Font:   rs.Font,
				Color:  rs.Color,
				Flags:  rs.Flags,
				Origin: coercePoint(rs.Origin),
			})
		}
		lines = append(lines, line)
	}
	return lines
}

func (n *Normalizer) normalizeImage(rb *RawBlock, bbox model.BBox, pageNum int, jobID string) *model.ImageInfo {
	info := &model.ImageInfo{
		BBox:   bbox,
		Width:  rb.Width,
		Height: rb.Height,
		Ext:    rb.Ext,
	}

	if len(rb.Image) == 0 {
		return info
	}

	saved, err := n.store.SaveImage(jobID, pageNum, intOr(rb.Number, 0), rb.Ext, rb.Image)
	if err != nil {
		log.Printf("job %s: image save failed (page %d block %d): %v", jobID, pageNum, intOr(rb.Number, 0), err)
		return info
	}

	info.Src = saved.Src
	if info.Width == 0 {
		info.Width = saved.Width
	}
	if info.Height == 0 {
		info.Height = saved.Height
	}
	return info
}

func normalizeDrawing(rd *RawDrawing) *model.Drawing {
	d := &model.Drawing{
		Items: reduceItems(rd.Items),
		Color: model.Black,
		Fill:  coerceRGB(rd.Fill),
		Width: 1,
		Rect:  coerceRect(rd.Rect),
	}
	if c := coerceRGB(rd.Color); c != nil {
		d.Color = *c
	}
	if rd.Width != nil {
		d.Width = *rd.Width
	}
	return d
}

// dirOrDefault keeps the decoder's default writing direction (1,0) when the
// field is absent; a present but malformed value degrades to the origin like
// any other point.
func dirOrDefault(raw json.RawMessage) model.Point {
	if len(raw) == 0 {
		return model.Point{X: 1, Y: 0}
	}
	return coercePoint(raw)
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
