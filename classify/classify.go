package classify

import (
	"strings"

	"github.com/tsawler/folio/model"
)

// Classifier assigns a Label and SemanticType to every block of a document.
// The heuristic implementation below never fails; the error return exists so
// a substitute (a model-backed classifier, say) can report one without
// changing the rendering contract.
type Classifier interface {
	// Classify labels every block on every page, in place.
	Classify(doc *model.Document) error
}

// Config holds the thresholds the heuristic cascade compares against. All
// ratios are relative to the page's font statistics; fractions are relative
// to the page's dimensions.
type Config struct {
	// TitleFontRatio is the minimum average font size for a title,
	// as a fraction of the page's largest span size.
	// Default: 0.85
	TitleFontRatio float64

	// TitleCenterOffset is the maximum horizontal distance between the
	// block's center and the page's center, as a fraction of page width.
	// Default: 0.15
	TitleCenterOffset float64

	// TitleTopFraction is how far down the page a title may start, as a
	// fraction of page height.
	// Default: 0.25
	TitleTopFraction float64

	// SubheadingFontRatio is the minimum average font size for a
	// subheading, as a multiple of the body size. The comparison is
	// strict: a block exactly at the ratio is not a subheading.
	// Default: 1.4
	SubheadingFontRatio float64

	// SubheadingMaxWords is the maximum word count for a subheading.
	// Default: 10
	SubheadingMaxWords int

	// SubheadingMaxHeight is the maximum block height for a subheading,
	// as a fraction of page height.
	// Default: 0.08
	SubheadingMaxHeight float64

	// MinorHeadingFontRatio is the minimum average font size for a minor
	// heading, as a multiple of the body size. The upper bound is
	// SubheadingFontRatio. The lower comparison is strict.
	// Default: 1.2
	MinorHeadingFontRatio float64

	// MinorHeadingMaxWords is the maximum word count for a minor heading.
	// Default: 15
	MinorHeadingMaxWords int

	// TableMinWords is the word count a block must exceed to be
	// considered table-like.
	// Default: 5
	TableMinWords int

	// TableMinLines is the minimum number of lines in a table-like block.
	// Default: 4
	TableMinLines int

	// TableMinWidth is the minimum block width for a table, as a fraction
	// of page width.
	// Default: 0.6
	TableMinWidth float64

	// TableMaxFontRatio is the maximum average font size for a table, as
	// a multiple of the body size. Tables are body-sized text; anything
	// larger is heading material.
	// Default: 1.05
	TableMaxFontRatio float64

	// ListMarkers are the prefixes that mark a block as a list item.
	// Default: bullet, hyphen, en dash, and the numbered prefixes
	// "1." "2." "3."
	ListMarkers []string

	// FootnoteFontRatio is the maximum average font size for a footnote,
	// as a fraction of the body size. The comparison is strict.
	// Default: 0.85
	FootnoteFontRatio float64

	// FootnoteTopFraction is how far down the page a footnote must start,
	// as a fraction of page height.
	// Default: 0.8
	FootnoteTopFraction float64
}

// DefaultConfig returns the thresholds the cascade was tuned with.
func DefaultConfig() Config {
	return Config{
		TitleFontRatio:        0.85,
		TitleCenterOffset:     0.15,
		TitleTopFraction:      0.25,
		SubheadingFontRatio:   1.4,
		SubheadingMaxWords:    10,
		SubheadingMaxHeight:   0.08,
		MinorHeadingFontRatio: 1.2,
		MinorHeadingMaxWords:  15,
		TableMinWords:         5,
		TableMinLines:         4,
		TableMinWidth:         0.6,
		TableMaxFontRatio:     1.05,
		ListMarkers:           []string{"•", "-", "–", "1.", "2.", "3."},
		FootnoteFontRatio:     0.85,
		FootnoteTopFraction:   0.8,
	}
}

// Heuristic is the rule-cascade Classifier. It is stateless between calls
// and safe for concurrent use on distinct documents.
type Heuristic struct {
	config Config
}

var _ Classifier = (*Heuristic)(nil)

// New creates a Heuristic with the default thresholds.
func New() *Heuristic {
	return &Heuristic{config: DefaultConfig()}
}

// NewWithConfig creates a Heuristic with custom thresholds.
func NewWithConfig(config Config) *Heuristic {
	return &Heuristic{config: config}
}

// Classify labels every block on every page, in place. It never returns a
// non-nil error.
func (h *Heuristic) Classify(doc *model.Document) error {
	if doc == nil {
		return nil
	}
	for _, page := range doc.Pages {
		h.ClassifyPage(page)
	}
	return nil
}

// ClassifyPage labels every block on the page, in place. Statistics are
// computed per page, so a page of footnote-sized text still gets a sensible
// body baseline.
func (h *Heuristic) ClassifyPage(page *model.Page) {
	if page == nil {
		return
	}
	stats := computeStats(page)
	for _, block := range page.Blocks {
		block.Label, block.Semantic = h.classifyBlock(block, page, stats)
	}
}

// classifyBlock runs the cascade. Every block receives a label: the final
// rule is unconditional.
func (h *Heuristic) classifyBlock(block *model.Block, page *model.Page, stats pageStats) (model.Label, model.SemanticType) {
	if block.Kind == model.KindImage {
		return model.LabelImage, model.SemanticImage
	}

	text := strings.TrimSpace(block.Text())
	if block.SpanCount() == 0 || text == "" {
		return model.LabelUnknown, model.SemanticUnknown
	}

	avg := averageFontSize(block)
	words := len(strings.Fields(text))

	// Title: near-maximal font, horizontally centered, top of the page.
	if avg >= stats.maxFont*h.config.TitleFontRatio &&
		centerOffset(block, page) < h.config.TitleCenterOffset &&
		block.BBox.Y0 < page.Height*h.config.TitleTopFraction {
		return model.LabelHeading, model.SemanticH1
	}

	// Subheading: clearly larger than body text, short, vertically compact.
	if avg > stats.bodyFont*h.config.SubheadingFontRatio &&
		words <= h.config.SubheadingMaxWords &&
		block.BBox.Height() < page.Height*h.config.SubheadingMaxHeight {
		return model.LabelHeading, model.SemanticH2
	}

	// Minor heading: moderately larger than body text, still short.
	if avg > stats.bodyFont*h.config.MinorHeadingFontRatio &&
		avg <= stats.bodyFont*h.config.SubheadingFontRatio &&
		words <= h.config.MinorHeadingMaxWords {
		return model.LabelHeading, model.SemanticH3
	}

	// Table: wide, many-lined, body-sized text.
	if words > h.config.TableMinWords &&
		len(block.Lines) >= h.config.TableMinLines &&
		block.BBox.Width() > page.Width*h.config.TableMinWidth &&
		avg <= stats.bodyFont*h.config.TableMaxFontRatio {
		return model.LabelTable, model.SemanticTable
	}

	// List item: a recognized marker leads the text.
	for _, marker := range h.config.ListMarkers {
		if strings.HasPrefix(text, marker) {
			return model.LabelListItem, model.SemanticLI
		}
	}

	// Footnote: smaller than body text, bottom of the page.
	if avg < stats.bodyFont*h.config.FootnoteFontRatio &&
		block.BBox.Y0 > page.Height*h.config.FootnoteTopFraction {
		return model.LabelFootnote, model.SemanticSmall
	}

	return model.LabelParagraph, model.SemanticP
}

// pageStats are the per-page font statistics the cascade compares against.
type pageStats struct {
	maxFont  float64 // largest span size on the page
	bodyFont float64 // most frequent span size on the page
}

// computeStats scans every span on the page. A page with no spans yields
// zero statistics; the cascade still labels its blocks because image and
// empty-block rules need no font baseline.
func computeStats(page *model.Page) pageStats {
	var stats pageStats
	counts := make(map[float64]int)

	for _, block := range page.Blocks {
		for _, line := range block.Lines {
			for _, span := range line.Spans {
				if span.Size > stats.maxFont {
					stats.maxFont = span.Size
				}
				counts[span.Size]++
			}
		}
	}

	best := 0
	for size, n := range counts {
		// Ties go to the smaller size so the body baseline stays
		// conservative.
		if n > best || (n == best && size < stats.bodyFont) {
			best = n
			stats.bodyFont = size
		}
	}
	return stats
}

// averageFontSize returns the mean span size of the block, 0 when the block
// has no spans.
func averageFontSize(block *model.Block) float64 {
	sum := 0.0
	n := 0
	for _, line := range block.Lines {
		for _, span := range line.Spans {
			sum += span.Size
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// centerOffset returns the distance between the block's horizontal center
// and the page's, as a fraction of page width.
func centerOffset(block *model.Block, page *model.Page) float64 {
	if page.Width == 0 {
		return 0
	}
	offset := block.BBox.CenterX() - page.Width/2
	if offset < 0 {
		offset = -offset
	}
	return offset / page.Width
}
