package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// BlockKind distinguishes text blocks from image blocks. The numeric values
// match the upstream decoder's block type codes.
type BlockKind int

const (
	KindText  BlockKind = 0
	KindImage BlockKind = 1
)

func (k BlockKind) String() string {
	switch k {
	case KindImage:
		return "image"
	default:
		return "text"
	}
}

// MarshalJSON encodes the kind as its string form.
func (k BlockKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON accepts both the string form ("text", "image") and the
// decoder's numeric codes (0, 1). Anything else is an error.
func (k *BlockKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		switch s {
		case "text":
			*k = KindText
			return nil
		case "image":
			*k = KindImage
			return nil
		}
		return fmt.Errorf("unknown block kind %q", s)
	}
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		switch n {
		case 0:
			*k = KindText
			return nil
		case 1:
			*k = KindImage
			return nil
		}
		return fmt.Errorf("unknown block kind %d", n)
	}
	return fmt.Errorf("block kind must be a string or number: %s", data)
}

// Label is the coarse semantic role assigned to a block by classification.
type Label string

const (
	LabelHeading   Label = "heading"
	LabelParagraph Label = "paragraph"
	LabelTable     Label = "table"
	LabelListItem  Label = "list_item"
	LabelFootnote  Label = "footnote"
	LabelImage     Label = "image"
	LabelUnknown   Label = "unknown"
)

// SemanticType is the fine-grained role assigned alongside a Label, named
// after the markup tag it most closely corresponds to.
type SemanticType string

const (
	SemanticH1      SemanticType = "h1"
	SemanticH2      SemanticType = "h2"
	SemanticH3      SemanticType = "h3"
	SemanticH4      SemanticType = "h4"
	SemanticH5      SemanticType = "h5"
	SemanticH6      SemanticType = "h6"
	SemanticP       SemanticType = "p"
	SemanticLI      SemanticType = "li"
	SemanticSmall   SemanticType = "small"
	SemanticTable   SemanticType = "table"
	SemanticImage   SemanticType = "image"
	SemanticUnknown SemanticType = "unknown"
)

// IsHeadingTag reports whether the semantic type names one of the six
// heading tags.
func (s SemanticType) IsHeadingTag() bool {
	switch s {
	case SemanticH1, SemanticH2, SemanticH3, SemanticH4, SemanticH5, SemanticH6:
		return true
	}
	return false
}

// Block is a positioned unit of page content. Exactly one of Lines or Image
// is populated, according to Kind. Label and Semantic are empty until the
// classification pass assigns them.
type Block struct {
	Kind     BlockKind    `json:"type"`
	Number   int          `json:"number"` // decoder block index, -1 when unreported
	BBox     BBox         `json:"bbox"`
	Lines    []Line       `json:"lines,omitempty"`
	Image    *ImageInfo   `json:"image_info,omitempty"`
	Label    Label        `json:"label,omitempty"`
	Semantic SemanticType `json:"semantic_type,omitempty"`
}

// Text returns the block's span texts joined by single spaces, in reading
// order across all lines. The result is not trimmed; callers that need the
// classifier's view apply strings.TrimSpace themselves.
func (b *Block) Text() string {
	var parts []string
	for _, line := range b.Lines {
		for _, span := range line.Spans {
			parts = append(parts, span.Text)
		}
	}
	return strings.Join(parts, " ")
}

// SpanCount returns the number of spans across all lines
func (b *Block) SpanCount() int {
	n := 0
	for _, line := range b.Lines {
		n += len(line.Spans)
	}
	return n
}

// Line is one line of text inside a block.
type Line struct {
	BBox  BBox   `json:"bbox"`
	WMode int    `json:"wmode"` // writing mode as reported by the decoder
	Dir   Point  `json:"dir"`   // writing direction, defaults to (1,0)
	Spans []Span `json:"spans"`
}

// Span is the smallest styled text run: uniform font, size, and color.
type Span struct {
	Text   string  `json:"text"`
	BBox   BBox    `json:"bbox"`
	Size   float64 `json:"size"` // font size in points, 0 when unreported
	Font   string  `json:"font"`
	Color  int     `json:"color"` // packed integer color
	Flags  int     `json:"flags"`
	Origin Point   `json:"origin"`
}

// ImageInfo describes the payload of an image block. Src is the resource
// path the extracted bytes were persisted under; it is empty when
// persistence failed, and rendering skips such blocks.
type ImageInfo struct {
	Src    string `json:"src"`
	BBox   BBox   `json:"bbox"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Ext    string `json:"ext"`
}
