package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tsawler/folio/model"
)

// RawDocument is the top-level decoder payload: the ordered pages of one
// source document.
type RawDocument struct {
	Pages []RawPage `json:"pages"`
}

// RawPage mirrors one page of decoder output before normalization.
type RawPage struct {
	Width    float64      `json:"width"`
	Height   float64      `json:"height"`
	Blocks   []RawBlock   `json:"blocks"`
	Drawings []RawDrawing `json:"drawings"`
}

// RawBlock is one decoder block. Type 0 is text, 1 is image; any other value
// normalizes to an empty text block. Geometry fields stay raw until coerced.
type RawBlock struct {
	Type   *int            `json:"type"`
	Number *int            `json:"number"`
	BBox   json.RawMessage `json:"bbox"`
	Lines  []RawLine       `json:"lines"`
	Image  []byte          `json:"image"` // base64 on the wire
	Width  int             `json:"width"`
	Height int             `json:"height"`
	Ext    string          `json:"ext"`
}

// RawLine is one decoder text line.
type RawLine struct {
	BBox  json.RawMessage `json:"bbox"`
	WMode int             `json:"wmode"`
	Dir   json.RawMessage `json:"dir"`
	Spans []RawSpan       `json:"spans"`
}

// RawSpan is one decoder text run.
type RawSpan struct {
	Text   string          `json:"text"`
	BBox   json.RawMessage `json:"bbox"`
	Size   float64         `json:"size"`
	Font   string          `json:"font"`
	Color  int             `json:"color"`
	Flags  int             `json:"flags"`
	Origin json.RawMessage `json:"origin"`
}

// RawDrawing is one decoder vector path group. Items arrive as tagged tuples
// such as ["l", p1, p2]; reduceItems turns them into model variants.
type RawDrawing struct {
	Items []json.RawMessage `json:"items"`
	Color json.RawMessage   `json:"color"`
	Fill  json.RawMessage   `json:"fill"`
	Width *float64          `json:"width"`
	Rect  json.RawMessage   `json:"rect"`
}

// Decoder is the boundary to the document decoding collaborator. Probe
// reports the page count without full decoding, for validation; Decode
// produces the raw layout payload.
type Decoder interface {
	Probe(path string) (int, error)
	Decode(path string) (*RawDocument, error)
}

// JSONDecoder reads layout-JSON documents from disk.
type JSONDecoder struct{}

// Probe returns the number of pages in the document without decoding page
// content.
func (JSONDecoder) Probe(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening layout document: %w", err)
	}
	defer f.Close()

	var skeleton struct {
		Pages []json.RawMessage `json:"pages"`
	}
	if err := json.NewDecoder(f).Decode(&skeleton); err != nil {
		return 0, fmt.Errorf("decoding layout document: %w", err)
	}
	return len(skeleton.Pages), nil
}

// Decode reads and parses the full layout payload.
func (JSONDecoder) Decode(path string) (*RawDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening layout document: %w", err)
	}
	defer f.Close()
	return DecodeJSON(f)
}

// DecodeJSON parses a raw layout payload from a stream.
func DecodeJSON(r io.Reader) (*RawDocument, error) {
	var raw RawDocument
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding layout document: %w", err)
	}
	return &raw, nil
}

// coercePoint accepts the two point shapes the decoder is known to emit, an
// object with x/y fields or an ordered pair, and resolves anything else to
// the origin.
func coercePoint(raw json.RawMessage) model.Point {
	if len(raw) == 0 {
		return model.Point{}
	}
	var pair []float64
	if err := json.Unmarshal(raw, &pair); err == nil && len(pair) >= 2 {
		return model.Point{X: pair[0], Y: pair[1]}
	}
	var obj struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return model.Point{X: obj.X, Y: obj.Y}
	}
	return model.Point{}
}

// coerceRect accepts a four-element array or a corner object and resolves
// anything else to the zero rect.
func coerceRect(raw json.RawMessage) model.BBox {
	if len(raw) == 0 {
		return model.BBox{}
	}
	var arr []float64
	if err := json.Unmarshal(raw, &arr); err == nil && len(arr) >= 4 {
		return model.NewBBox(arr[0], arr[1], arr[2], arr[3])
	}
	var obj struct {
		X0 float64 `json:"x0"`
		Y0 float64 `json:"y0"`
		X1 float64 `json:"x1"`
		Y1 float64 `json:"y1"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return model.NewBBox(obj.X0, obj.Y0, obj.X1, obj.Y1)
	}
	return model.BBox{}
}

// coerceRGB accepts a three-element channel array or an r/g/b object.
// Null, missing, and malformed values return nil so the caller can apply
// its own default.
func coerceRGB(raw json.RawMessage) *model.RGB {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var arr []float64
	if err := json.Unmarshal(raw, &arr); err == nil && len(arr) >= 3 {
		return &model.RGB{R: arr[0], G: arr[1], B: arr[2]}
	}
	var obj model.RGB
	if err := json.Unmarshal(raw, &obj); err == nil {
		return &obj
	}
	return nil
}

// reduceItems converts tagged tuples into model drawing items. Tuples with
// an unknown tag or too few elements are dropped silently.
func reduceItems(items []json.RawMessage) model.DrawingItems {
	reduced := make(model.DrawingItems, 0, len(items))
	for _, item := range items {
		var tuple []json.RawMessage
		if err := json.Unmarshal(item, &tuple); err != nil || len(tuple) == 0 {
			continue
		}
		var tag string
		if err := json.Unmarshal(tuple[0], &tag); err != nil {
			continue
		}
		switch tag {
		case "l":
			if len(tuple) < 3 {
				continue
			}
			reduced = append(reduced, model.LineItem{
				P1: coercePoint(tuple[1]),
				P2: coercePoint(tuple[2]),
			})
		case "re":
			if len(tuple) < 2 {
				continue
			}
			reduced = append(reduced, model.RectItem{Rect: coerceRect(tuple[1])})
		case "c":
			if len(tuple) < 5 {
				continue
			}
			reduced = append(reduced, model.CurveItem{
				P1: coercePoint(tuple[1]),
				P2: coercePoint(tuple[2]),
				P3: coercePoint(tuple[3]),
				P4: coercePoint(tuple[4]),
			})
		}
	}
	return reduced
}
