package model

import "encoding/json"

// Drawing is one vector path group on a page: a sequence of drawing items
// sharing stroke color, fill, and stroke width.
type Drawing struct {
	Items DrawingItems `json:"items"`
	Color RGB          `json:"color"` // stroke color, black when the decoder reported none
	Fill  *RGB         `json:"fill"`  // nil when absent
	Width float64      `json:"width"` // stroke width, defaults to 1
	Rect  BBox         `json:"rect"`  // bounding rect of the whole group
}

// DrawingItem is one primitive inside a drawing. The variant set is closed:
// LineItem, RectItem, and CurveItem are the only implementations.
type DrawingItem interface {
	// drawingItem restricts implementations to this package.
	drawingItem()
	// Kind returns the wire tag for the item: "l", "re", or "c".
	Kind() string
}

// LineItem is a straight segment from P1 to P2.
type LineItem struct {
	P1 Point
	P2 Point
}

func (LineItem) drawingItem() {}

func (LineItem) Kind() string { return "l" }

// RectItem is an axis-aligned rectangle.
type RectItem struct {
	Rect BBox
}

func (RectItem) drawingItem() {}

func (RectItem) Kind() string { return "re" }

// CurveItem is a cubic segment through four control points.
type CurveItem struct {
	P1 Point
	P2 Point
	P3 Point
	P4 Point
}

func (CurveItem) drawingItem() {}

func (CurveItem) Kind() string { return "c" }

// DrawingItems is a slice of drawing items with tagged-envelope JSON
// encoding, so the closed variant set survives serialization.
type DrawingItems []DrawingItem

// drawingItemJSON is the wire envelope for one item. Only the fields for the
// tagged kind are populated.
type drawingItemJSON struct {
	Kind string `json:"kind"`
	P1   *Point `json:"p1,omitempty"`
	P2   *Point `json:"p2,omitempty"`
	P3   *Point `json:"p3,omitempty"`
	P4   *Point `json:"p4,omitempty"`
	Rect *BBox  `json:"rect,omitempty"`
}

// MarshalJSON encodes each item as a tagged envelope.
func (items DrawingItems) MarshalJSON() ([]byte, error) {
	out := make([]drawingItemJSON, 0, len(items))
	for _, item := range items {
		switch it := item.(type) {
		case LineItem:
			p1, p2 := it.P1, it.P2
			out = append(out, drawingItemJSON{Kind: it.Kind(), P1: &p1, P2: &p2})
		case RectItem:
			r := it.Rect
			out = append(out, drawingItemJSON{Kind: it.Kind(), Rect: &r})
		case CurveItem:
			p1, p2, p3, p4 := it.P1, it.P2, it.P3, it.P4
			out = append(out, drawingItemJSON{Kind: it.Kind(), P1: &p1, P2: &p2, P3: &p3, P4: &p4})
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes tagged envelopes back into concrete items. Envelopes
// with an unrecognized kind are dropped silently.
func (items *DrawingItems) UnmarshalJSON(data []byte) error {
	var raw []drawingItemJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded := make(DrawingItems, 0, len(raw))
	for _, env := range raw {
		switch env.Kind {
		case "l":
			decoded = append(decoded, LineItem{P1: pointOrZero(env.P1), P2: pointOrZero(env.P2)})
		case "re":
			item := RectItem{}
			if env.Rect != nil {
				item.Rect = *env.Rect
			}
			decoded = append(decoded, item)
		case "c":
			decoded = append(decoded, CurveItem{
				P1: pointOrZero(env.P1),
				P2: pointOrZero(env.P2),
				P3: pointOrZero(env.P3),
				P4: pointOrZero(env.P4),
			})
		}
	}
	*items = decoded
	return nil
}

func pointOrZero(p *Point) Point {
	if p == nil {
		return Point{}
	}
	return *p
}
