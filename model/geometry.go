package model

// Point represents a 2D point in page coordinates
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BBox represents a bounding box in corner form. The origin is the top-left
// of the page, so Y0 is the top edge and Y1 the bottom edge.
type BBox struct {
	X0 float64 `json:"x0"` // Left
	Y0 float64 `json:"y0"` // Top
	X1 float64 `json:"x1"` // Right
	Y1 float64 `json:"y1"` // Bottom
}

// NewBBox creates a bounding box from corner coordinates
func NewBBox(x0, y0, x1, y1 float64) BBox {
	return BBox{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// Width returns the horizontal extent
func (b BBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the vertical extent
func (b BBox) Height() float64 {
	return b.Y1 - b.Y0
}

// CenterX returns the horizontal center coordinate
func (b BBox) CenterX() float64 {
	return (b.X0 + b.X1) / 2
}

// CenterY returns the vertical center coordinate
func (b BBox) CenterY() float64 {
	return (b.Y0 + b.Y1) / 2
}

// IsZero returns true if all four corners are at the origin, the value used
// when the upstream decoder supplied no usable geometry
func (b BBox) IsZero() bool {
	return b.X0 == 0 && b.Y0 == 0 && b.X1 == 0 && b.Y1 == 0
}

// RGB represents a stroke or fill color with channels in the 0..1 range
type RGB struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// Black is the default stroke color applied when a drawing carries none.
var Black = RGB{0, 0, 0}
