// Package model provides the normalized layout representation for document
// content.
//
// This package defines the data structures produced by layout ingestion and
// consumed by classification and rendering. Every field is present and typed
// after normalization, so downstream code never checks for missing geometry
// or missing child sequences.
//
// # Document Structure
//
// The [Document] type holds the ordered pages of one source document:
//
//	doc := model.NewDocument()
//	doc.AddPage(page)
//
// Each [Page] carries its dimensions in points, the ordered [Block] list, and
// the ordered [Drawing] list for vector content.
//
// # Blocks
//
// A [Block] is either text or image, reported by [BlockKind]. Text blocks
// hold [Line] and [Span] children; image blocks hold an [ImageInfo]. The
// classification pass assigns [Label] and [SemanticType] to every block
// exactly once, before rendering.
//
// # Drawings
//
// Vector content is a sequence of [Drawing] values, each reducing to
// [DrawingItem] variants: [LineItem], [RectItem], and [CurveItem]. The
// variant set is closed; decoding drops unrecognized item kinds silently.
//
// # Geometry
//
// [BBox] is a corner-form rectangle (x0,y0,x1,y1) in the source document's
// point units. [Point] is a plain 2D point. The fixed scale factor 96/72
// that converts points to pixel space belongs to the rendering layer, not to
// this package.
//
// The whole tree round-trips losslessly through encoding/json.
package model
