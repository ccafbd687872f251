// Package render turns a classified document into deliverables: an
// absolutely-positioned HTML rendition and a machine-readable JSON export.
//
// # Coordinate System
//
// Source geometry is in points (72 per inch); CSS positions are in pixels
// (96 per inch). Every coordinate in the HTML output is therefore the
// source value times 96/72. The one exception is the vector overlay: the
// svg element is sized in scaled pixels but its viewBox keeps the original
// point dimensions, so path coordinates pass through unconverted and the
// browser performs the scaling.
//
// # Output Shape
//
// Each page becomes one fixed-size container div. Text blocks are placed
// with left, top, and width only; height is left to the browser so text
// can reflow at its natural line height. Image blocks carry all four
// edges. Blocks whose text is empty, and image blocks whose payload was
// never persisted, are omitted.
//
// Rendering is deterministic: the same document produces byte-identical
// output.
package render
