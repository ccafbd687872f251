// Package ingest decodes raw layout payloads from the upstream document
// decoder and normalizes them into the model tree.
//
// The decoder boundary is JSON: one [RawDocument] per source document, with
// per-page dimensions, typed blocks (text blocks nest lines and spans, image
// blocks carry base64 payload bytes), and vector drawings whose items arrive
// as tagged tuples. Raw payloads are frequently partial; this package is the
// single place where missing or malformed fields resolve to defaults, so
// downstream code never defends against incomplete data.
//
// Coercion is deliberately forgiving: points accept object or ordered-pair
// shapes, rects accept four-element arrays or corner objects, and anything
// unrecognizable resolves to the zero value rather than failing. A malformed
// primitive degrades one value; it never aborts a document.
//
// Image payloads are persisted through a [Store] during normalization and
// replaced in the model by a reference path. A store failure is logged and
// leaves the block's Src empty; the block stays in the model and rendering
// skips it.
package ingest
