// Package folio converts normalized PDF layout documents into semantic HTML.
//
// Basic usage:
//
//	result, err := folio.Open("layout.json").Convert()
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println(result.HTML)
//
// With options:
//
//	result, err := folio.Open("layout.json").
//	    JobID("report-2024").
//	    StaticDir("public").
//	    Convert()
//
// For finer-grained control the ingest, classify, and render packages are
// also available, and the pipeline package runs the same stages as an
// asynchronous job with validation and progress tracking.
package folio

import "io"

// Open prepares a Converter for the layout document at filename. The file
// is read when a terminal operation such as Convert or HTML runs.
//
// Example:
//
//	markup, err := folio.Open("layout.json").HTML()
func Open(filename string) *Converter {
	return &Converter{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromReader creates a Converter that decodes the layout document from r.
// The reader is consumed by the first terminal operation, so chains built
// from a reader support a single terminal call; use Convert to obtain the
// document, markup, and export together.
//
// Example:
//
//	result, err := folio.FromReader(resp.Body).Convert()
func FromReader(r io.Reader) *Converter {
	return &Converter{
		source:  r,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	markup := folio.Must(folio.Open("layout.json").HTML())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
