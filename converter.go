package folio

import (
	"fmt"
	"io"
	"os"

	"github.com/tsawler/folio/classify"
	"github.com/tsawler/folio/ingest"
	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/render"
)

// Result bundles everything a conversion produces.
type Result struct {
	// Document is the normalized, classified layout model.
	Document *model.Document

	// HTML is the rendered markup.
	HTML string

	// Export is the JSON export envelope.
	Export []byte
}

// Converter provides a fluent interface for converting layout documents.
// Each configuration method returns a new Converter instance, making it
// safe for concurrent use and allowing method chaining.
type Converter struct {
	// Source (exactly one is set)
	filename string
	source   io.Reader

	// Configuration
	options ConvertOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Converter with a deep copy of options.
// This ensures immutability - each chain method returns a new instance.
func (c *Converter) clone() *Converter {
	return &Converter{
		filename: c.filename,
		source:   c.source,
		options:  c.options.clone(),
		err:      c.err,
	}
}

// ============================================================================
// Configuration Methods (return new Converter instance)
// ============================================================================

// JobID names the artifact namespace persisted images are filed under.
// The default is "doc".
//
// Example:
//
//	result, err := folio.Open("layout.json").JobID("report-2024").Convert()
func (c *Converter) JobID(id string) *Converter {
	newConv := c.clone()
	if id == "" {
		newConv.err = fmt.Errorf("job id must not be empty")
		return newConv
	}
	newConv.options.jobID = id
	return newConv
}

// StaticDir persists extracted images beneath dir, one directory per job,
// and points rendered <img> tags at them under /static. Without it image
// payloads are dropped and rendering skips those blocks.
//
// Example:
//
//	result, err := folio.Open("layout.json").StaticDir("public").Convert()
func (c *Converter) StaticDir(dir string) *Converter {
	newConv := c.clone()
	newConv.options.store = ingest.NewDirStore(dir)
	return newConv
}

// Store supplies a custom image store. It overrides StaticDir.
func (c *Converter) Store(store ingest.Store) *Converter {
	newConv := c.clone()
	if store == nil {
		store = ingest.DiscardStore{}
	}
	newConv.options.store = store
	return newConv
}

// ClassifyConfig replaces the classification thresholds.
func (c *Converter) ClassifyConfig(config classify.Config) *Converter {
	newConv := c.clone()
	newConv.options.classify = config
	return newConv
}

// RenderConfig replaces the rendering configuration.
func (c *Converter) RenderConfig(config render.Config) *Converter {
	newConv := c.clone()
	newConv.options.render = config
	return newConv
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Document runs ingestion and classification and returns the layout model.
func (c *Converter) Document() (*model.Document, error) {
	raw, err := c.load()
	if err != nil {
		return nil, err
	}
	doc := ingest.NewNormalizer(c.options.store).Normalize(raw, c.options.jobID)
	if err := classify.NewWithConfig(c.options.classify).Classify(doc); err != nil {
		return nil, fmt.Errorf("classifying document: %w", err)
	}
	return doc, nil
}

// HTML runs the full conversion and returns the rendered markup.
func (c *Converter) HTML() (string, error) {
	doc, err := c.Document()
	if err != nil {
		return "", err
	}
	return render.NewWithConfig(c.options.render).HTML(doc), nil
}

// Export runs the full conversion and returns the JSON export envelope.
func (c *Converter) Export() ([]byte, error) {
	doc, err := c.Document()
	if err != nil {
		return nil, err
	}
	return render.NewWithConfig(c.options.render).ExportJSON(doc)
}

// Convert runs the full conversion once and returns the document, markup,
// and export together. Prefer it over separate HTML and Export calls when
// the source is a reader, which can only be decoded once.
func (c *Converter) Convert() (*Result, error) {
	doc, err := c.Document()
	if err != nil {
		return nil, err
	}
	renderer := render.NewWithConfig(c.options.render)
	export, err := renderer.ExportJSON(doc)
	if err != nil {
		return nil, err
	}
	return &Result{
		Document: doc,
		HTML:     renderer.HTML(doc),
		Export:   export,
	}, nil
}

// load decodes the configured source into a raw layout document.
func (c *Converter) load() (*ingest.RawDocument, error) {
	if c.err != nil {
		return nil, c.err
	}

	switch {
	case c.source != nil:
		return ingest.DecodeJSON(c.source)

	case c.filename != "":
		f, err := os.Open(c.filename)
		if err != nil {
			return nil, fmt.Errorf("opening layout document: %w", err)
		}
		defer f.Close()
		return ingest.DecodeJSON(f)

	default:
		return nil, fmt.Errorf("no input specified")
	}
}
