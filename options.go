package folio

import (
	"github.com/tsawler/folio/classify"
	"github.com/tsawler/folio/ingest"
	"github.com/tsawler/folio/render"
)

// ConvertOptions holds configuration for a conversion.
type ConvertOptions struct {
	// Artifact namespace for persisted images
	jobID string

	// Image persistence (DiscardStore keeps conversions in-memory)
	store ingest.Store

	// Stage tuning
	classify classify.Config
	render   render.Config
}

// defaultOptions returns the default conversion options.
func defaultOptions() ConvertOptions {
	return ConvertOptions{
		jobID:    "doc",
		store:    ingest.DiscardStore{},
		classify: classify.DefaultConfig(),
		render:   render.DefaultConfig(),
	}
}

// clone creates a deep copy of ConvertOptions.
func (o ConvertOptions) clone() ConvertOptions {
	newOpts := o

	// Deep copy the marker list; everything else is a value.
	if o.classify.ListMarkers != nil {
		newOpts.classify.ListMarkers = append([]string(nil), o.classify.ListMarkers...)
	}

	return newOpts
}
