package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/tsawler/folio/classify"
	"github.com/tsawler/folio/ingest"
	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/render"
)

// Runner executes jobs. Each job runs its phases sequentially; distinct
// jobs run concurrently on their own goroutines.
type Runner struct {
	config Config

	// Components are initialized by New and may be swapped out before the
	// first submission.
	Decoder    ingest.Decoder
	Store      ingest.Store
	Classifier classify.Classifier
	Renderer   *render.Renderer

	tracker *Tracker
	wg      sync.WaitGroup
}

// New creates a Runner wired with the standard components: the JSON layout
// decoder, an image store beneath the configured static directory, the
// heuristic classifier, and the default renderer.
func New(config Config) *Runner {
	return &Runner{
		config:     config,
		Decoder:    ingest.JSONDecoder{},
		Store:      ingest.NewDirStore(config.StaticDir),
		Classifier: classify.New(),
		Renderer:   render.New(),
		tracker:    NewTracker(),
	}
}

// Tracker returns the job registry, for status polling.
func (r *Runner) Tracker() *Tracker {
	return r.tracker
}

// Submit registers a queued job and runs it on its own goroutine. Failures
// end up in the job record; the log line is for the operator.
func (r *Runner) Submit(id, uploadPath string) {
	r.tracker.Create(id)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := r.Run(context.Background(), id, uploadPath); err != nil {
			log.Printf("job %s failed: %v", id, err)
		}
	}()
}

// Wait blocks until every submitted job has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Run executes the four phases for one job and returns the error that
// failed it, if any. The job is registered if Submit did not already do so.
func (r *Runner) Run(ctx context.Context, id, uploadPath string) error {
	if _, ok := r.tracker.Get(id); !ok {
		r.tracker.Create(id)
	}

	if err := r.run(ctx, id, uploadPath); err != nil {
		r.tracker.Fail(id, err.Error())
		return err
	}

	r.tracker.Complete(id,
		fmt.Sprintf("/results/%s/html", id),
		fmt.Sprintf("/results/%s/json", id))
	return nil
}

func (r *Runner) run(ctx context.Context, id, uploadPath string) error {
	r.tracker.Advance(id, StepValidating)
	if err := r.config.Limits().Validate(uploadPath, r.Decoder); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return &ProcessingError{Step: StepValidating, Err: err}
	}

	r.tracker.Advance(id, StepParsing)
	raw, err := r.Decoder.Decode(uploadPath)
	if err != nil {
		return &ProcessingError{Step: StepParsing, Err: err}
	}
	doc := ingest.NewNormalizer(r.Store).Normalize(raw, id)

	r.tracker.Advance(id, StepAnalyzing)
	if err := r.Classifier.Classify(doc); err != nil {
		return &ProcessingError{Step: StepAnalyzing, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return &ProcessingError{Step: StepAnalyzing, Err: err}
	}

	r.tracker.Advance(id, StepGenerating)
	markup := r.Renderer.HTML(doc)
	export, err := r.Renderer.ExportJSON(doc)
	if err != nil {
		return &ProcessingError{Step: StepGenerating, Err: err}
	}
	if err := r.writeIntermediate(id, doc); err != nil {
		return &ProcessingError{Step: StepGenerating, Err: err}
	}
	if err := r.persistResults(id, markup, export); err != nil {
		return &ProcessingError{Step: StepGenerating, Err: err}
	}
	return nil
}

// writeIntermediate persists the classified page tree for inspection.
func (r *Runner) writeIntermediate(id string, doc *model.Document) error {
	data, err := json.MarshalIndent(doc.Pages, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(r.config.IntermediateDir(), 0o755); err != nil {
		return err
	}
	return os.WriteFile(r.config.IntermediatePath(id), data, 0o644)
}

// persistResults writes the markup and export into a staging directory and
// renames it into place, so the pair appears atomically or not at all.
func (r *Runner) persistResults(id, markup string, export []byte) error {
	resultsDir := r.config.ResultsDir()
	if err := os.MkdirAll(resultsDir, 0o755); err != nil {
		return err
	}

	staging, err := os.MkdirTemp(resultsDir, id+"-staging-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(staging) // gone already after a successful rename

	if err := os.WriteFile(filepath.Join(staging, "document.html"), []byte(markup), 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(staging, "export.json"), export, 0o644); err != nil {
		return err
	}
	return os.Rename(staging, r.config.ResultDir(id))
}
