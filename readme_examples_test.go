package folio_test

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/tsawler/folio"
	"github.com/tsawler/folio/classify"
	"github.com/tsawler/folio/ingest"
	"github.com/tsawler/folio/pipeline"
	"github.com/tsawler/folio/render"
)

// These examples verify the README code samples compile correctly.
// They are not meant to be run as actual tests since they require files.

func Example_quickStart() {
	result, err := folio.Open("layout.json").Convert()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(result.HTML)                          // rendered markup
	fmt.Println(string(result.Export))                // JSON export envelope
	fmt.Println(result.Document.PageCount(), "pages") // classified model
}

func Example_singleArtifacts() {
	markup, err := folio.Open("layout.json").HTML()
	_ = markup
	_ = err

	export, err := folio.Open("layout.json").Export()
	_ = export
	_ = err

	doc, err := folio.Open("layout.json").Document()
	_ = doc
	_ = err
}

func Example_fromReader() {
	body := strings.NewReader(`{"pages": []}`)

	result, err := folio.FromReader(body).Convert()
	_ = result
	_ = err
}

func Example_persistImages() {
	result, err := folio.Open("layout.json").
		JobID("report-2024"). // namespace inside the static dir
		StaticDir("public").  // images land under public/images/report-2024/
		Convert()
	_ = result
	_ = err
}

func Example_tuneClassification() {
	config := classify.DefaultConfig()
	config.TitleTopFraction = 0.35 // allow titles further down the page
	config.TableMinLines = 6       // demand more rows before calling it a table

	result, err := folio.Open("layout.json").
		ClassifyConfig(config).
		Convert()
	_ = result
	_ = err
}

func Example_renderOptions() {
	config := render.DefaultConfig()
	config.Stylesheet = "assets/folio.css" // stylesheet link target
	config.DefaultFontPt = 10              // fallback when a block has no spans

	markup, err := folio.Open("layout.json").
		RenderConfig(config).
		HTML()
	_ = markup
	_ = err
}

func Example_lowerLevelPackages() {
	file, err := os.Open("layout.json")
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()

	raw, err := ingest.DecodeJSON(file)
	if err != nil {
		log.Fatal(err)
	}

	doc := ingest.NewNormalizer(ingest.DiscardStore{}).Normalize(raw, "job1")

	if err := classify.New().Classify(doc); err != nil {
		log.Fatal(err)
	}

	markup := render.New().HTML(doc)
	export, err := render.New().ExportJSON(doc)
	_ = markup
	_ = export
	_ = err
}

func Example_embeddedPipeline() {
	runner := pipeline.New(pipeline.DefaultConfig())
	runner.Submit("job-1", "uploads/doc.json")

	job, ok := runner.Tracker().Get("job-1")
	_ = ok
	fmt.Println(job.Status, job.Step)
}

func Example_errorHandling() {
	// Panic on error (for scripts/tests)
	markup := folio.Must(folio.Open("layout.json").HTML())
	_ = markup
}

func Example_rejectionCauses() {
	runner := pipeline.New(pipeline.DefaultConfig())
	err := runner.Run(context.Background(), "job-1", "uploads/doc.json")
	switch {
	case errors.Is(err, pipeline.ErrTooManyPages):
		// page count over the admission limit
	case errors.Is(err, pipeline.ErrTooLarge):
		// byte size over the admission limit
	case errors.Is(err, pipeline.ErrCorrupt):
		// undecodable upload
	}
}
