package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/tsawler/folio/ingest"
	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/render"
)

func testDecoder() ingest.Decoder {
	return ingest.JSONDecoder{}
}

// ============================================================================
// Status & Tracker Tests
// ============================================================================

func TestJobJSONShapes(t *testing.T) {
	tests := []struct {
		name string
		job  Job
		want string
	}{
		{
			"queued",
			Job{ID: "x", Status: StatusQueued},
			`{"status":"queued"}`,
		},
		{
			"processing",
			Job{ID: "x", Status: StatusProcessing, Step: StepParsing},
			`{"status":"processing","step":"parsing"}`,
		},
		{
			"completed",
			Job{ID: "x", Status: StatusCompleted, Step: StepDone,
				ResultHTML: "/results/x/html", ResultJSON: "/results/x/json"},
			`{"status":"completed","step":"done","result_html":"/results/x/html","result_json":"/results/x/json"}`,
		},
		{
			"failed",
			Job{ID: "x", Status: StatusFailed, Error: "boom"},
			`{"status":"failed","error":"boom"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.job)
			if err != nil {
				t.Fatalf("marshal error = %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("got  %s\nwant %s", data, tt.want)
			}
		})
	}
}

func TestTrackerLifecycle(t *testing.T) {
	tracker := NewTracker()
	tracker.Create("job1")

	job, ok := tracker.Get("job1")
	if !ok || job.Status != StatusQueued {
		t.Fatalf("after Create: %+v, %v", job, ok)
	}

	tracker.Advance("job1", StepValidating)
	tracker.Advance("job1", StepParsing)
	job, _ = tracker.Get("job1")
	if job.Status != StatusProcessing || job.Step != StepParsing {
		t.Errorf("after Advance: %+v", job)
	}

	tracker.Complete("job1", "/results/job1/html", "/results/job1/json")
	job, _ = tracker.Get("job1")
	if job.Status != StatusCompleted || job.Step != StepDone {
		t.Errorf("after Complete: %+v", job)
	}
	if job.ResultHTML == "" || job.ResultJSON == "" {
		t.Error("completed job should carry both result locators")
	}
}

func TestTrackerMonotonic(t *testing.T) {
	tracker := NewTracker()
	tracker.Create("job1")

	tracker.Advance("job1", StepGenerating)
	tracker.Advance("job1", StepValidating) // regression, ignored
	job, _ := tracker.Get("job1")
	if job.Step != StepGenerating {
		t.Errorf("step regressed to %s", job.Step)
	}

	tracker.Fail("job1", "boom")
	tracker.Advance("job1", StepValidating)
	tracker.Complete("job1", "h", "j")
	job, _ = tracker.Get("job1")
	if job.Status != StatusFailed || job.Error != "boom" {
		t.Errorf("terminal job was revisited: %+v", job)
	}
	if job.ResultHTML != "" || job.ResultJSON != "" {
		t.Error("failed job must not carry result locators")
	}
	if job.Step != StepNone {
		t.Errorf("failed job step = %s, want none", job.Step)
	}
}

func TestTrackerGetReturnsCopy(t *testing.T) {
	tracker := NewTracker()
	tracker.Create("job1")

	job, _ := tracker.Get("job1")
	job.Status = StatusFailed
	job.Error = "mutated"

	fresh, _ := tracker.Get("job1")
	if fresh.Status != StatusQueued || fresh.Error != "" {
		t.Errorf("mutating a Get result leaked into the registry: %+v", fresh)
	}
}

func TestTrackerUnknownID(t *testing.T) {
	tracker := NewTracker()

	if _, ok := tracker.Get("ghost"); ok {
		t.Error("Get on unknown id reported ok")
	}
	tracker.Advance("ghost", StepParsing)
	tracker.Fail("ghost", "boom")
	tracker.Complete("ghost", "h", "j")
	if _, ok := tracker.Get("ghost"); ok {
		t.Error("mutators must not create records for unknown ids")
	}
}

func TestTrackerConcurrentAccess(t *testing.T) {
	tracker := NewTracker()
	tracker.Create("job1")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for step := StepValidating; step <= StepGenerating; step++ {
				tracker.Advance("job1", step)
				tracker.Get("job1")
			}
		}()
	}
	wg.Wait()

	job, _ := tracker.Get("job1")
	if job.Status != StatusProcessing || job.Step != StepGenerating {
		t.Errorf("after concurrent advances: %+v", job)
	}
}

// ============================================================================
// Validation Tests
// ============================================================================

// layoutJSON builds an upload payload with n minimal pages.
func layoutJSON(n int) string {
	pages := make([]string, n)
	for i := range pages {
		pages[i] = `{"width":612,"height":792,"blocks":[],"drawings":[]}`
	}
	return `{"pages":[` + strings.Join(pages, ",") + `]}`
}

func writeUpload(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidatePageCeiling(t *testing.T) {
	dir := t.TempDir()
	path := writeUpload(t, dir, "doc.json", layoutJSON(51))

	limits := DefaultLimits()
	err := limits.Validate(path, testDecoder())
	if err == nil {
		t.Fatal("expected rejection for 51 pages")
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
	if !errors.Is(err, ErrTooManyPages) {
		t.Error("cause should be ErrTooManyPages")
	}
	// The message must name both the offending value and the ceiling.
	if msg := err.Error(); !strings.Contains(msg, "51") || !strings.Contains(msg, "50") {
		t.Errorf("message %q should contain the page count and the limit", msg)
	}
}

func TestValidateSizeCeiling(t *testing.T) {
	dir := t.TempDir()
	path := writeUpload(t, dir, "doc.json", layoutJSON(1))

	limits := Limits{MaxPages: 50, MaxBytes: 10}
	err := limits.Validate(path, testDecoder())
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("error = %v, want ErrTooLarge", err)
	}
	if msg := err.Error(); !strings.Contains(msg, "limit 10") {
		t.Errorf("message %q should contain the configured limit", msg)
	}
}

func TestValidateCorrupt(t *testing.T) {
	dir := t.TempDir()

	t.Run("undecodable", func(t *testing.T) {
		path := writeUpload(t, dir, "bad.json", "not a layout")
		err := DefaultLimits().Validate(path, testDecoder())
		if !errors.Is(err, ErrCorrupt) {
			t.Fatalf("error = %v, want ErrCorrupt", err)
		}
		if !strings.Contains(err.Error(), "invalid or corrupt document") {
			t.Errorf("message %q should say invalid or corrupt", err.Error())
		}
	})

	t.Run("missing file", func(t *testing.T) {
		err := DefaultLimits().Validate(filepath.Join(dir, "absent.json"), testDecoder())
		if !errors.Is(err, ErrCorrupt) {
			t.Fatalf("error = %v, want ErrCorrupt", err)
		}
	})
}

func TestValidateAccepts(t *testing.T) {
	dir := t.TempDir()
	path := writeUpload(t, dir, "doc.json", layoutJSON(50))

	if err := DefaultLimits().Validate(path, testDecoder()); err != nil {
		t.Errorf("50 pages should pass: %v", err)
	}
}

// ============================================================================
// Runner Tests
// ============================================================================

const runnerUpload = `{"pages":[{"width":612,"height":792,"blocks":[
  {"type":0,"number":0,"bbox":[150,50,462,90],"lines":[{"bbox":[150,50,462,90],"wmode":0,"dir":[1,0],"spans":[{"text":"Annual Report","bbox":[150,50,462,90],"size":24,"font":"Helvetica-Bold","color":0,"flags":0,"origin":[150,85]}]}]},
  {"type":0,"number":1,"bbox":[72,160,540,260],"lines":[{"spans":[{"text":"Body copy.","size":12}]}]}
],"drawings":[{"items":[["re",[72,700,540,720]]],"color":[0,0,0],"width":1,"rect":[72,700,540,720]}]}]}`

func testConfig(t *testing.T) Config {
	t.Helper()
	root := t.TempDir()
	config := DefaultConfig()
	config.DataDir = filepath.Join(root, "data")
	config.StaticDir = filepath.Join(root, "static")
	if err := config.EnsureDirs(); err != nil {
		t.Fatal(err)
	}
	return config
}

func TestRunnerCompletes(t *testing.T) {
	config := testConfig(t)
	runner := New(config)

	path := writeUpload(t, config.UploadDir(), "job1.json", runnerUpload)
	if err := runner.Run(context.Background(), "job1", path); err != nil {
		t.Fatalf("Run error = %v", err)
	}

	job, ok := runner.Tracker().Get("job1")
	if !ok || job.Status != StatusCompleted || job.Step != StepDone {
		t.Fatalf("job record = %+v", job)
	}
	if job.ResultHTML != "/results/job1/html" || job.ResultJSON != "/results/job1/json" {
		t.Errorf("locators = %q, %q", job.ResultHTML, job.ResultJSON)
	}

	markup, err := os.ReadFile(config.ResultHTMLPath("job1"))
	if err != nil {
		t.Fatalf("reading markup: %v", err)
	}
	if !strings.Contains(string(markup), `class="pdf-page"`) {
		t.Error("markup missing page container")
	}
	if !strings.Contains(string(markup), "<h1>Annual Report</h1>") {
		t.Error("title should classify as h1 and render as one")
	}

	exportData, err := os.ReadFile(config.ResultJSONPath("job1"))
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	var export render.Export
	if err := json.Unmarshal(exportData, &export); err != nil {
		t.Fatalf("decoding export: %v", err)
	}
	if export.Meta.Version != "1.0" {
		t.Errorf("export version = %q", export.Meta.Version)
	}
	if len(export.Pages) != 1 || export.Pages[0].Blocks[0].Label != model.LabelHeading {
		t.Error("export should carry classified blocks")
	}

	interData, err := os.ReadFile(config.IntermediatePath("job1"))
	if err != nil {
		t.Fatalf("reading intermediate: %v", err)
	}
	var pages []*model.Page
	if err := json.Unmarshal(interData, &pages); err != nil {
		t.Fatalf("decoding intermediate: %v", err)
	}
	if len(pages) != 1 || pages[0].Blocks[1].Semantic != model.SemanticP {
		t.Error("intermediate should carry the classified page tree")
	}
}

func TestRunnerResultPairAtomic(t *testing.T) {
	config := testConfig(t)
	runner := New(config)

	path := writeUpload(t, config.UploadDir(), "job1.json", runnerUpload)
	if err := runner.Run(context.Background(), "job1", path); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(config.ResultsDir())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "job1" {
		t.Fatalf("results dir should hold exactly the job directory, got %v", entries)
	}

	files, err := os.ReadDir(config.ResultDir("job1"))
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name()
	}
	if len(names) != 2 || names[0] != "document.html" || names[1] != "export.json" {
		t.Errorf("result pair = %v", names)
	}
}

func TestRunnerValidationFailure(t *testing.T) {
	config := testConfig(t)
	runner := New(config)

	path := writeUpload(t, config.UploadDir(), "job1.json", layoutJSON(51))
	err := runner.Run(context.Background(), "job1", path)
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if !errors.Is(err, ErrTooManyPages) {
		t.Errorf("error = %v, want ErrTooManyPages", err)
	}

	job, _ := runner.Tracker().Get("job1")
	if job.Status != StatusFailed {
		t.Fatalf("status = %s, want failed", job.Status)
	}
	if !strings.Contains(job.Error, "page count 51 exceeds limit 50") {
		t.Errorf("job error = %q", job.Error)
	}
	if job.ResultHTML != "" || job.ResultJSON != "" {
		t.Error("failed job must not carry result locators")
	}
	if _, err := os.Stat(config.ResultDir("job1")); !os.IsNotExist(err) {
		t.Error("no result directory should exist after a validation failure")
	}
}

func TestRunnerCorruptUpload(t *testing.T) {
	config := testConfig(t)
	runner := New(config)

	path := writeUpload(t, config.UploadDir(), "job1.json", "garbage")
	if err := runner.Run(context.Background(), "job1", path); err == nil {
		t.Fatal("expected failure for corrupt upload")
	}

	job, _ := runner.Tracker().Get("job1")
	if !strings.Contains(job.Error, "invalid or corrupt document") {
		t.Errorf("job error = %q", job.Error)
	}
}

func TestRunnerSubmitAndWait(t *testing.T) {
	config := testConfig(t)
	runner := New(config)

	path := writeUpload(t, config.UploadDir(), "job1.json", runnerUpload)
	runner.Submit("job1", path)

	// Submission is visible immediately, even before the worker runs.
	if _, ok := runner.Tracker().Get("job1"); !ok {
		t.Fatal("submitted job not registered")
	}

	runner.Wait()
	job, _ := runner.Tracker().Get("job1")
	if job.Status != StatusCompleted {
		t.Errorf("after Wait: %+v", job)
	}
}

func TestRunnerCanceledContext(t *testing.T) {
	config := testConfig(t)
	runner := New(config)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := writeUpload(t, config.UploadDir(), "job1.json", runnerUpload)
	if err := runner.Run(ctx, "job1", path); err == nil {
		t.Fatal("expected failure under a canceled context")
	}

	job, _ := runner.Tracker().Get("job1")
	if job.Status != StatusFailed || !strings.Contains(job.Error, "context canceled") {
		t.Errorf("job record = %+v", job)
	}
}

// ============================================================================
// Config Tests
// ============================================================================

func TestLoadConfigPartial(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "folio.yaml")
	if err := os.WriteFile(path, []byte("max_pages: 7\naddr: \":9001\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error = %v", err)
	}
	if config.MaxPages != 7 || config.Addr != ":9001" {
		t.Errorf("overridden fields = %d, %q", config.MaxPages, config.Addr)
	}
	if config.DataDir != "data" || config.MaxBytes != 100<<20 {
		t.Errorf("unnamed fields should keep defaults: %+v", config)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestConfigPaths(t *testing.T) {
	config := DefaultConfig()

	if got, want := config.UploadPath("j"), filepath.Join("data", "uploads", "j.json"); got != want {
		t.Errorf("UploadPath = %q, want %q", got, want)
	}
	if got, want := config.ResultHTMLPath("j"), filepath.Join("data", "results", "j", "document.html"); got != want {
		t.Errorf("ResultHTMLPath = %q, want %q", got, want)
	}
}

func TestProcessingErrorMessage(t *testing.T) {
	err := &ProcessingError{Step: StepParsing, Err: fmt.Errorf("bad page")}
	if err.Error() != "parsing: bad page" {
		t.Errorf("message = %q", err.Error())
	}
	if !errors.Is(err, err.Err) {
		t.Error("ProcessingError should unwrap to its cause")
	}
}
