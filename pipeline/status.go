package pipeline

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Status is a job's coarse lifecycle state.
type Status int

const (
	StatusQueued Status = iota
	StatusProcessing
	StatusCompleted
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusProcessing:
		return "processing"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return "queued"
	}
}

// MarshalJSON encodes the status as its string form.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes the string form.
func (s *Status) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "queued":
		*s = StatusQueued
	case "processing":
		*s = StatusProcessing
	case "completed":
		*s = StatusCompleted
	case "failed":
		*s = StatusFailed
	default:
		return fmt.Errorf("unknown status %q", str)
	}
	return nil
}

// Step is the active phase within a processing job. The zero value means no
// phase has started (or, for a failed job, that the step is no longer
// meaningful) and is omitted from JSON.
type Step int

const (
	StepNone Step = iota
	StepValidating
	StepParsing
	StepAnalyzing
	StepGenerating
	StepDone
)

func (p Step) String() string {
	switch p {
	case StepValidating:
		return "validating"
	case StepParsing:
		return "parsing"
	case StepAnalyzing:
		return "analyzing"
	case StepGenerating:
		return "generating"
	case StepDone:
		return "done"
	default:
		return ""
	}
}

// MarshalJSON encodes the step as its string form.
func (p Step) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes the string form.
func (p *Step) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "":
		*p = StepNone
	case "validating":
		*p = StepValidating
	case "parsing":
		*p = StepParsing
	case "analyzing":
		*p = StepAnalyzing
	case "generating":
		*p = StepGenerating
	case "done":
		*p = StepDone
	default:
		return fmt.Errorf("unknown step %q", str)
	}
	return nil
}

// Job is the progress record for one submitted document. Completed jobs
// carry the two result locators; failed jobs carry a message instead.
type Job struct {
	ID         string `json:"-"`
	Status     Status `json:"status"`
	Step       Step   `json:"step,omitempty"`
	Error      string `json:"error,omitempty"`
	ResultHTML string `json:"result_html,omitempty"`
	ResultJSON string `json:"result_json,omitempty"`
}

// Terminal reports whether the job has finished, successfully or not.
func (j Job) Terminal() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}

// Tracker is a concurrency-safe job registry. Each job's record is mutated
// by its own worker goroutine and read by status pollers, so every access
// goes through the lock and Get hands out copies.
type Tracker struct {
	mu   sync.RWMutex
	jobs map[string]Job
}

// NewTracker creates an empty registry.
func NewTracker() *Tracker {
	return &Tracker{jobs: make(map[string]Job)}
}

// Create registers a new queued job, replacing any previous record under
// the same id.
func (t *Tracker) Create(id string) Job {
	t.mu.Lock()
	defer t.mu.Unlock()
	job := Job{ID: id, Status: StatusQueued}
	t.jobs[id] = job
	return job
}

// Get returns a copy of the job's record.
func (t *Tracker) Get(id string) (Job, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	job, ok := t.jobs[id]
	return job, ok
}

// Advance moves the job into the given processing step. Transitions are
// monotonic: unknown ids, terminal jobs, and steps at or before the current
// one are ignored.
func (t *Tracker) Advance(id string, step Step) {
	t.mu.Lock()
	defer t.mu.Unlock()
	job, ok := t.jobs[id]
	if !ok || job.Terminal() || step <= job.Step {
		return
	}
	job.Status = StatusProcessing
	job.Step = step
	t.jobs[id] = job
}

// Complete marks the job done and records where its results live. Terminal
// jobs are not revisited.
func (t *Tracker) Complete(id, htmlLocation, jsonLocation string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	job, ok := t.jobs[id]
	if !ok || job.Terminal() {
		return
	}
	job.Status = StatusCompleted
	job.Step = StepDone
	job.Error = ""
	job.ResultHTML = htmlLocation
	job.ResultJSON = jsonLocation
	t.jobs[id] = job
}

// Fail marks the job failed with a human-readable message. The step is
// cleared and no result locators are set. Terminal jobs are not revisited.
func (t *Tracker) Fail(id, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	job, ok := t.jobs[id]
	if !ok || job.Terminal() {
		return
	}
	job.Status = StatusFailed
	job.Step = StepNone
	job.Error = message
	job.ResultHTML = ""
	job.ResultJSON = ""
	t.jobs[id] = job
}
