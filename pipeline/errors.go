package pipeline

import (
	"errors"
	"fmt"
)

// Sentinel causes for validation rejections.
var (
	ErrTooLarge     = errors.New("file too large")
	ErrTooManyPages = errors.New("too many pages")
	ErrCorrupt      = errors.New("invalid or corrupt document")
)

// ValidationError rejects a document before any parsing work begins. It is
// always fatal to the job. The wrapped error is one of the sentinel causes
// annotated with the offending value and the configured limit.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ProcessingError is an uncaught failure inside one pipeline phase. It is
// fatal to the job; the phase tells the operator how far the job got.
type ProcessingError struct {
	Step Step
	Err  error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}
