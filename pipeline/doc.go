// Package pipeline sequences one submitted document through validation,
// parsing, classification, and rendering, and tracks each job's progress.
//
// # Lifecycle
//
// A job moves through queued, processing, and exactly one of completed or
// failed. While processing, the step field names the active phase:
// validating, parsing, analyzing, or generating. Transitions are monotonic;
// a terminal record never changes again and there is no retry.
//
// # Failure Semantics
//
// Validation failures and phase errors fail the job with a human-readable
// message and skip all remaining phases. Image persistence failures do
// not: they degrade single blocks during parsing and the job continues.
// The result pair (markup plus export) is written into a staging directory
// and moved into place with a single rename, so an interrupted process
// never leaves a partial pair where readers look for finished ones.
package pipeline
