// Package server exposes the conversion pipeline over HTTP: an upload
// endpoint that queues a job and returns its id, a status endpoint for
// polling, and download endpoints for the finished deliverables. Uploads
// are processed off the request path; the response to an upload is the job
// id, never the result. Shutdown stops accepting requests first and then
// drains running jobs, so no client ever observes a half-written result.
package server
