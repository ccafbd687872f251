package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/tsawler/folio/pipeline"
)

// Server serves the upload, status, and result endpoints for one Runner.
type Server struct {
	config pipeline.Config
	runner *pipeline.Runner
	http   *http.Server
}

// New creates a Server for the given configuration and runner.
func New(config pipeline.Config, runner *pipeline.Runner) *Server {
	s := &Server{config: config, runner: runner}
	s.http = &http.Server{
		Addr:              config.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler builds the route table. It is exported so tests can drive the
// server through net/http/httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("GET /status/{id}", s.handleStatus)
	mux.HandleFunc("GET /intermediate/{id}", s.handleIntermediate)
	mux.HandleFunc("GET /results/{id}/html", s.handleResultHTML)
	mux.HandleFunc("GET /results/{id}/json", s.handleResultJSON)

	mux.HandleFunc("GET /static/css/folio.css", s.handleStylesheet)
	images := http.FileServer(http.Dir(filepath.Join(s.config.StaticDir, "images")))
	mux.Handle("GET /static/images/", http.StripPrefix("/static/images/", images))

	return mux
}

// ListenAndServe creates the artifact directories and serves until
// Shutdown. A clean shutdown returns nil.
func (s *Server) ListenAndServe() error {
	if err := s.config.EnsureDirs(); err != nil {
		return err
	}
	log.Printf("listening on %s", s.config.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight requests up to the
// context deadline, then drains running jobs.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.http.Shutdown(ctx); err != nil {
		return err
	}
	s.runner.Wait()
	return nil
}
