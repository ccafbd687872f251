package server

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/tsawler/folio/render"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, indexPage)
}

func (s *Server) handleStylesheet(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	io.WriteString(w, render.Stylesheet)
}

// uploadResponse acknowledges a queued job; results come later via polling.
type uploadResponse struct {
	TaskID   string `json:"task_id"`
	Status   string `json:"status"`
	Filename string `json:"filename"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	// The ceiling gets a little slack for multipart framing; the byte
	// limit proper is enforced again during validation.
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxBytes+1<<20)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.jsonError(w, http.StatusBadRequest, "file too large or invalid form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.jsonError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	if filepath.Ext(header.Filename) != ".json" {
		s.jsonError(w, http.StatusBadRequest, "invalid file type: only JSON layout documents are accepted")
		return
	}

	id := uuid.NewString()
	if err := os.MkdirAll(s.config.UploadDir(), 0o755); err != nil {
		log.Printf("creating upload dir: %v", err)
		s.jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	path := s.config.UploadPath(id)
	dst, err := os.Create(path)
	if err != nil {
		log.Printf("creating upload file: %v", err)
		s.jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		log.Printf("writing upload: %v", err)
		s.jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.runner.Submit(id, path)

	s.respondJSON(w, http.StatusOK, uploadResponse{
		TaskID:   id,
		Status:   "queued",
		Filename: header.Filename,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	job, ok := s.runner.Tracker().Get(r.PathValue("id"))
	if !ok {
		s.respondJSON(w, http.StatusOK, map[string]string{"status": "not_found"})
		return
	}
	s.respondJSON(w, http.StatusOK, job)
}

func (s *Server) handleIntermediate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !validID(id) {
		s.jsonError(w, http.StatusNotFound, "Result not found")
		return
	}
	data, err := os.ReadFile(s.config.IntermediatePath(id))
	if err != nil {
		s.jsonError(w, http.StatusNotFound, "Result not found")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handleResultHTML(w http.ResponseWriter, r *http.Request) {
	s.serveResult(w, r, s.config.ResultHTMLPath(r.PathValue("id")), "HTML result not found")
}

func (s *Server) handleResultJSON(w http.ResponseWriter, r *http.Request) {
	s.serveResult(w, r, s.config.ResultJSONPath(r.PathValue("id")), "JSON result not found")
}

func (s *Server) serveResult(w http.ResponseWriter, r *http.Request, path, missing string) {
	if !validID(r.PathValue("id")) {
		s.jsonError(w, http.StatusNotFound, missing)
		return
	}
	if _, err := os.Stat(path); err != nil {
		s.jsonError(w, http.StatusNotFound, missing)
		return
	}
	http.ServeFile(w, r, path)
}

// validID accepts the ids this service hands out. Anything else cannot
// name an artifact path.
func validID(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
		default:
			return false
		}
	}
	return true
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encoding response: %v", err)
	}
}

func (s *Server) jsonError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
