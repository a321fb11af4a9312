package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ramalinga365/DevOps-Tool-Installer/internal/catalog"
	"github.com/ramalinga365/DevOps-Tool-Installer/internal/instructions"
)

type errorResponse struct {
	Error string `json:"error"`
}

type toolsResponse struct {
	Tools      []catalog.Tool `json:"tools"`
	Categories []string       `json:"categories"`
}

type instructionsResponse struct {
	Content string `json:"content"`
}

func (s *Server) respond(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.WithError(err).Warn("Failed to encode response")
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respond(w, status, errorResponse{Error: message})
}

// notModified sets the ETag for raw and reports whether the client copy is current.
func notModified(w http.ResponseWriter, r *http.Request, raw []byte) bool {
	etag := `"` + instructions.Digest(raw) + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	return false
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	c, err := s.catalog.Catalog()
	if err != nil {
		s.log.WithError(err).Warn("Failed to load catalog")
		s.respondError(w, http.StatusInternalServerError, "Failed to load catalog")
		return
	}
	s.respond(w, http.StatusOK, toolsResponse{
		Tools:      c.Filter(r.URL.Query().Get("category")),
		Categories: c.Categories(),
	})
}

func (s *Server) handleTool(w http.ResponseWriter, r *http.Request) {
	tool, ok := s.lookupTool(w, r.PathValue("id"))
	if !ok {
		return
	}
	s.respond(w, http.StatusOK, tool)
}

func (s *Server) handleInstructions(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	raw, err := s.loader.Raw(r.Context(), id)
	if err != nil {
		s.log.WithError(err).WithField("tool", id).Info("Instructions unavailable")
		s.respondError(w, http.StatusNotFound, "Failed to load instructions")
		return
	}
	if notModified(w, r, raw) {
		return
	}
	s.respond(w, http.StatusOK, instructionsResponse{Content: string(raw)})
}

func (s *Server) handleGuide(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := s.lookupTool(w, id); !ok {
		return
	}

	raw, err := s.loader.Raw(r.Context(), id)
	if err != nil {
		if errors.Is(err, instructions.ErrNotFound) || errors.Is(err, instructions.ErrInvalidID) {
			s.respondError(w, http.StatusNotFound, "Failed to load instructions")
			return
		}
		s.log.WithError(err).WithField("tool", id).Warn("Failed to read guide")
		s.respondError(w, http.StatusInternalServerError, "Failed to load instructions")
		return
	}
	if notModified(w, r, raw) {
		return
	}

	parsed, err := s.loader.Parse(id, raw)
	if err != nil {
		s.log.WithError(err).WithField("tool", id).Warn("Failed to parse guide")
		s.respondError(w, http.StatusInternalServerError, "Failed to parse instructions")
		return
	}
	s.respond(w, http.StatusOK, parsed)
}

func (s *Server) lookupTool(w http.ResponseWriter, id string) (catalog.Tool, bool) {
	tool, err := s.catalog.LoadByID(id)
	if err == nil {
		return tool, true
	}
	if errors.Is(err, catalog.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "Tool not found")
		return catalog.Tool{}, false
	}
	s.log.WithError(err).Warn("Failed to load catalog")
	s.respondError(w, http.StatusInternalServerError, "Failed to load catalog")
	return catalog.Tool{}, false
}
