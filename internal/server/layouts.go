package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lawnchairsociety/dungeongen/internal/database"
	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
	"github.com/lawnchairsociety/dungeongen/internal/export"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
)

// handleGenerate handles POST /api/layouts
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req := s.newRequest()

	if r.ContentLength != 0 {
		body := http.MaxBytesReader(w, r.Body, s.maxMessageSize())
		dec := json.NewDecoder(body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
	}

	out, err := s.generate(req, nil)
	if err != nil {
		s.respondGenerateError(w, err)
		return
	}

	status := http.StatusOK
	if out.ID != 0 {
		status = http.StatusCreated
	}
	respondJSON(w, status, out)
}

func (s *Server) respondGenerateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, database.ErrDuplicateName):
		respondError(w, http.StatusConflict, err.Error())
	case isClientError(err):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("Layout generation failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to generate layout")
	}
}

// handleListLayouts handles GET /api/layouts?limit=N
func (s *Server) handleListLayouts(w http.ResponseWriter, r *http.Request) {
	if !s.requireArchive(w) {
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	summaries, err := s.db.ListLayouts(limit)
	if err != nil {
		logger.Error("Failed to list layouts", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to list layouts")
		return
	}
	respondJSON(w, http.StatusOK, summaries)
}

// handleGetLayout handles GET /api/layouts/{id}
func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	id, layout, ok := s.loadLayout(w, r)
	if !ok {
		return
	}

	out := export.ToJSON(layout, nil)
	out.ID = id
	respondJSON(w, http.StatusOK, out)
}

// handleGetLayoutASCII handles GET /api/layouts/{id}/ascii?legend=false
func (s *Server) handleGetLayoutASCII(w http.ResponseWriter, r *http.Request) {
	_, layout, ok := s.loadLayout(w, r)
	if !ok {
		return
	}

	legend := s.cfg.Output.Legend
	if v := r.URL.Query().Get("legend"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid legend flag")
			return
		}
		legend = b
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(export.RenderASCII(layout, legend)))
}

// handleDeleteLayout handles DELETE /api/layouts/{id}
func (s *Server) handleDeleteLayout(w http.ResponseWriter, r *http.Request) {
	if !s.requireArchive(w) {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := s.db.DeleteLayout(id); err != nil {
		if errors.Is(err, database.ErrLayoutNotFound) {
			respondError(w, http.StatusNotFound, "Layout not found")
			return
		}
		logger.Error("Failed to delete layout", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to delete layout")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) loadLayout(w http.ResponseWriter, r *http.Request) (int64, *dungeon.Layout, bool) {
	if !s.requireArchive(w) {
		return 0, nil, false
	}
	id, ok := parseID(w, r)
	if !ok {
		return 0, nil, false
	}

	layout, err := s.db.LoadLayout(id)
	if err != nil {
		if errors.Is(err, database.ErrLayoutNotFound) {
			respondError(w, http.StatusNotFound, "Layout not found")
		} else {
			logger.Error("Failed to load layout", "id", id, "error", err)
			respondError(w, http.StatusInternalServerError, "Failed to load layout")
		}
		return 0, nil, false
	}
	return id, layout, true
}

func (s *Server) requireArchive(w http.ResponseWriter) bool {
	if s.db == nil {
		respondError(w, http.StatusServiceUnavailable, errArchiveDisabled.Error())
		return false
	}
	return true
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "Invalid layout id")
		return 0, false
	}
	return id, true
}

func (s *Server) maxMessageSize() int64 {
	if n := s.cfg.Server.WebSocket.MaxMessageSize; n > 0 {
		return n
	}
	return 16384
}
