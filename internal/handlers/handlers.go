package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"studyplanner/internal/metrics"
	"studyplanner/internal/store"
)

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	store    *store.TaskStore
	recorder *metrics.Recorder
	logger   *log.Logger
}

// New creates a new Handlers instance.
func New(s *store.TaskStore, recorder *metrics.Recorder, logger *log.Logger) *Handlers {
	if logger == nil {
		logger = log.Default()
	}
	return &Handlers{
		store:    s,
		recorder: recorder,
		logger:   logger,
	}
}

// parseID extracts and parses an integer ID from URL parameters.
func parseID(r *http.Request, param string) (int, error) {
	idStr := chi.URLParam(r, param)
	return strconv.Atoi(idStr)
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data == nil {
		return
	}
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, errorResponse{Error: message})
}

// respondStoreError maps store errors onto status codes.
func (h *Handlers) respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "task not found")
	case errors.Is(err, store.ErrInvalidTask):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrPersistenceUnavailable):
		h.logger.Error("persistence unavailable", "err", err)
		respondError(w, http.StatusInternalServerError, "changes kept in memory but could not be saved")
	default:
		h.logger.Error("internal server error", "err", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
