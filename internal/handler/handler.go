// Package handler exposes the question bank over HTTP as a read-only
// mirror of the build artifacts. It serves data only; quiz presentation
// and session flow live outside this repository.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Falanzi121/prepdex/internal/model"
	"github.com/Falanzi121/prepdex/internal/store"
)

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store *store.Store
}

// New creates a new Handler.
func New(s *store.Store) *Handler {
	return &Handler{store: s}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthz", h.handleHealth)
	r.Get("/years", h.handleYears)
	r.Get("/years/{year}/questions", h.handleQuestions)
	r.Get("/years/{year}/key", h.handleKey)
	r.Get("/stats", h.handleStats)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleYears(w http.ResponseWriter, _ *http.Request) {
	years, err := h.store.ListYears()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if years == nil {
		years = []int{}
	}
	writeJSON(w, http.StatusOK, years)
}

// yearQuestions resolves the {year} route param to the year's questions.
// A write to w has already happened when ok is false.
func (h *Handler) yearQuestions(w http.ResponseWriter, r *http.Request) ([]model.Question, bool) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		http.Error(w, "invalid year", http.StatusBadRequest)
		return nil, false
	}
	questions, err := h.store.QuestionsForYear(year)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	if len(questions) == 0 {
		http.Error(w, "year not found", http.StatusNotFound)
		return nil, false
	}
	return questions, true
}

func (h *Handler) handleQuestions(w http.ResponseWriter, r *http.Request) {
	questions, ok := h.yearQuestions(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

// handleKey renders the answer key with the same formatting as the key
// files on disk, so the two outputs cannot drift.
func (h *Handler) handleKey(w http.ResponseWriter, r *http.Request) {
	questions, ok := h.yearQuestions(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(strings.Join(model.KeyLines(questions), "\n"))); err != nil {
		slog.Error("write response", "error", err)
	}
}

func (h *Handler) handleStats(w http.ResponseWriter, _ *http.Request) {
	stats, err := h.store.Stats()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if stats == nil {
		stats = []model.YearStats{}
	}
	writeJSON(w, http.StatusOK, stats)
}
