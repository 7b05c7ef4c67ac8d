package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lehigh-university-libraries/letterbox/internal/models"
	"github.com/lehigh-university-libraries/letterbox/internal/storage"
	"github.com/lehigh-university-libraries/letterbox/internal/ui"
)

type Handler struct {
	store  *storage.ResultStore
	render func(w io.Writer, title string, res models.Results) error
}

func New(store *storage.ResultStore) *Handler {
	return &Handler{store: store, render: ui.RenderHTML}
}

// Routes mounts the preview endpoints
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", h.HandleIndex)
	r.Get("/results/{id}", h.HandleResultPage)
	r.Get("/api/results", h.HandleResultList)
	r.Get("/api/results/{id}", h.HandleResultDetail)
	r.Delete("/api/results/{id}", h.HandleResultDelete)
	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
	return r
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

func (h *Handler) getSetOrError(w http.ResponseWriter, id string) (*storage.ResultSet, bool) {
	set, exists := h.store.Get(id)
	if !exists {
		h.writeError(w, "Result set not found", http.StatusNotFound)
		return nil, false
	}
	return set, true
}
