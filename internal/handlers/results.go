package handlers

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lehigh-university-libraries/letterbox/internal/upload"
)

func (h *Handler) HandleResultList(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.store.GetAll())
}

// HandleResultDetail returns a set in the versioned response envelope
func (h *Handler) HandleResultDetail(w http.ResponseWriter, r *http.Request) {
	set, ok := h.getSetOrError(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	env, err := upload.NewEnvelope(set.Results)
	if err != nil {
		h.writeError(w, "Unable to encode results: "+err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, env)
}

func (h *Handler) HandleResultDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.getSetOrError(w, id); !ok {
		return
	}
	h.store.Delete(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleResultPage(w http.ResponseWriter, r *http.Request) {
	set, ok := h.getSetOrError(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.render(&buf, "Upload results: "+set.Source, set.Results); err != nil {
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Unable to write results page", "err", err)
	}
}
