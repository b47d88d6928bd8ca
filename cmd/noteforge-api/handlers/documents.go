package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/noteforge/noteforge/internal/domain"
	"github.com/noteforge/noteforge/internal/observability"
)

// Pipeline is the orchestration surface the document routes need.
type Pipeline interface {
	Convert(ctx context.Context, id uuid.UUID, multiPage bool) (*domain.Document, error)
	Render(ctx context.Context, id uuid.UUID) (*domain.RenderResult, error)
}

// DocumentHandler handles conversion and PDF rendering.
type DocumentHandler struct {
	logger   *observability.Logger
	pipeline Pipeline
}

// NewDocumentHandler creates a new document handler.
func NewDocumentHandler(logger *observability.Logger, pipeline Pipeline) *DocumentHandler {
	return &DocumentHandler{
		logger:   logger,
		pipeline: pipeline,
	}
}

// Convert handles GET /convert/{file_id}?is_multi_page=bool.
func (h *DocumentHandler) Convert(w http.ResponseWriter, r *http.Request) {
	id, ok := h.fileID(w, r)
	if !ok {
		return
	}

	multiPage := false
	if v := r.URL.Query().Get("is_multi_page"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid is_multi_page value %q", v))
			return
		}
		multiPage = b
	}

	doc, err := h.pipeline.Convert(r.Context(), id, multiPage)
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// Render handles GET /pdf/{file_id}.
func (h *DocumentHandler) Render(w http.ResponseWriter, r *http.Request) {
	id, ok := h.fileID(w, r)
	if !ok {
		return
	}

	result, err := h.pipeline.Render(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id.String()+".pdf"))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.PDF)))
	w.WriteHeader(http.StatusOK)
	w.Write(result.PDF)
}

func (h *DocumentHandler) fileID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "file_id")
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid file_id %q", raw))
		return uuid.Nil, false
	}
	return id, true
}
