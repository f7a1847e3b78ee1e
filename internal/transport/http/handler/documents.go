package handler

import (
	"net/http"

	"github.com/by22shh/buh-ai-assistant/internal/application/document"
	"github.com/by22shh/buh-ai-assistant/internal/domain"
	"github.com/go-chi/chi/v5"
)

// DocumentHandler handles the caller's document CRUD endpoints.
type DocumentHandler struct {
	svc document.Service
}

func NewDocumentHandler(svc document.Service) *DocumentHandler {
	return &DocumentHandler{svc: svc}
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	docs, err := h.svc.List(r.Context(), ident)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	var req domain.CreateDocumentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	d, err := h.svc.Create(r.Context(), ident, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	d, err := h.svc.Get(r.Context(), ident, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *DocumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	var req domain.UpdateDocumentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	d, err := h.svc.Update(r.Context(), ident, chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), ident, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "document deleted"})
}
