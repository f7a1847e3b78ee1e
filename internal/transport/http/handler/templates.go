package handler

import (
	"net/http"

	"github.com/by22shh/buh-ai-assistant/internal/application/template"
	"github.com/by22shh/buh-ai-assistant/internal/domain"
	"github.com/go-chi/chi/v5"
)

// TemplateHandler serves the public catalog and the admin catalog editor.
type TemplateHandler struct {
	svc template.Service
}

func NewTemplateHandler(svc template.Service) *TemplateHandler {
	return &TemplateHandler{svc: svc}
}

// List returns enabled templates only.
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	ts, err := h.svc.ListEnabled(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ts)
}

// Body serves the text of an enabled template.
func (h *TemplateHandler) Body(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.GetBody(r.Context(), nil, chi.URLParam(r, "code"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *TemplateHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	ts, err := h.svc.ListAll(r.Context(), ident)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ts)
}

func (h *TemplateHandler) AdminGet(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	t, err := h.svc.Get(r.Context(), ident, chi.URLParam(r, "code"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TemplateHandler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	var req domain.UpdateTemplateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	t, err := h.svc.Update(r.Context(), ident, chi.URLParam(r, "code"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TemplateHandler) AdminGetBody(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	b, err := h.svc.GetBody(r.Context(), ident, chi.URLParam(r, "code"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *TemplateHandler) AdminPutBody(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	var req domain.PutTemplateBodyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	b, err := h.svc.PutBody(r.Context(), ident, chi.URLParam(r, "code"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}
