package handler

import (
	"net/http"

	"github.com/by22shh/buh-ai-assistant/internal/application/organization"
	"github.com/by22shh/buh-ai-assistant/internal/domain"
	"github.com/go-chi/chi/v5"
)

// OrganizationHandler handles the caller's organization CRUD endpoints.
type OrganizationHandler struct {
	svc organization.Service
}

func NewOrganizationHandler(svc organization.Service) *OrganizationHandler {
	return &OrganizationHandler{svc: svc}
}

func (h *OrganizationHandler) List(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	orgs, err := h.svc.List(r.Context(), ident)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orgs)
}

func (h *OrganizationHandler) Create(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	var req domain.CreateOrganizationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	o, err := h.svc.Create(r.Context(), ident, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *OrganizationHandler) Get(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	o, err := h.svc.Get(r.Context(), ident, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrganizationHandler) Update(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	var req domain.UpdateOrganizationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	o, err := h.svc.Update(r.Context(), ident, chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrganizationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), ident, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "organization deleted"})
}
