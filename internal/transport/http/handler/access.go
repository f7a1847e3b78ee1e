package handler

import (
	"net/http"

	"github.com/by22shh/buh-ai-assistant/internal/application/access"
	"github.com/by22shh/buh-ai-assistant/internal/domain"
	"github.com/go-chi/chi/v5"
)

// AccessHandler serves the admin screens for time-limited access periods.
type AccessHandler struct {
	svc access.Service
}

func NewAccessHandler(svc access.Service) *AccessHandler {
	return &AccessHandler{svc: svc}
}

func (h *AccessHandler) List(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	vs, err := h.svc.List(r.Context(), ident)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vs)
}

func (h *AccessHandler) Get(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	v, err := h.svc.Get(r.Context(), ident, chi.URLParam(r, "userId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// Put grants or extends the user's access period.
func (h *AccessHandler) Put(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	var req domain.UpdateAccessRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	v, err := h.svc.Grant(r.Context(), ident, chi.URLParam(r, "userId"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *AccessHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	v, err := h.svc.Revoke(r.Context(), ident, chi.URLParam(r, "userId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *AccessHandler) Search(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	var req domain.SearchAccessRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	v, err := h.svc.Search(r.Context(), ident, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
