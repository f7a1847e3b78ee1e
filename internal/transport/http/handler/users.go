package handler

import (
	"net/http"

	"github.com/by22shh/buh-ai-assistant/internal/application/user"
	"github.com/by22shh/buh-ai-assistant/internal/domain"
	"github.com/by22shh/buh-ai-assistant/internal/transport/http/middleware"
)

// UserHandler serves the caller's own profile.
type UserHandler struct {
	svc user.Service
}

func NewUserHandler(svc user.Service) *UserHandler { return &UserHandler{svc: svc} }

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	u, err := h.svc.Get(r.Context(), ident.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	var req domain.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := h.svc.UpdateProfile(r.Context(), ident.UserID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// identity pulls the caller from the context or answers 401.
func identity(w http.ResponseWriter, r *http.Request) (*domain.Identity, bool) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
	}
	return ident, ok
}
