package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/by22shh/buh-ai-assistant/internal/application/audit"
	"github.com/by22shh/buh-ai-assistant/internal/application/auth"
	"github.com/by22shh/buh-ai-assistant/internal/application/session"
	"github.com/by22shh/buh-ai-assistant/internal/domain"
	"github.com/by22shh/buh-ai-assistant/internal/transport/http/middleware"
)

// AuthHandler serves the passwordless login flow and session lifecycle.
type AuthHandler struct {
	svc      auth.Service
	sessions session.Service
	cookies  CookieConfig
	audit    audit.Recorder
}

func NewAuthHandler(svc auth.Service, sessions session.Service, cookies CookieConfig, rec audit.Recorder) *AuthHandler {
	if rec == nil {
		rec = audit.Nop{}
	}
	return &AuthHandler{svc: svc, sessions: sessions, cookies: cookies, audit: rec}
}

func (h *AuthHandler) SendCode(w http.ResponseWriter, r *http.Request) {
	var req auth.SendCodeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.SendCode(r.Context(), req.Email, middleware.ClientIP(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SendCodeEnvelope{
		Success: true,
		Token:   res.Token,
		Message: "code sent",
	})
}

func (h *AuthHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req auth.VerifyCodeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.VerifyCode(r.Context(), req.Email, req.Code, middleware.ClientIP(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.cookies.set(w, res.Issued)
	writeJSON(w, http.StatusOK, UserEnvelope{Success: true, User: res.User})
}

// Refresh rotates the session using the refresh cookie. Any failure clears
// both cookies so the client falls back to a fresh login.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(refreshCookie)
	if err != nil || c.Value == "" {
		h.cookies.clear(w)
		writeError(w, http.StatusUnauthorized, "refresh token required")
		return
	}
	iss, u, err := h.sessions.Refresh(r.Context(), c.Value)
	if err != nil {
		h.cookies.clear(w)
		if errors.Is(err, domain.ErrUnauthorized) {
			h.audit.Record(r.Context(), audit.Event{Type: audit.TokenRefreshFailed, IP: middleware.ClientIP(r)})
		}
		writeServiceError(w, r, err)
		return
	}
	h.audit.Record(r.Context(), audit.Event{Type: audit.TokenRefresh, UserID: u.UserID, IP: middleware.ClientIP(r)})
	h.cookies.set(w, iss)
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "session refreshed"})
}

// Logout revokes the current session, or every session of the user with
// ?all=true. It always clears cookies and answers 200.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.revoke(r, r.URL.Query().Get("all") == "true")
	h.cookies.clear(w)
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "logged out"})
}

func (h *AuthHandler) revoke(r *http.Request, all bool) {
	c, err := r.Cookie(middleware.SessionCookie)
	if err != nil || c.Value == "" {
		return
	}
	ident, err := h.sessions.Validate(r.Context(), c.Value)
	if err != nil {
		return
	}
	ev := audit.Event{Type: audit.Logout, UserID: ident.UserID, IP: middleware.ClientIP(r)}
	if all {
		ev.Type = audit.LogoutAll
		err = h.sessions.RevokeAll(r.Context(), ident.UserID)
	} else {
		err = h.sessions.Revoke(r.Context(), ident.SessionID)
	}
	if err != nil {
		slog.WarnContext(r.Context(), "logout revoke failed", "user_id", ident.UserID, "err", err)
		return
	}
	h.audit.Record(r.Context(), ev)
}
