package handler

import (
	"net/http"
	"time"

	"github.com/by22shh/buh-ai-assistant/internal/application/session"
	"github.com/by22shh/buh-ai-assistant/internal/transport/http/middleware"
)

const (
	refreshCookie     = "refresh_token"
	refreshCookiePath = "/api/auth"
)

// CookieConfig controls the attributes of the session and refresh cookies.
type CookieConfig struct {
	Secure     bool
	Domain     string
	SessionTTL time.Duration
	RefreshTTL time.Duration
}

func (c CookieConfig) cookie(name, value, path string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Domain:   c.Domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func (c CookieConfig) set(w http.ResponseWriter, iss *session.Issued) {
	http.SetCookie(w, c.cookie(middleware.SessionCookie, iss.Token, "/", int(c.SessionTTL.Seconds())))
	http.SetCookie(w, c.cookie(refreshCookie, iss.RefreshToken, refreshCookiePath, int(c.RefreshTTL.Seconds())))
}

func (c CookieConfig) clear(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie(middleware.SessionCookie, "", "/", -1))
	http.SetCookie(w, c.cookie(refreshCookie, "", refreshCookiePath, -1))
}
