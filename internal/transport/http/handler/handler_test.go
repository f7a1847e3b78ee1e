package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/by22shh/buh-ai-assistant/internal/application/auth"
	"github.com/by22shh/buh-ai-assistant/internal/application/session"
	"github.com/by22shh/buh-ai-assistant/internal/domain"
	"github.com/by22shh/buh-ai-assistant/internal/transport/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockAuthSvc struct{ mock.Mock }

func (m *mockAuthSvc) SendCode(ctx context.Context, email, addr string) (*auth.SendResult, error) {
	args := m.Called(ctx, email, addr)
	if r, _ := args.Get(0).(*auth.SendResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthSvc) VerifyCode(ctx context.Context, email, code, addr string) (*auth.VerifyResult, error) {
	args := m.Called(ctx, email, code, addr)
	if r, _ := args.Get(0).(*auth.VerifyResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSessionSvc struct{ mock.Mock }

func (m *mockSessionSvc) Issue(ctx context.Context, u *domain.User) (*session.Issued, error) {
	args := m.Called(ctx, u)
	if r, _ := args.Get(0).(*session.Issued); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionSvc) Validate(ctx context.Context, token string) (*domain.Identity, error) {
	args := m.Called(ctx, token)
	if r, _ := args.Get(0).(*domain.Identity); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionSvc) Refresh(ctx context.Context, refreshToken string) (*session.Issued, *domain.User, error) {
	args := m.Called(ctx, refreshToken)
	if r, _ := args.Get(0).(*session.Issued); r != nil {
		u, _ := args.Get(1).(*domain.User)
		return r, u, args.Error(2)
	}
	return nil, nil, args.Error(2)
}

func (m *mockSessionSvc) Revoke(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *mockSessionSvc) RevokeAll(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type mockUserSvc struct{ mock.Mock }

func (m *mockUserSvc) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserSvc) ResolveByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserSvc) UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.User, error) {
	args := m.Called(ctx, userID, req)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- helpers ---

var testCookies = CookieConfig{Secure: true, SessionTTL: time.Hour, RefreshTTL: 24 * time.Hour}

func jsonReq(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	r.Header.Set("Content-Type", "application/json")
	r.RemoteAddr = "10.1.2.3:4444"
	return r
}

func withIdentity(r *http.Request, ident *domain.Identity) *http.Request {
	return r.WithContext(middleware.WithIdentity(r.Context(), ident))
}

func cookieByName(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// --- error mapping ---

func TestWriteServiceError_Mapping(t *testing.T) {
	cases := map[string]struct {
		err  error
		code int
	}{
		"invalid code": {fmt.Errorf("verify: %w", domain.ErrInvalidCode), http.StatusBadRequest},
		"bad request":  {fmt.Errorf("inn: %w", domain.ErrBadRequest), http.StatusBadRequest},
		"unauthorized": {domain.ErrUnauthorized, http.StatusUnauthorized},
		"forbidden":    {fmt.Errorf("limit: %w", domain.ErrForbidden), http.StatusForbidden},
		"not found":    {fmt.Errorf("get: %w", domain.ErrNotFound), http.StatusNotFound},
		"conflict":     {fmt.Errorf("put: %w", domain.ErrConflict), http.StatusConflict},
		"rate limited": {fmt.Errorf("send: %w", domain.ErrRateLimited), http.StatusTooManyRequests},
		"unknown":      {errors.New("dial tcp 10.0.0.5:8000: refused"), http.StatusInternalServerError},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeServiceError(rr, httptest.NewRequest(http.MethodGet, "/", nil), tc.err)
			assert.Equal(t, tc.code, rr.Code)
			assert.Contains(t, rr.Body.String(), `"success":false`)
		})
	}
}

func TestWriteServiceError_QuotaMessages(t *testing.T) {
	rr := httptest.NewRecorder()
	writeServiceError(rr, httptest.NewRequest(http.MethodPost, "/", nil), fmt.Errorf("create: %w", domain.ErrAccessExpired))
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.JSONEq(t, `{"success":false,"message":"access expired"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	writeServiceError(rr, httptest.NewRequest(http.MethodPost, "/", nil), fmt.Errorf("5 documents: %w", domain.ErrDemoLimit))
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.JSONEq(t, `{"success":false,"message":"demo limit exceeded"}`, rr.Body.String())
}

func TestWriteServiceError_HidesInternalDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	writeServiceError(rr, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("dynamo: table users missing"))
	assert.JSONEq(t, `{"success":false,"message":"internal server error"}`, rr.Body.String())
}

// --- auth ---

func TestSendCode_InvalidBody(t *testing.T) {
	svc := &mockAuthSvc{}
	h := NewAuthHandler(svc, &mockSessionSvc{}, testCookies, nil)
	rr := httptest.NewRecorder()
	h.SendCode(rr, jsonReq(http.MethodPost, "/api/auth/send-code", "not-json"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "SendCode", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendCode_ReturnsTokenOnly(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("SendCode", mock.Anything, "a@x.com", "10.1.2.3").Return(&auth.SendResult{Token: "T1"}, nil)
	h := NewAuthHandler(svc, &mockSessionSvc{}, testCookies, nil)
	rr := httptest.NewRecorder()
	h.SendCode(rr, jsonReq(http.MethodPost, "/api/auth/send-code", `{"email":"a@x.com"}`))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"token":"T1","message":"code sent"}`, rr.Body.String())
	svc.AssertExpectations(t)
}

func TestSendCode_RateLimited(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("SendCode", mock.Anything, mock.Anything, mock.Anything).Return(nil, domain.ErrRateLimited)
	h := NewAuthHandler(svc, &mockSessionSvc{}, testCookies, nil)
	rr := httptest.NewRecorder()
	h.SendCode(rr, jsonReq(http.MethodPost, "/api/auth/send-code", `{"email":"a@x.com"}`))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}

func TestVerifyCode_SetsCookiesAndKeepsTokensOutOfBody(t *testing.T) {
	svc := &mockAuthSvc{}
	u := &domain.User{UserID: "u1", Email: "a@x.com", Role: domain.RoleUser}
	svc.On("VerifyCode", mock.Anything, "a@x.com", "123456", "10.1.2.3").Return(&auth.VerifyResult{
		User:   u,
		Issued: &session.Issued{Session: &domain.Session{SessionID: "s1"}, Token: "jwt-token", RefreshToken: "s1.refresh"},
	}, nil)
	h := NewAuthHandler(svc, &mockSessionSvc{}, testCookies, nil)
	rr := httptest.NewRecorder()
	h.VerifyCode(rr, jsonReq(http.MethodPost, "/api/auth/verify-code", `{"email":"a@x.com","code":"123456"}`))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "jwt-token")
	assert.NotContains(t, rr.Body.String(), "s1.refresh")
	assert.Contains(t, rr.Body.String(), `"email":"a@x.com"`)

	sc := cookieByName(rr, middleware.SessionCookie)
	require.NotNil(t, sc)
	assert.Equal(t, "jwt-token", sc.Value)
	assert.Equal(t, "/", sc.Path)
	assert.Equal(t, 3600, sc.MaxAge)
	assert.True(t, sc.HttpOnly)
	assert.True(t, sc.Secure)
	assert.Equal(t, http.SameSiteStrictMode, sc.SameSite)

	rc := cookieByName(rr, refreshCookie)
	require.NotNil(t, rc)
	assert.Equal(t, "s1.refresh", rc.Value)
	assert.Equal(t, "/api/auth", rc.Path)
	assert.Equal(t, 86400, rc.MaxAge)
}

func TestVerifyCode_InvalidCode(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("VerifyCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidCode)
	h := NewAuthHandler(svc, &mockSessionSvc{}, testCookies, nil)
	rr := httptest.NewRecorder()
	h.VerifyCode(rr, jsonReq(http.MethodPost, "/api/auth/verify-code", `{"email":"a@x.com","code":"000000"}`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, rr.Result().Cookies())
}

func TestRefresh_MissingCookie(t *testing.T) {
	sessions := &mockSessionSvc{}
	h := NewAuthHandler(&mockAuthSvc{}, sessions, testCookies, nil)
	rr := httptest.NewRecorder()
	h.Refresh(rr, jsonReq(http.MethodPost, "/api/auth/refresh", ""))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	sessions.AssertNotCalled(t, "Refresh", mock.Anything, mock.Anything)
}

func TestRefresh_RotatesCookies(t *testing.T) {
	sessions := &mockSessionSvc{}
	sessions.On("Refresh", mock.Anything, "old.secret").Return(
		&session.Issued{Session: &domain.Session{SessionID: "s2"}, Token: "new-jwt", RefreshToken: "s2.secret"},
		&domain.User{UserID: "u1"}, nil)
	h := NewAuthHandler(&mockAuthSvc{}, sessions, testCookies, nil)
	r := jsonReq(http.MethodPost, "/api/auth/refresh", "")
	r.AddCookie(&http.Cookie{Name: refreshCookie, Value: "old.secret"})
	rr := httptest.NewRecorder()
	h.Refresh(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "new-jwt", cookieByName(rr, middleware.SessionCookie).Value)
	assert.Equal(t, "s2.secret", cookieByName(rr, refreshCookie).Value)
	assert.NotContains(t, rr.Body.String(), "new-jwt")
}

func TestRefresh_ReusedTokenClearsCookies(t *testing.T) {
	sessions := &mockSessionSvc{}
	sessions.On("Refresh", mock.Anything, "used.secret").Return(nil, nil, domain.ErrUnauthorized)
	h := NewAuthHandler(&mockAuthSvc{}, sessions, testCookies, nil)
	r := jsonReq(http.MethodPost, "/api/auth/refresh", "")
	r.AddCookie(&http.Cookie{Name: refreshCookie, Value: "used.secret"})
	rr := httptest.NewRecorder()
	h.Refresh(rr, r)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, -1, cookieByName(rr, middleware.SessionCookie).MaxAge)
	assert.Equal(t, -1, cookieByName(rr, refreshCookie).MaxAge)
}

func TestLogout_RevokesCurrentSession(t *testing.T) {
	sessions := &mockSessionSvc{}
	sessions.On("Validate", mock.Anything, "jwt").Return(&domain.Identity{UserID: "u1", SessionID: "s1"}, nil)
	sessions.On("Revoke", mock.Anything, "s1").Return(nil)
	h := NewAuthHandler(&mockAuthSvc{}, sessions, testCookies, nil)
	r := jsonReq(http.MethodPost, "/api/auth/logout", "")
	r.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "jwt"})
	rr := httptest.NewRecorder()
	h.Logout(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, -1, cookieByName(rr, middleware.SessionCookie).MaxAge)
	sessions.AssertExpectations(t)
	sessions.AssertNotCalled(t, "RevokeAll", mock.Anything, mock.Anything)
}

func TestLogout_AllRevokesEverySession(t *testing.T) {
	sessions := &mockSessionSvc{}
	sessions.On("Validate", mock.Anything, "jwt").Return(&domain.Identity{UserID: "u1", SessionID: "s1"}, nil)
	sessions.On("RevokeAll", mock.Anything, "u1").Return(nil)
	h := NewAuthHandler(&mockAuthSvc{}, sessions, testCookies, nil)
	r := jsonReq(http.MethodPost, "/api/auth/logout?all=true", "")
	r.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "jwt"})
	rr := httptest.NewRecorder()
	h.Logout(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	sessions.AssertExpectations(t)
}

func TestLogout_WithoutSessionStillSucceeds(t *testing.T) {
	sessions := &mockSessionSvc{}
	h := NewAuthHandler(&mockAuthSvc{}, sessions, testCookies, nil)
	rr := httptest.NewRecorder()
	h.Logout(rr, jsonReq(http.MethodPost, "/api/auth/logout", ""))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, -1, cookieByName(rr, refreshCookie).MaxAge)
	sessions.AssertNotCalled(t, "Validate", mock.Anything, mock.Anything)
}

// --- users ---

func TestMe_MissingIdentity(t *testing.T) {
	h := NewUserHandler(&mockUserSvc{})
	rr := httptest.NewRecorder()
	h.Me(rr, httptest.NewRequest(http.MethodGet, "/api/users/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestMe_ReturnsProfile(t *testing.T) {
	svc := &mockUserSvc{}
	svc.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", Email: "a@x.com", Role: domain.RoleUser}, nil)
	h := NewUserHandler(svc)
	rr := httptest.NewRecorder()
	h.Me(rr, withIdentity(httptest.NewRequest(http.MethodGet, "/api/users/me", nil), &domain.Identity{UserID: "u1"}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"email":"a@x.com"`)
	assert.Contains(t, rr.Body.String(), `"role":"user"`)
}

func TestUpdateMe_Conflict(t *testing.T) {
	svc := &mockUserSvc{}
	svc.On("UpdateProfile", mock.Anything, "u1", mock.Anything).Return(nil, fmt.Errorf("update user: %w", domain.ErrConflict))
	h := NewUserHandler(svc)
	rr := httptest.NewRecorder()
	r := withIdentity(jsonReq(http.MethodPut, "/api/users/me", `{"email":"taken@x.com"}`), &domain.Identity{UserID: "u1"})
	h.UpdateMe(rr, r)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestUpdateMe_PassesPartialFields(t *testing.T) {
	svc := &mockUserSvc{}
	svc.On("UpdateProfile", mock.Anything, "u1", mock.MatchedBy(func(req domain.UpdateProfileRequest) bool {
		return req.FirstName != nil && *req.FirstName == "Anna" && req.Email == nil
	})).Return(&domain.User{UserID: "u1", FirstName: "Anna"}, nil)
	h := NewUserHandler(svc)
	rr := httptest.NewRecorder()
	r := withIdentity(jsonReq(http.MethodPut, "/api/users/me", `{"firstName":"Anna"}`), &domain.Identity{UserID: "u1"})
	h.UpdateMe(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}
