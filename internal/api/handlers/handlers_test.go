package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnagar/portfolio/backend/internal/api/middleware"
	"github.com/vnagar/portfolio/backend/internal/auth/token"
	"github.com/vnagar/portfolio/backend/internal/domain/model"
	"github.com/vnagar/portfolio/backend/internal/service"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubAuth — AuthService, возвращающий заданную ошибку.
type stubAuth struct {
	err      error
	identity *model.Identity
}

func (s *stubAuth) Login(context.Context, string, string) (*service.LoginResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &service.LoginResult{Token: "tok", Identity: s.identity}, nil
}

func (s *stubAuth) ChangePassword(context.Context, string, string, string) error { return s.err }

func (s *stubAuth) ResetPassword(context.Context, string, string) error { return s.err }

func (s *stubAuth) GetInfo(context.Context, string) (*model.Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.identity, nil
}

type stubBootstrap struct {
	err error
}

func (s *stubBootstrap) SetupFirstAdmin(_ context.Context, email, _ string) (*model.Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.Identity{ID: "id-1", Email: email, Role: "admin"}, nil
}

func (s *stubBootstrap) Status(context.Context) (*service.AdminStatus, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &service.AdminStatus{SetupRequired: true}, nil
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestLogin_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"validation", &service.ValidationError{Field: "email", Message: "Valid email required"}, http.StatusBadRequest, "VALIDATION_ERROR", "Valid email required"},
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid credentials"},
		{"unexpected", errors.New("db down"), http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&stubAuth{err: tt.err}, discardLogger())
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
				bytes.NewBufferString(`{"email":"a@b.co","password":"x"}`))
			rec := httptest.NewRecorder()

			h.Login(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, tt.wantCode, body["code"])
			assert.Equal(t, tt.wantMsg, body["error"])
		})
	}
}

func TestLogin_InvalidJSON(t *testing.T) {
	h := NewAuthHandler(&stubAuth{}, discardLogger())
	rec := httptest.NewRecorder()

	h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString("{")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid JSON body", decodeBody(t, rec)["error"])
}

func TestMe_WithoutIdentity(t *testing.T) {
	h := NewAuthHandler(&stubAuth{}, discardLogger())
	rec := httptest.NewRecorder()

	h.Me(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe_ReturnsPayload(t *testing.T) {
	h := NewAuthHandler(&stubAuth{}, discardLogger())
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req = req.WithContext(middleware.WithIdentity(req.Context(),
		token.Payload{ID: "id-1", Email: "a@b.co", Role: "admin"}))
	rec := httptest.NewRecorder()

	h.Me(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	user := decodeBody(t, rec)["user"].(map[string]any)
	assert.Equal(t, "id-1", user["id"])
	assert.Equal(t, "a@b.co", user["email"])
}

func TestChangePassword_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"incorrect current", service.ErrIncorrectPassword, http.StatusUnauthorized, "Current password is incorrect"},
		{"not found", service.ErrNotFound, http.StatusNotFound, "User not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&stubAuth{err: tt.err}, discardLogger())
			req := httptest.NewRequest(http.MethodPost, "/api/auth/change-password",
				bytes.NewBufferString(`{"currentPassword":"a","newPassword":"bbbbbbbb"}`))
			req = req.WithContext(middleware.WithIdentity(req.Context(),
				token.Payload{ID: "id-1", Email: "a@b.co", Role: "admin"}))
			rec := httptest.NewRecorder()

			h.ChangePassword(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeBody(t, rec)["error"])
		})
	}
}

func TestSetup_AlreadyExists(t *testing.T) {
	h := NewAdminHandler(&stubAuth{}, &stubBootstrap{err: service.ErrAlreadyExists}, discardLogger())
	rec := httptest.NewRecorder()

	h.Setup(rec, httptest.NewRequest(http.MethodPost, "/api/admin/setup",
		bytes.NewBufferString(`{"email":"a@b.co","password":"bbbbbbbb"}`)))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, msgAdminExists, decodeBody(t, rec)["error"])
}

func TestSetup_EmailConflict(t *testing.T) {
	h := NewAdminHandler(&stubAuth{}, &stubBootstrap{err: service.ErrConflict}, discardLogger())
	rec := httptest.NewRecorder()

	h.Setup(rec, httptest.NewRequest(http.MethodPost, "/api/admin/setup",
		bytes.NewBufferString(`{"email":"a@b.co","password":"bbbbbbbb"}`)))

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "CONFLICT", body["code"])
	assert.Equal(t, msgEmailConflict, body["error"])
}

func TestStatus_Failure(t *testing.T) {
	h := NewAdminHandler(&stubAuth{}, &stubBootstrap{err: errors.New("db down")}, discardLogger())
	rec := httptest.NewRecorder()

	h.Status(rec, httptest.NewRequest(http.MethodGet, "/api/admin/status", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to check admin status", decodeBody(t, rec)["error"])
}

func TestInfo_ReturnsTimestamps(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	h := NewAdminHandler(&stubAuth{identity: &model.Identity{
		ID: "id-1", Email: "a@b.co", Role: "admin", PasswordHash: "$2a$10$x",
		CreatedAt: created, UpdatedAt: created,
	}}, &stubBootstrap{}, discardLogger())
	req := httptest.NewRequest(http.MethodGet, "/api/admin/info", nil)
	req = req.WithContext(middleware.WithIdentity(req.Context(),
		token.Payload{ID: "id-1", Email: "a@b.co", Role: "admin"}))
	rec := httptest.NewRecorder()

	h.Info(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "$2a$")
	user := decodeBody(t, rec)["user"].(map[string]any)
	assert.Equal(t, "2024-01-02T03:04:05Z", user["createdAt"])
}

// --- health ---

type fixedChecker struct {
	status string
}

func (c fixedChecker) CheckReady(context.Context) (string, string) { return c.status, "" }

// ctxChecker запоминает контекст, с которым вызвана проверка.
type ctxChecker struct {
	got context.Context
}

func (c *ctxChecker) CheckReady(ctx context.Context) (string, string) {
	c.got = ctx
	if ctx.Err() != nil {
		return "fail", ctx.Err().Error()
	}
	return "ok", ""
}

func TestHealthReady_UsesRequestContext(t *testing.T) {
	checker := &ctxChecker{}
	h := NewHealthHandler(checker)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := httptest.NewRecorder()

	h.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil).WithContext(ctx))

	require.NotNil(t, checker.got)
	assert.ErrorIs(t, checker.got.Err(), context.Canceled)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthReady(t *testing.T) {
	tests := []struct {
		name       string
		checker    ReadinessChecker
		wantStatus int
		wantBody   string
	}{
		{"ok", fixedChecker{"ok"}, http.StatusOK, "ok"},
		{"degraded", fixedChecker{"degraded"}, http.StatusOK, "degraded"},
		{"fail", fixedChecker{"fail"}, http.StatusServiceUnavailable, "fail"},
		{"nil checker", nil, http.StatusServiceUnavailable, "fail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.checker)
			rec := httptest.NewRecorder()

			h.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, decodeBody(t, rec)["status"])
		})
	}
}

func TestAPIHealth(t *testing.T) {
	h := NewHealthHandler(nil)
	h.now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) }
	rec := httptest.NewRecorder()

	h.APIHealth(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "2024-05-06T07:08:09Z", body["timestamp"])
}

func TestNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", decodeBody(t, rec)["error"])
}
