// auth.go — обработчики /api/auth/*.
package handlers

import (
	"log/slog"
	"net/http"

	apierrors "github.com/vnagar/portfolio/backend/internal/api/errors"
	"github.com/vnagar/portfolio/backend/internal/api/middleware"
	"github.com/vnagar/portfolio/backend/internal/auth/token"
	"github.com/vnagar/portfolio/backend/internal/domain/model"
)

// AuthHandler — обработчики входа, профиля и смены пароля.
type AuthHandler struct {
	auth   AuthService
	logger *slog.Logger
}

// NewAuthHandler создаёт обработчики /api/auth/*.
func NewAuthHandler(auth AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger.With(slog.String("component", "auth_handler")),
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string               `json:"token"`
	User  model.PublicIdentity `json:"user"`
}

type userResponse struct {
	User token.Payload `json:"user"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Login — POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, h.logger, err, msgInternal)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token: res.Token,
		User:  res.Identity.Public(),
	})
}

// Me — GET /api/auth/me. Возвращает claims проверенного токена.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		apierrors.Unauthorized(w, middleware.ErrNoToken.Error())
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: identity})
}

// ChangePassword — POST /api/auth/change-password (admin).
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		apierrors.Unauthorized(w, middleware.ErrNoToken.Error())
		return
	}

	var req changePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.auth.ChangePassword(r.Context(), identity.ID, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, r, h.logger, err, msgInternal)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Password updated successfully"})
}
