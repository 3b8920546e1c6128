// admin.go — обработчики /api/admin/*: первичная настройка, статус, профиль, сброс пароля.
package handlers

import (
	"log/slog"
	"net/http"

	apierrors "github.com/vnagar/portfolio/backend/internal/api/errors"
	"github.com/vnagar/portfolio/backend/internal/api/middleware"
	"github.com/vnagar/portfolio/backend/internal/domain/model"
)

// AdminHandler — обработчики администрирования учётной записи.
type AdminHandler struct {
	auth      AuthService
	bootstrap BootstrapService
	logger    *slog.Logger
}

// NewAdminHandler создаёт обработчики /api/admin/*.
func NewAdminHandler(auth AuthService, bootstrap BootstrapService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		auth:      auth,
		bootstrap: bootstrap,
		logger:    logger.With(slog.String("component", "admin_handler")),
	}
}

type setupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type setupResponse struct {
	Message string               `json:"message"`
	User    model.PublicIdentity `json:"user"`
}

type resetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

type infoResponse struct {
	User model.IdentityInfo `json:"user"`
}

// Setup — POST /api/admin/setup. Разрешён, только пока нет ни одного администратора.
func (h *AdminHandler) Setup(w http.ResponseWriter, r *http.Request) {
	var req setupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	admin, err := h.bootstrap.SetupFirstAdmin(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Failed to create admin user")
		return
	}

	writeJSON(w, http.StatusCreated, setupResponse{
		Message: "Admin user created successfully",
		User:    admin.Public(),
	})
}

// ResetPassword — POST /api/admin/reset-password (admin). Меняет пароль вызывающего.
func (h *AdminHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		apierrors.Unauthorized(w, middleware.ErrNoToken.Error())
		return
	}

	var req resetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.auth.ResetPassword(r.Context(), identity.ID, req.NewPassword); err != nil {
		writeServiceError(w, r, h.logger, err, "Failed to update password")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Password updated successfully"})
}

// Status — GET /api/admin/status (публичный).
func (h *AdminHandler) Status(w http.ResponseWriter, r *http.Request) {
	st, err := h.bootstrap.Status(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Failed to check admin status")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Info — GET /api/admin/info (admin). Профиль вызывающего с временными метками.
func (h *AdminHandler) Info(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		apierrors.Unauthorized(w, middleware.ErrNoToken.Error())
		return
	}

	user, err := h.auth.GetInfo(r.Context(), identity.ID)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Failed to get admin info")
		return
	}

	writeJSON(w, http.StatusOK, infoResponse{User: user.Info()})
}
