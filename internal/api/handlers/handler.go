// handler.go — общие типы и вспомогательные функции HTTP-обработчиков.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apierrors "github.com/vnagar/portfolio/backend/internal/api/errors"
	"github.com/vnagar/portfolio/backend/internal/domain/model"
	"github.com/vnagar/portfolio/backend/internal/service"
)

// maxBodyBytes — ограничение размера тела JSON-запроса.
const maxBodyBytes = 1 << 20

// Сообщения об ошибках для клиента.
const (
	msgInvalidCredentials = "Invalid credentials"
	msgIncorrectPassword  = "Current password is incorrect"
	msgUserNotFound       = "User not found"
	msgAdminExists        = "Admin user already exists. Use /api/admin/reset-password to change password."
	msgEmailConflict      = "User with this email already exists"
	msgInvalidBody        = "Invalid JSON body"
	msgRouteNotFound      = "Route not found"
	msgInternal           = "Internal server error"
)

// AuthService — операции аутентификации (реализуется *service.AuthService).
type AuthService interface {
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
	ChangePassword(ctx context.Context, id, current, next string) error
	ResetPassword(ctx context.Context, id, next string) error
	GetInfo(ctx context.Context, id string) (*model.Identity, error)
}

// BootstrapService — первичная настройка (реализуется *service.BootstrapService).
type BootstrapService interface {
	SetupFirstAdmin(ctx context.Context, email, password string) (*model.Identity, error)
	Status(ctx context.Context) (*service.AdminStatus, error)
}

// messageResponse — ответ с текстовым сообщением.
type messageResponse struct {
	Message string `json:"message"`
}

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// decodeJSON читает тело запроса в dst. При ошибке пишет 400 и возвращает false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		apierrors.ValidationError(w, msgInvalidBody)
		return false
	}
	return true
}

// writeServiceError переводит ошибку сервисного слоя в HTTP-ответ.
// Неизвестные ошибки логируются и отдаются как 500 с fallback-сообщением.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, fallback string) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		apierrors.ValidationError(w, ve.Message)
	case errors.Is(err, service.ErrInvalidCredentials):
		apierrors.Unauthorized(w, msgInvalidCredentials)
	case errors.Is(err, service.ErrIncorrectPassword):
		apierrors.Unauthorized(w, msgIncorrectPassword)
	case errors.Is(err, service.ErrNotFound):
		apierrors.NotFound(w, msgUserNotFound)
	case errors.Is(err, service.ErrAlreadyExists):
		apierrors.Forbidden(w, msgAdminExists)
	case errors.Is(err, service.ErrConflict):
		apierrors.Conflict(w, msgEmailConflict)
	default:
		logger.Error("Ошибка обработки запроса",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w, fallback)
	}
}

// NotFound — JSON 404 для неизвестных маршрутов.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	apierrors.NotFound(w, msgRouteNotFound)
}

// MethodNotAllowed — JSON 405.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	apierrors.WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
}
