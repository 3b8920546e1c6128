// auth.go — middleware аутентификации по Bearer-токену и проверки роли.
// Токен проверяется переданным декодером, identity claims кладутся в контекст.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apierrors "github.com/vnagar/portfolio/backend/internal/api/errors"
	"github.com/vnagar/portfolio/backend/internal/auth/token"
	"github.com/vnagar/portfolio/backend/internal/domain/rbac"
)

// Ошибки middleware. Тексты возвращаются клиенту как есть.
//
//nolint:staticcheck // ST1005: тексты ошибок — часть публичного API
var (
	// ErrNoToken — заголовок Authorization отсутствует, пуст или не Bearer.
	ErrNoToken = errors.New("No token provided")
	// ErrForbidden — роль не позволяет выполнить операцию.
	ErrForbidden = errors.New("Admin access required")
)

// contextKey — тип для ключей контекста (избегаем коллизий).
type contextKey string

const (
	// ContextKeyIdentity — identity claims проверенного токена.
	ContextKeyIdentity contextKey = "identity"
)

// authRejectionsTotal — отказы в доступе по причинам.
var authRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "portfolio_auth_token_rejections_total",
		Help: "Количество запросов, отклонённых middleware аутентификации",
	},
	[]string{"reason"},
)

// TokenDecoder проверяет токен и возвращает identity claims (реализуется *token.Codec).
type TokenDecoder interface {
	Decode(tokenString string) (token.Payload, error)
}

// Authenticator — middleware аутентификации по Bearer-токену.
type Authenticator struct {
	decoder TokenDecoder
	logger  *slog.Logger
}

// NewAuthenticator создаёт middleware аутентификации.
func NewAuthenticator(decoder TokenDecoder, logger *slog.Logger) *Authenticator {
	return &Authenticator{
		decoder: decoder,
		logger:  logger.With(slog.String("component", "auth_middleware")),
	}
}

// Middleware возвращает HTTP middleware: без токена — 401 "No token provided",
// с непроверяемым токеном — 401 с текстом ошибки декодера.
func (a *Authenticator) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := bearerToken(r.Header.Get("Authorization"))
			if tokenString == "" {
				authRejectionsTotal.WithLabelValues("no_token").Inc()
				noteAuth(r.Context(), func(f *authLogFields) { f.reject = "no_token" })
				apierrors.Unauthorized(w, ErrNoToken.Error())
				return
			}

			identity, err := a.decoder.Decode(tokenString)
			if err != nil {
				reason := rejectionReason(err)
				authRejectionsTotal.WithLabelValues(reason).Inc()
				noteAuth(r.Context(), func(f *authLogFields) { f.reject = reason })
				a.logger.Debug("Токен отклонён",
					slog.String("reason", reason),
					slog.String("remote_addr", r.RemoteAddr),
				)
				apierrors.Unauthorized(w, err.Error())
				return
			}

			noteAuth(r.Context(), func(f *authLogFields) { f.userID = identity.ID })
			ctx := context.WithValue(r.Context(), ContextKeyIdentity, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken извлекает токен из заголовка "Bearer <token>".
// Схема сравнивается без учёта регистра; иначе — пустая строка.
func bearerToken(header string) string {
	scheme, value, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(value)
}

// rejectionReason — лейбл метрики для ошибки декодера.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, token.ErrExpired):
		return "expired"
	case errors.Is(err, token.ErrNotYetValid):
		return "not_yet_valid"
	case errors.Is(err, token.ErrMalformedPayload):
		return "malformed_payload"
	case errors.Is(err, token.ErrNoSecret):
		return "no_secret"
	default:
		return "invalid_signature"
	}
}

// --- RBAC middleware helpers ---

// RequireAdmin возвращает middleware, пропускающий только роль admin.
// Должен использоваться ПОСЛЕ Authenticator.Middleware().
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRole(rbac.RoleAdmin)
}

// RequireRole возвращает middleware, требующий роль не ниже указанной.
// Нет identity в контексте или роль ниже — 403.
func RequireRole(required string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok || !rbac.Satisfies(identity.Role, required) {
				authRejectionsTotal.WithLabelValues("forbidden").Inc()
				noteAuth(r.Context(), func(f *authLogFields) { f.reject = "forbidden" })
				apierrors.Forbidden(w, forbiddenMessage(required))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// forbiddenMessage — текст 403 для требуемой роли.
func forbiddenMessage(required string) string {
	if required == rbac.RoleAdmin {
		return ErrForbidden.Error()
	}
	return "Insufficient permissions"
}

// --- Context helpers ---

// IdentityFromContext извлекает identity claims из контекста запроса.
func IdentityFromContext(ctx context.Context) (token.Payload, bool) {
	identity, ok := ctx.Value(ContextKeyIdentity).(token.Payload)
	return identity, ok
}

// WithIdentity кладёт identity claims в контекст (для тестов handlers).
func WithIdentity(ctx context.Context, identity token.Payload) context.Context {
	return context.WithValue(ctx, ContextKeyIdentity, identity)
}
