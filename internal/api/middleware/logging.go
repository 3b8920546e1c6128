// logging.go — middleware логирования входящих HTTP-запросов через slog.
// Кроме статуса и длительности пишет результат аутентификации:
// user_id принятого токена или auth_reject с причиной отказа.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// authLogFields — результат аутентификации, который middleware auth
// сообщает логгеру запроса через контекст.
type authLogFields struct {
	userID string
	reject string
}

type authLogFieldsKey struct{}

// noteAuth дополняет запись лога запроса, если RequestLogger установлен выше по цепочке.
func noteAuth(ctx context.Context, fn func(*authLogFields)) {
	if f, ok := ctx.Value(authLogFieldsKey{}).(*authLogFields); ok {
		fn(f)
	}
}

// RequestLogger возвращает middleware, логирующий каждый HTTP-запрос:
// метод, путь, статус, длительность, размер ответа, remote_addr, request_id,
// а также user_id или auth_reject, если запрос прошёл через аутентификацию.
// Уровень логирования зависит от статус-кода: INFO (1xx-3xx), WARN (4xx), ERROR (5xx).
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := newStatusRecorder(w)
			auth := &authLogFields{}

			next.ServeHTTP(wrapped, r.WithContext(context.WithValue(r.Context(), authLogFieldsKey{}, auth)))

			level := slog.LevelInfo
			if wrapped.statusCode >= 500 {
				level = slog.LevelError
			} else if wrapped.statusCode >= 400 {
				level = slog.LevelWarn
			}

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", wrapped.statusCode),
				slog.Duration("duration", time.Since(start)),
				slog.Int64("bytes", wrapped.written),
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("request_id", chimw.GetReqID(r.Context())),
			}
			if auth.userID != "" {
				attrs = append(attrs, slog.String("user_id", auth.userID))
			}
			if auth.reject != "" {
				attrs = append(attrs, slog.String("auth_reject", auth.reject))
			}

			logger.LogAttrs(r.Context(), level, "HTTP запрос", attrs...)
		})
	}
}
