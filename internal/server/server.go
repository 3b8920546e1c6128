// Пакет server — HTTP-сервер portfolio backend с graceful shutdown.
// Маршруты собираются вручную на chi, все API-маршруты под /api.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vnagar/portfolio/backend/internal/api/handlers"
	"github.com/vnagar/portfolio/backend/internal/api/middleware"
	"github.com/vnagar/portfolio/backend/internal/config"
)

// Handlers — набор обработчиков, из которых собирается роутер.
type Handlers struct {
	Health *handlers.HealthHandler
	Auth   *handlers.AuthHandler
	Admin  *handlers.AdminHandler
}

// Server — HTTP-сервер portfolio backend.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// NewRouter собирает маршруты и middleware.
// authn — middleware аутентификации для защищённых маршрутов.
func NewRouter(cfg *config.Config, logger *slog.Logger, h Handlers, authn *middleware.Authenticator) http.Handler {
	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.MetricsMiddleware())
	router.Use(chimw.Recoverer)
	router.Use(middleware.CORS(cfg.FrontendURL))

	router.NotFound(handlers.NotFound)
	router.MethodNotAllowed(handlers.MethodNotAllowed)

	// Health и metrics — без аутентификации
	router.Get("/health/live", h.Health.HealthLive)
	router.Get("/health/ready", h.Health.HealthReady)
	router.Get("/metrics", h.Health.GetMetrics)

	requireAuth := authn.Middleware()

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health.APIHealth)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", h.Auth.Me)
				r.With(middleware.RequireAdmin()).Post("/change-password", h.Auth.ChangePassword)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/setup", h.Admin.Setup)
			r.Get("/status", h.Admin.Status)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth, middleware.RequireAdmin())
				r.Post("/reset-password", h.Admin.ResetPassword)
				r.Get("/info", h.Admin.Info)
			})
		})
	})

	return router
}

// New создаёт HTTP-сервер поверх готового роутера.
func New(cfg *config.Config, logger *slog.Logger, handler http.Handler) *Server {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
