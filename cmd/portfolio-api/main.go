// Точка входа portfolio API — backend портфолио.
// Загружает конфигурацию, проверяет настройки JWT, применяет миграции,
// подключается к PostgreSQL, создаёт сервисный слой и API handlers,
// запускает topologymetrics и HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/vnagar/portfolio/backend/internal/api/handlers"
	"github.com/vnagar/portfolio/backend/internal/api/middleware"
	"github.com/vnagar/portfolio/backend/internal/auth/token"
	"github.com/vnagar/portfolio/backend/internal/config"
	"github.com/vnagar/portfolio/backend/internal/database"
	"github.com/vnagar/portfolio/backend/internal/repository"
	"github.com/vnagar/portfolio/backend/internal/server"
	"github.com/vnagar/portfolio/backend/internal/service"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Portfolio API запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("environment", cfg.Environment),
	)

	// 3. Проверка настроек JWT. В production ошибка фатальна,
	// в остальных окружениях сервис продолжает работу.
	if err := config.CheckAuth(cfg, logger); err != nil {
		logger.Error("Некорректная конфигурация JWT", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Применение миграций БД
	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 5. Подключение к PostgreSQL (pgxpool)
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 5.1 Адаптер pgxpool → *sql.DB для topologymetrics.
	pgDB := stdlib.OpenDBFromPool(pool)
	defer pgDB.Close()

	// 6. JWT codec
	codec := token.NewCodec(cfg.JWTSecret, token.ParseExpiry(cfg.JWTExpiresIn))
	logger.Info("JWT codec инициализирован", slog.String("expires_in", codec.Expiry().String()))

	// 7. Repositories и services
	identityRepo := repository.NewIdentityRepository(pool)
	authSvc := service.NewAuthService(identityRepo, codec, logger)
	bootstrapSvc := service.NewBootstrapService(identityRepo, cfg.AdminEmail, cfg.AdminPassword, logger)

	// 8. Handlers
	h := server.Handlers{
		Health: handlers.NewHealthHandler(database.NewReadinessChecker(pool)),
		Auth:   handlers.NewAuthHandler(authSvc, logger),
		Admin:  handlers.NewAdminHandler(authSvc, bootstrapSvc, logger),
	}
	authn := middleware.NewAuthenticator(codec, logger)

	// 9. topologymetrics — мониторинг зависимостей (PostgreSQL)
	dephealthSvc, dephealthErr := service.NewDephealthService(
		"portfolio-api",
		cfg.DephealthGroup,
		pgDB,
		cfg.DatabaseURL(),
		cfg.DephealthCheckInterval,
		logger,
	)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
	} else if startErr := dephealthSvc.Start(ctx); startErr != nil {
		logger.Warn("Ошибка запуска topologymetrics",
			slog.String("error", startErr.Error()),
		)
		dephealthSvc = nil
	} else {
		logger.Info("topologymetrics запущен",
			slog.String("group", cfg.DephealthGroup),
			slog.String("check_interval", cfg.DephealthCheckInterval.String()),
		)
	}

	// 10. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, server.NewRouter(cfg, logger, h, authn))
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	logger.Info("Portfolio API остановлен")
}
