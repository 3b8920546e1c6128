package config

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"unicode/utf8"

	"github.com/vnagar/portfolio/backend/internal/auth/token"
)

// MinJWTSecretLength — минимальная длина секрета подписи в символах.
const MinJWTSecretLength = 32

// weakSecretPatterns — префиксы, по которым секрет похож на словарный пароль.
var weakSecretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^password`),
	regexp.MustCompile(`(?i)^secret`),
	regexp.MustCompile(`(?i)^jwt`),
	regexp.MustCompile(`(?i)^token`),
	regexp.MustCompile(`(?i)^key$`),
	regexp.MustCompile(`(?i)^admin`),
	regexp.MustCompile(`^123`),
}

// ConfigError — фатальная ошибка конфигурации аутентификации.
type ConfigError struct {
	// Переменная окружения, вызвавшая ошибку
	Key string
	// Описание проблемы
	Reason string
}

// Error реализует интерфейс error.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Key, e.Reason)
}

// ValidateAuth проверяет настройки подписи токенов.
// Отсутствующий или короткий JWT_SECRET — *ConfigError.
// Слабый секрет и нераспознанный JWT_EXPIRES_IN только логируются как предупреждения.
func ValidateAuth(cfg *Config, logger *slog.Logger) error {
	if cfg.JWTSecret == "" {
		return &ConfigError{Key: "JWT_SECRET", Reason: "обязательная переменная окружения не задана"}
	}
	if n := utf8.RuneCountInString(cfg.JWTSecret); n < MinJWTSecretLength {
		return &ConfigError{
			Key:    "JWT_SECRET",
			Reason: fmt.Sprintf("длина %d символов, требуется не меньше %d", n, MinJWTSecretLength),
		}
	}

	for _, p := range weakSecretPatterns {
		if p.MatchString(cfg.JWTSecret) {
			logger.Warn("JWT_SECRET похож на словарный пароль, сгенерируйте случайный секрет командой jwt-secret",
				slog.String("pattern", p.String()),
			)
			break
		}
	}

	if !token.IsValidExpiry(cfg.JWTExpiresIn) {
		logger.Warn("JWT_EXPIRES_IN не распознан или не положителен, токены будут выпускаться без срока действия",
			slog.String("value", cfg.JWTExpiresIn),
		)
	}

	return nil
}

// CheckAuth выполняет ValidateAuth с учётом окружения.
// В production *ConfigError возвращается и запуск должен прерваться;
// в остальных окружениях ошибка логируется, и возвращается nil.
func CheckAuth(cfg *Config, logger *slog.Logger) error {
	err := ValidateAuth(cfg, logger)
	if err == nil {
		return nil
	}

	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) && !cfg.IsProduction() {
		logger.Error("Некорректная конфигурация JWT, аутентификация может не работать",
			slog.String("error", err.Error()),
			slog.String("environment", cfg.Environment),
		)
		return nil
	}
	return err
}
