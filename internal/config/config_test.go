package config

import (
	"log/slog"
	"os"
	"testing"
	"time"
)

// setEnvs устанавливает переменные окружения на время теста.
func setEnvs(t *testing.T, envs map[string]string) {
	t.Helper()
	for k, v := range envs {
		t.Setenv(k, v)
	}
}

// unsetEnv удаляет переменную окружения на время теста.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	_ = os.Unsetenv(key)
}

// minimalEnvs возвращает минимальный набор обязательных переменных.
func minimalEnvs() map[string]string {
	return map[string]string{
		"DB_HOST":     "localhost",
		"DB_NAME":     "portfolio",
		"DB_USER":     "portfolio",
		"DB_PASSWORD": "secret",
	}
}

func TestLoad_MinimalConfig(t *testing.T) {
	setEnvs(t, minimalEnvs())
	unsetEnv(t, "JWT_EXPIRES_IN")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}

	// Проверяем значения по умолчанию
	if cfg.Port != 3001 {
		t.Errorf("Port = %d, ожидается 3001", cfg.Port)
	}
	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, ожидается development", cfg.Environment)
	}
	if cfg.IsProduction() {
		t.Error("IsProduction() = true, ожидается false")
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, ожидается Info", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, ожидается json", cfg.LogFormat)
	}
	if cfg.FrontendURL != "http://localhost:3000" {
		t.Errorf("FrontendURL = %q, ожидается http://localhost:3000", cfg.FrontendURL)
	}
	if cfg.DBPort != 5432 {
		t.Errorf("DBPort = %d, ожидается 5432", cfg.DBPort)
	}
	if cfg.DBSSLMode != "disable" {
		t.Errorf("DBSSLMode = %q, ожидается disable", cfg.DBSSLMode)
	}
	if cfg.JWTExpiresIn != "7d" {
		t.Errorf("JWTExpiresIn = %q, ожидается 7d", cfg.JWTExpiresIn)
	}
	if cfg.AdminEmail != DefaultAdminEmail {
		t.Errorf("AdminEmail = %q, ожидается %s", cfg.AdminEmail, DefaultAdminEmail)
	}
	if cfg.AdminPassword != DefaultAdminPassword {
		t.Errorf("AdminPassword = %q, ожидается %s", cfg.AdminPassword, DefaultAdminPassword)
	}
	if cfg.DephealthGroup != "portfolio" {
		t.Errorf("DephealthGroup = %q, ожидается portfolio", cfg.DephealthGroup)
	}
	if cfg.DephealthCheckInterval != 15*time.Second {
		t.Errorf("DephealthCheckInterval = %v, ожидается 15s", cfg.DephealthCheckInterval)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout = %v, ожидается 5s", cfg.ShutdownTimeout)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	envs := minimalEnvs()
	envs["PORT"] = "8080"
	envs["NODE_ENV"] = "production"
	envs["LOG_LEVEL"] = "debug"
	envs["LOG_FORMAT"] = "text"
	envs["FRONTEND_URL"] = "https://vnagar.dev/"
	envs["JWT_SECRET"] = "4f9c2a7e1b3d5f6a8c0e2b4d6f8a0c2e4f9c2a7e1b3d5f6a"
	envs["JWT_EXPIRES_IN"] = "24h"
	envs["ADMIN_EMAIL"] = "owner@vnagar.dev"
	envs["SHUTDOWN_TIMEOUT"] = "10s"
	setEnvs(t, envs)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, ожидается 8080", cfg.Port)
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false, ожидается true")
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, ожидается Debug", cfg.LogLevel)
	}
	if cfg.FrontendURL != "https://vnagar.dev" {
		t.Errorf("FrontendURL = %q, ожидается без завершающего слэша", cfg.FrontendURL)
	}
	if cfg.JWTExpiresIn != "24h" {
		t.Errorf("JWTExpiresIn = %q, ожидается 24h", cfg.JWTExpiresIn)
	}
	if cfg.AdminEmail != "owner@vnagar.dev" {
		t.Errorf("AdminEmail = %q, ожидается owner@vnagar.dev", cfg.AdminEmail)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, ожидается 10s", cfg.ShutdownTimeout)
	}
}

func TestLoad_EmptyExpiresInMeansNever(t *testing.T) {
	envs := minimalEnvs()
	envs["JWT_EXPIRES_IN"] = ""
	setEnvs(t, envs)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}
	if cfg.JWTExpiresIn != "" {
		t.Errorf("JWTExpiresIn = %q, ожидается пустая строка", cfg.JWTExpiresIn)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	required := []string{"DB_HOST", "DB_NAME", "DB_USER", "DB_PASSWORD"}

	for _, key := range required {
		t.Run(key, func(t *testing.T) {
			envs := minimalEnvs()
			delete(envs, key)
			setEnvs(t, envs)
			unsetEnv(t, key)

			_, err := Load()
			if err == nil {
				t.Errorf("Load() без %s должен вернуть ошибку", key)
			}
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"port not a number", "PORT", "abc"},
		{"port out of range", "PORT", "70000"},
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"bad log format", "LOG_FORMAT", "xml"},
		{"bad db port", "DB_PORT", "pg"},
		{"bad ssl mode", "DB_SSL_MODE", "prefer"},
		{"bad dephealth interval", "DEPHEALTH_CHECK_INTERVAL", "often"},
		{"bad shutdown timeout", "SHUTDOWN_TIMEOUT", "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envs := minimalEnvs()
			envs[tt.key] = tt.val
			setEnvs(t, envs)

			_, err := Load()
			if err == nil {
				t.Errorf("Load() с %s=%q должен вернуть ошибку", tt.key, tt.val)
			}
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	cfg := &Config{
		DBHost:     "db.local",
		DBPort:     5433,
		DBName:     "portfolio",
		DBUser:     "app",
		DBPassword: "pw",
		DBSSLMode:  "require",
	}

	want := "host=db.local port=5433 dbname=portfolio user=app password=pw sslmode=require"
	if got := cfg.DatabaseDSN(); got != want {
		t.Errorf("DatabaseDSN() = %q, ожидается %q", got, want)
	}
	if got := cfg.DatabaseURL(); got != "postgres://db.local:5433/portfolio" {
		t.Errorf("DatabaseURL() = %q", got)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
		err   bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"trace", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := parseLogLevel(tt.input)
		if (err != nil) != tt.err {
			t.Errorf("parseLogLevel(%q) err = %v, ожидается err=%v", tt.input, err, tt.err)
		}
		if got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, ожидается %v", tt.input, got, tt.want)
		}
	}
}
