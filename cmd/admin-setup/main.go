// admin-setup — создание или обновление учётной записи администратора из консоли.
//
//	admin-setup --email admin@example.com --password secret123 --force
//
// Без --email и --password используются ADMIN_EMAIL/ADMIN_PASSWORD,
// затем значения по умолчанию. Если --password не задан и stdin — терминал,
// пароль запрашивается без эха.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/vnagar/portfolio/backend/internal/config"
	"github.com/vnagar/portfolio/backend/internal/database"
	"github.com/vnagar/portfolio/backend/internal/repository"
	"github.com/vnagar/portfolio/backend/internal/service"
)

// Подмена для тестов: чтение пароля и проверка терминала.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// options — разобранные флаги командной строки.
type options struct {
	Email    string
	Password string
	Force    bool
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run выполняет команду и возвращает код выхода: 0 — администратор создан
// или обновлён, 1 — любая ошибка или запись уже существует без --force.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Ошибка загрузки конфигурации: %v\n", err)
		return 1
	}
	logger := config.SetupLogger(cfg)

	if opts.Password == "" {
		opts.Password, err = promptPassword(int(os.Stdin.Fd()), stdout)
		if err != nil {
			logger.Error("Ошибка чтения пароля", slog.String("error", err.Error()))
			return 1
		}
	}

	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
		return 1
	}

	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		return 1
	}
	defer pool.Close()

	svc := service.NewBootstrapService(
		repository.NewIdentityRepository(pool),
		cfg.AdminEmail, cfg.AdminPassword,
		logger,
	)

	res, err := svc.Setup(ctx, service.SetupOptions{
		Email:    opts.Email,
		Password: opts.Password,
		Force:    opts.Force,
	})
	if err != nil {
		logger.Error("Ошибка настройки администратора", slog.String("error", err.Error()))
		return 1
	}

	fmt.Fprintln(stdout, res.Message)
	if !res.Success {
		return 1
	}
	fmt.Fprintf(stdout, "Email: %s\nRole: %s\n", res.Identity.Email, res.Identity.Role)
	return 0
}

// parseFlags разбирает аргументы командной строки.
func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("admin-setup", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.Email, "email", "", "email администратора (по умолчанию ADMIN_EMAIL)")
	fs.StringVar(&opts.Password, "password", "", "пароль администратора (по умолчанию ADMIN_PASSWORD)")
	fs.BoolVar(&opts.Force, "force", false, "обновить пароль и роль существующей записи")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		err := fmt.Errorf("неожиданные аргументы: %v", fs.Args())
		fmt.Fprintln(stderr, err)
		return options{}, err
	}
	return opts, nil
}

// promptPassword запрашивает пароль, если fd — терминал.
// Вне терминала возвращает пустую строку: тогда действуют значения по умолчанию.
func promptPassword(fd int, w io.Writer) (string, error) {
	if !isTerminal(fd) {
		return "", nil
	}
	if _, err := fmt.Fprint(w, "Пароль администратора (Enter — по умолчанию): "); err != nil {
		return "", err
	}
	pw, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}
