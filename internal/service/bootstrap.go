// bootstrap.go — создание первой учётной записи администратора.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vnagar/portfolio/backend/internal/auth/password"
	"github.com/vnagar/portfolio/backend/internal/config"
	"github.com/vnagar/portfolio/backend/internal/domain/model"
	"github.com/vnagar/portfolio/backend/internal/domain/rbac"
	"github.com/vnagar/portfolio/backend/internal/repository"
)

// SetupOptions — параметры создания администратора.
// Пустые Email и Password заменяются значениями по умолчанию.
type SetupOptions struct {
	Email    string
	Password string
	// Force — перезаписать пароль и роль существующей записи
	Force bool
}

// SetupResult — результат Setup.
// Success=false означает, что запись уже была и ничего не изменено.
type SetupResult struct {
	Success  bool
	Message  string
	Identity *model.Identity
}

// AdminStatus — наличие администраторов.
type AdminStatus struct {
	AdminExists   bool `json:"adminExists"`
	AdminCount    int  `json:"adminCount"`
	SetupRequired bool `json:"setupRequired"`
}

// BootstrapService — первичная настройка администратора (CLI и HTTP).
type BootstrapService struct {
	repo            repository.IdentityRepository
	defaultEmail    string
	defaultPassword string
	logger          *slog.Logger
}

// NewBootstrapService создаёт сервис первичной настройки.
// defaultEmail/defaultPassword — значения ADMIN_EMAIL/ADMIN_PASSWORD (могут быть пустыми).
func NewBootstrapService(
	repo repository.IdentityRepository,
	defaultEmail, defaultPassword string,
	logger *slog.Logger,
) *BootstrapService {
	return &BootstrapService{
		repo:            repo,
		defaultEmail:    defaultEmail,
		defaultPassword: defaultPassword,
		logger:          logger.With(slog.String("component", "bootstrap_service")),
	}
}

// Setup создаёт администратора или, при Force, обновляет пароль и роль существующей записи.
// Без Force существующая запись не меняется и возвращается Success=false.
func (s *BootstrapService) Setup(ctx context.Context, opts SetupOptions) (*SetupResult, error) {
	email := model.NormalizeEmail(firstNonEmpty(opts.Email, s.defaultEmail, config.DefaultAdminEmail))
	plain := firstNonEmpty(opts.Password, s.defaultPassword, config.DefaultAdminPassword)

	s.logger.Info("Настройка администратора", slog.String("email", email), slog.Bool("force", opts.Force))

	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil && !opts.Force:
		s.logger.Warn("Администратор уже существует, для смены пароля используйте force",
			slog.String("user_id", existing.ID),
		)
		return &SetupResult{
			Success:  false,
			Message:  "Admin user already exists. Use force to update.",
			Identity: existing,
		}, nil
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("поиск пользователя: %w", err)
	}

	hash, err := password.Hash(plain)
	if err != nil {
		return nil, err
	}

	admin, err := s.repo.UpsertByEmail(ctx, email, hash, rbac.RoleAdmin)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("сохранение администратора: %w", err)
	}

	s.logger.Info("Администратор создан или обновлён",
		slog.String("user_id", admin.ID),
		slog.String("email", admin.Email),
	)

	return &SetupResult{
		Success:  true,
		Message:  "Admin user created/updated successfully",
		Identity: admin,
	}, nil
}

// SetupFirstAdmin создаёт администратора, только если в системе нет ни одного.
// Проверка и вставка не атомарны: два одновременных вызова на пустой базе
// могут оба пройти проверку.
func (s *BootstrapService) SetupFirstAdmin(ctx context.Context, email, plain string) (*model.Identity, error) {
	email = model.NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validateNewPassword("password", plain); err != nil {
		return nil, err
	}

	_, err := s.repo.FindFirstByRole(ctx, rbac.RoleAdmin)
	switch {
	case err == nil:
		return nil, ErrAlreadyExists
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("проверка наличия администратора: %w", err)
	}

	res, err := s.Setup(ctx, SetupOptions{Email: email, Password: plain, Force: true})
	if err != nil {
		return nil, err
	}
	return res.Identity, nil
}

// Status возвращает количество администраторов и признак необходимости настройки.
func (s *BootstrapService) Status(ctx context.Context) (*AdminStatus, error) {
	count, err := s.repo.CountByRole(ctx, rbac.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("подсчёт администраторов: %w", err)
	}
	return &AdminStatus{
		AdminExists:   count > 0,
		AdminCount:    count,
		SetupRequired: count == 0,
	}, nil
}

// firstNonEmpty возвращает первое непустое значение.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
