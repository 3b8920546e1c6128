// Пакет service — бизнес-логика portfolio backend.
// auth.go — вход по email/паролю, смена и сброс пароля, профиль администратора.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vnagar/portfolio/backend/internal/auth/password"
	"github.com/vnagar/portfolio/backend/internal/auth/token"
	"github.com/vnagar/portfolio/backend/internal/domain/model"
	"github.com/vnagar/portfolio/backend/internal/repository"
)

// TokenEncoder выпускает токен для identity claims (реализуется *token.Codec).
type TokenEncoder interface {
	Encode(p token.Payload) (string, error)
}

// LoginResult — результат успешного входа.
type LoginResult struct {
	Token    string
	Identity *model.Identity
}

// AuthService — сервис аутентификации.
type AuthService struct {
	repo   repository.IdentityRepository
	tokens TokenEncoder
	logger *slog.Logger
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(repo repository.IdentityRepository, tokens TokenEncoder, logger *slog.Logger) *AuthService {
	return &AuthService{
		repo:   repo,
		tokens: tokens,
		logger: logger.With(slog.String("component", "auth_service")),
	}
}

// Login проверяет email и пароль и выпускает токен.
// Неизвестный email и неверный пароль дают одну и ту же ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, plain string) (*LoginResult, error) {
	email = model.NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := requireNonEmpty("password", plain, "Password is required"); err != nil {
		return nil, err
	}

	identity, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Info("Неудачная попытка входа", slog.String("reason", "unknown_email"))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("поиск пользователя: %w", err)
	}

	if !password.Verify(plain, identity.PasswordHash) {
		s.logger.Info("Неудачная попытка входа",
			slog.String("reason", "wrong_password"),
			slog.String("user_id", identity.ID),
		)
		return nil, ErrInvalidCredentials
	}

	signed, err := s.tokens.Encode(token.Payload{
		ID:    identity.ID,
		Email: identity.Email,
		Role:  identity.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("выпуск токена: %w", err)
	}

	s.logger.Info("Успешный вход",
		slog.String("user_id", identity.ID),
		slog.String("role", identity.Role),
	)

	return &LoginResult{Token: signed, Identity: identity}, nil
}

// ChangePassword меняет пароль после проверки текущего.
func (s *AuthService) ChangePassword(ctx context.Context, id, current, next string) error {
	if err := requireNonEmpty("currentPassword", current, "Current password is required"); err != nil {
		return err
	}
	if err := validateNewPassword("newPassword", next); err != nil {
		return err
	}

	identity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("получение пользователя: %w", err)
	}

	if !password.Verify(current, identity.PasswordHash) {
		s.logger.Info("Смена пароля отклонена: неверный текущий пароль",
			slog.String("user_id", id),
		)
		return ErrIncorrectPassword
	}

	if err := s.storePassword(ctx, id, next); err != nil {
		return err
	}

	s.logger.Info("Пароль изменён", slog.String("user_id", id))
	return nil
}

// ResetPassword устанавливает новый пароль без проверки текущего.
// Вызывается только аутентифицированным администратором для самого себя.
func (s *AuthService) ResetPassword(ctx context.Context, id, next string) error {
	if err := validateNewPassword("newPassword", next); err != nil {
		return err
	}

	if err := s.storePassword(ctx, id, next); err != nil {
		return err
	}

	s.logger.Info("Пароль сброшен", slog.String("user_id", id))
	return nil
}

// GetInfo возвращает учётную запись по ID.
func (s *AuthService) GetInfo(ctx context.Context, id string) (*model.Identity, error) {
	identity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}
	return identity, nil
}

// storePassword хэширует и сохраняет пароль.
func (s *AuthService) storePassword(ctx context.Context, id, plain string) error {
	hash, err := password.Hash(plain)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("сохранение пароля: %w", err)
	}
	return nil
}
