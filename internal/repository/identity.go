package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vnagar/portfolio/backend/internal/domain/model"
)

// IdentityRepository — доступ к таблице users.
// Email на входе должен быть уже нормализован (model.NormalizeEmail).
type IdentityRepository interface {
	// FindByEmail возвращает учётную запись по email.
	FindByEmail(ctx context.Context, email string) (*model.Identity, error)
	// FindByID возвращает учётную запись по ID.
	FindByID(ctx context.Context, id string) (*model.Identity, error)
	// FindFirstByRole возвращает самую раннюю учётную запись с указанной ролью.
	FindFirstByRole(ctx context.Context, role string) (*model.Identity, error)
	// CountByRole возвращает количество учётных записей с ролью.
	CountByRole(ctx context.Context, role string) (int, error)
	// UpsertByEmail создаёт запись или обновляет хэш и роль существующей (одним запросом).
	UpsertByEmail(ctx context.Context, email, passwordHash, role string) (*model.Identity, error)
	// UpdatePassword заменяет хэш пароля записи с указанным ID.
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// identityRepo — реализация IdentityRepository.
type identityRepo struct {
	db DBTX
}

// NewIdentityRepository создаёт репозиторий учётных записей.
func NewIdentityRepository(db DBTX) IdentityRepository {
	return &identityRepo{db: db}
}

const identityColumns = `id, email, password_hash, role, created_at, updated_at`

// scanIdentity сканирует строку в model.Identity.
func scanIdentity(row pgx.Row) (*model.Identity, error) {
	id := &model.Identity{}
	err := row.Scan(&id.ID, &id.Email, &id.PasswordHash, &id.Role, &id.CreatedAt, &id.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return id, nil
}

func (r *identityRepo) FindByEmail(ctx context.Context, email string) (*model.Identity, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, identityColumns)

	id, err := scanIdentity(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка поиска пользователя по email: %w", err)
	}
	return id, nil
}

func (r *identityRepo) FindByID(ctx context.Context, id string) (*model.Identity, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, identityColumns)

	identity, err := scanIdentity(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения пользователя: %w", err)
	}
	return identity, nil
}

func (r *identityRepo) FindFirstByRole(ctx context.Context, role string) (*model.Identity, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM users WHERE role = $1 ORDER BY created_at, id LIMIT 1`, identityColumns)

	identity, err := scanIdentity(r.db.QueryRow(ctx, query, role))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка поиска пользователя по роли: %w", err)
	}
	return identity, nil
}

func (r *identityRepo) CountByRole(ctx context.Context, role string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта пользователей: %w", err)
	}
	return count, nil
}

func (r *identityRepo) UpsertByEmail(ctx context.Context, email, passwordHash, role string) (*model.Identity, error) {
	query := fmt.Sprintf(`
		INSERT INTO users (id, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET
			password_hash = EXCLUDED.password_hash,
			role = EXCLUDED.role,
			updated_at = now()
		RETURNING %s`, identityColumns)

	identity, err := scanIdentity(r.db.QueryRow(ctx, query, uuid.NewString(), email, passwordHash, role))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("ошибка upsert пользователя: %w", err)
	}
	return identity, nil
}

func (r *identityRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`,
		id, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("ошибка обновления пароля: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
