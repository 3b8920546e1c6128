// Пакет model — доменные модели portfolio backend.
package model

import (
	"strings"
	"time"
)

// Identity — учётная запись, которая может войти в систему.
// Хранится в таблице users.
type Identity struct {
	// ID — UUID записи
	ID string
	// Email — уникальный адрес, всегда в нижнем регистре
	Email string
	// PasswordHash — bcrypt-хэш пароля, наружу не отдаётся
	PasswordHash string `json:"-"`
	// Role — роль (admin, user)
	Role string
	// CreatedAt — время создания записи
	CreatedAt time.Time
	// UpdatedAt — время последнего обновления
	UpdatedAt time.Time
}

// PublicIdentity — представление учётной записи в ответах API.
type PublicIdentity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// IdentityInfo — расширенное представление с временными метками (для /admin/info).
type IdentityInfo struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Public возвращает представление без хэша пароля.
func (i *Identity) Public() PublicIdentity {
	return PublicIdentity{ID: i.ID, Email: i.Email, Role: i.Role}
}

// Info возвращает представление с временными метками.
func (i *Identity) Info() IdentityInfo {
	return IdentityInfo{
		ID:        i.ID,
		Email:     i.Email,
		Role:      i.Role,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

// NormalizeEmail приводит email к каноническому виду: без пробелов по краям, в нижнем регистре.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
