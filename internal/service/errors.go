// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound — учётная запись не найдена.
	ErrNotFound = errors.New("учётная запись не найдена")
	// ErrAlreadyExists — администратор уже создан, первичная настройка запрещена.
	ErrAlreadyExists = errors.New("администратор уже существует")
	// ErrInvalidCredentials — неверная пара email/пароль (без уточнения, что именно не так).
	ErrInvalidCredentials = errors.New("неверные учётные данные")
	// ErrIncorrectPassword — текущий пароль не совпал при смене пароля.
	ErrIncorrectPassword = errors.New("текущий пароль неверен")
	// ErrConflict — запись с таким email создана параллельно.
	ErrConflict = errors.New("учётная запись с таким email уже существует")
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
)

// ValidationError — ошибка валидации с сообщением для клиента.
// errors.Is(err, ErrValidation) возвращает true.
type ValidationError struct {
	// Field — имя поля запроса
	Field string
	// Message — текст для ответа API
	Message string
}

// Error реализует интерфейс error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap связывает ошибку с ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
