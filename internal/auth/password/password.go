// Пакет password — одностороннее хэширование паролей (bcrypt)
// и проверка открытого пароля против сохранённого хэша.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Cost — фиксированный cost factor bcrypt для всех хэшей сервиса.
const Cost = 10

// Hash возвращает bcrypt-хэш пароля. Соль генерируется bcrypt и хранится внутри хэша.
func Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), Cost)
	if err != nil {
		return "", fmt.Errorf("ошибка хэширования пароля: %w", err)
	}
	return string(hash), nil
}

// Verify сравнивает пароль с хэшем.
// Несовпадение и повреждённый хэш дают false, а не ошибку.
func Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
