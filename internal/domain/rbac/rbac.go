// Пакет rbac — роли учётных записей и проверка доступа по роли.
// Роли упорядочены по привилегиям, неизвестная роль не даёт никаких прав.
package rbac

// Роли в порядке возрастания привилегий.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// roleWeight — вес роли для сравнения.
// Чем выше вес, тем больше привилегий.
var roleWeight = map[string]int{
	RoleUser:  1,
	RoleAdmin: 2,
}

// Satisfies проверяет, что роль не ниже требуемой.
// Неизвестные роли (в том числе пустая) не удовлетворяют ничему,
// неизвестную требуемую роль не удовлетворяет никто.
func Satisfies(role, required string) bool {
	rw, ok := roleWeight[required]
	if !ok {
		return false
	}
	w, ok := roleWeight[role]
	if !ok {
		return false
	}
	return w >= rw
}
