package token

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// expiryPattern — целое число с необязательной единицей s/m/h/d (регистр не важен).
var expiryPattern = regexp.MustCompile(`(?i)^(\d+)([smhd])?$`)

// ExpiryPolicy — политика срока жизни выпускаемых токенов.
// Нулевое значение означает «без срока действия» (claim exp не пишется).
type ExpiryPolicy struct {
	ttl time.Duration
}

// Never возвращает политику без срока действия.
func Never() ExpiryPolicy {
	return ExpiryPolicy{}
}

// ExpiryAfter возвращает политику с относительным сроком действия.
// Значения <= 0 трактуются как «без срока действия».
func ExpiryAfter(ttl time.Duration) ExpiryPolicy {
	if ttl <= 0 {
		return Never()
	}
	return ExpiryPolicy{ttl: ttl}
}

// ExpirySeconds возвращает политику для абсолютного числа секунд.
// Значения <= 0 трактуются как «без срока действия».
func ExpirySeconds(seconds int64) ExpiryPolicy {
	if seconds <= 0 || seconds > math.MaxInt64/int64(time.Second) {
		return Never()
	}
	return ExpiryPolicy{ttl: time.Duration(seconds) * time.Second}
}

// ParseExpiry разбирает значение JWT_EXPIRES_IN.
// Пустая строка и "never" — без срока действия; "3600" — секунды;
// "30m", "24h", "7d" — длительность. Нераспознанные значения молча
// трактуются как «без срока действия» (см. IsValidExpiry для предупреждения).
func ParseExpiry(s string) ExpiryPolicy {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "never") {
		return Never()
	}

	m := expiryPattern.FindStringSubmatch(s)
	if m == nil {
		return Never()
	}

	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || n <= 0 {
		return Never()
	}

	unit := time.Second
	switch strings.ToLower(m[2]) {
	case "m":
		unit = time.Minute
	case "h":
		unit = time.Hour
	case "d":
		unit = 24 * time.Hour
	}

	if n > math.MaxInt64/int64(unit) {
		return Never()
	}
	return ExpiryPolicy{ttl: time.Duration(n) * unit}
}

// IsValidExpiry сообщает, задаёт ли строка ожидаемую политику срока действия.
// Ложь для значений, которые ParseExpiry молча превращает в «без срока»:
// нераспознанных, нулевых и переполняющих time.Duration.
// Используется валидатором конфигурации для предупреждений.
func IsValidExpiry(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "never") {
		return true
	}
	_, ok := ParseExpiry(s).TTL()
	return ok
}

// TTL возвращает срок действия и признак его наличия.
func (p ExpiryPolicy) TTL() (time.Duration, bool) {
	return p.ttl, p.ttl > 0
}

// String возвращает человекочитаемое представление политики (для логов).
func (p ExpiryPolicy) String() string {
	if p.ttl <= 0 {
		return "never"
	}
	return p.ttl.String()
}
