package service

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Ограничения на пароль. bcrypt учитывает только первые 72 байта.
const (
	MinPasswordLength   = 8
	MaxPasswordBytes    = 72
	msgPasswordTooShort = "Password must be at least 8 characters"
	msgPasswordTooLong  = "Password must be at most 72 bytes"
	msgInvalidEmail     = "Valid email required"
)

// validateEmail проверяет, что email — одиночный адрес вида local@domain.tld.
// На вход ожидается уже нормализованный email.
func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return &ValidationError{Field: "email", Message: msgInvalidEmail}
	}
	at := strings.LastIndexByte(email, '@')
	domain := email[at+1:]
	if !strings.Contains(domain, ".") || strings.HasSuffix(domain, ".") {
		return &ValidationError{Field: "email", Message: msgInvalidEmail}
	}
	return nil
}

// validateNewPassword проверяет длину нового пароля.
func validateNewPassword(field, password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return &ValidationError{Field: field, Message: msgPasswordTooShort}
	}
	if len(password) > MaxPasswordBytes {
		return &ValidationError{Field: field, Message: msgPasswordTooLong}
	}
	return nil
}

// requireNonEmpty проверяет, что поле задано.
func requireNonEmpty(field, value, message string) error {
	if value == "" {
		return &ValidationError{Field: field, Message: message}
	}
	return nil
}
