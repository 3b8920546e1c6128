// Пакет token — выпуск и проверка подписанных HS256 JWT с identity claims
// (id, email, role). Секрет и политика срока действия передаются явно
// при создании Codec, глобального состояния нет.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Ошибки проверки токена. Тексты возвращаются клиенту как есть.
//
//nolint:staticcheck // ST1005: тексты ошибок — часть публичного API
var (
	// ErrInvalidSignature — подпись не сошлась, токен повреждён или подписан другим алгоритмом.
	ErrInvalidSignature = errors.New("Invalid token")
	// ErrExpired — срок действия (exp) истёк.
	ErrExpired = errors.New("Token expired")
	// ErrNotYetValid — токен ещё не активен (nbf в будущем).
	ErrNotYetValid = errors.New("Token not active")
	// ErrMalformedPayload — подпись верна, но claims не соответствуют {id, email, role}.
	ErrMalformedPayload = errors.New("Invalid token payload structure")
	// ErrNoSecret — секрет подписи не сконфигурирован.
	ErrNoSecret = errors.New("JWT secret is not configured")
)

// Размеры генерируемого секрета в байтах.
const (
	MinSecretBytes     = 32
	DefaultSecretBytes = 64
)

// Payload — identity claims внутри токена.
type Payload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// claims — формат claims при подписи.
type claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Codec подписывает и проверяет токены одним секретом.
// Безопасен для конкурентного использования.
type Codec struct {
	secret []byte
	expiry ExpiryPolicy
	now    func() time.Time
}

// Option — опция Codec.
type Option func(*Codec)

// WithClock подменяет источник времени (используется в тестах).
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCodec создаёт Codec с секретом и политикой срока действия.
func NewCodec(secret string, expiry ExpiryPolicy, opts ...Option) *Codec {
	c := &Codec{
		secret: []byte(secret),
		expiry: expiry,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Expiry возвращает политику срока действия Codec.
func (c *Codec) Expiry() ExpiryPolicy {
	return c.expiry
}

// Encode выпускает подписанный токен для payload.
// Claim exp пишется только при наличии срока действия в политике.
func (c *Codec) Encode(p Payload) (string, error) {
	if len(c.secret) == 0 {
		return "", ErrNoSecret
	}

	now := c.now()
	cl := claims{
		UserID: p.ID,
		Email:  p.Email,
		Role:   p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl, ok := c.expiry.TTL(); ok {
		cl.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("ошибка подписи токена: %w", err)
	}
	return signed, nil
}

// Decode проверяет подпись и временные claims токена и возвращает payload.
// Ошибки: ErrInvalidSignature, ErrExpired, ErrNotYetValid, ErrMalformedPayload, ErrNoSecret.
func (c *Codec) Decode(tokenString string) (Payload, error) {
	if len(c.secret) == 0 {
		return Payload{}, ErrNoSecret
	}

	raw := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, raw,
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Payload{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return Payload{}, ErrNotYetValid
		default:
			return Payload{}, ErrInvalidSignature
		}
	}

	return payloadFromClaims(raw)
}

// payloadFromClaims строго преобразует claims в Payload:
// id, email и role должны быть непустыми строками.
func payloadFromClaims(raw jwt.MapClaims) (Payload, error) {
	id, okID := raw["id"].(string)
	email, okEmail := raw["email"].(string)
	role, okRole := raw["role"].(string)

	if !okID || !okEmail || !okRole || id == "" || email == "" || role == "" {
		return Payload{}, ErrMalformedPayload
	}
	return Payload{ID: id, Email: email, Role: role}, nil
}

// GenerateSecret возвращает hex-строку из nBytes случайных байт.
// nBytes должен быть не меньше MinSecretBytes.
func GenerateSecret(nBytes int) (string, error) {
	if nBytes < MinSecretBytes {
		return "", fmt.Errorf("длина секрета должна быть не меньше %d байт, получено %d", MinSecretBytes, nBytes)
	}
	buf := make([]byte, nBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("ошибка генерации секрета: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
