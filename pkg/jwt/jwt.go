package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrExpired el token venció; el cliente debe pedir uno nuevo.
	ErrExpired = errors.New("jwt: token expirado")
	// ErrInvalid firma, formato o claims incorrectos.
	ErrInvalid = errors.New("jwt: token inválido")
)

// Identity lo que el token afirma sobre quien llama. BaseID vacío para admin.
type Identity struct {
	UserID string
	Role   string
	BaseID string
}

type claims struct {
	jwt.RegisteredClaims
	Role   string `json:"role"`
	BaseID string `json:"base_id,omitempty"`
}

// Sign firma id con HS256. El sujeto del token es el UserID.
func Sign(secret, issuer string, id Identity, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role:   id.Role,
		BaseID: id.BaseID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
}

// Verify valida firma y expiración y devuelve la identidad del token.
func Verify(secret, token string) (Identity, error) {
	if secret == "" {
		return Identity{}, fmt.Errorf("jwt: secret vacío")
	}
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Identity{}, fmt.Errorf("%w: %w", ErrExpired, err)
	case err != nil:
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	case c.Subject == "":
		return Identity{}, fmt.Errorf("%w: sin sujeto", ErrInvalid)
	}
	return Identity{UserID: c.Subject, Role: c.Role, BaseID: c.BaseID}, nil
}
