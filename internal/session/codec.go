package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"complaintdesk/internal/models"
)

// TTL is the absolute validity window of a session token. Tokens always
// expire 24 hours after issuance regardless of caller input; refresh works by
// re-issuing, not by extending.
const TTL = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid session token")

// UserClaims is the user snapshot embedded in a session token. The role is
// captured at issuance time and is not re-checked against the store until the
// token expires or is reissued.
type UserClaims struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u UserClaims) IsAdmin() bool {
	return u.Role == string(models.UserRoleAdmin)
}

type Claims struct {
	User UserClaims `json:"user"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session tokens with a process-wide symmetric
// secret. The algorithm is pinned to HS256 on both sides.
type Codec struct {
	secret []byte
}

func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("session secret must not be empty")
	}
	return &Codec{secret: []byte(secret)}, nil
}

// Encrypt serializes and signs the user snapshot. Issued-at is now and the
// expiry is fixed at TTL from now.
func (c *Codec) Encrypt(user UserClaims) (string, error) {
	now := time.Now()
	claims := Claims{
		User: user,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
			Subject:   user.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Decrypt verifies the signature, algorithm and expiry. Every failure mode
// collapses to ErrInvalidToken; callers must treat an invalid token exactly
// like an absent one.
func (c *Codec) Decrypt(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
