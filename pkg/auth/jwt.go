package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid access token")

// Claims carried by every access token.
type Claims struct {
	UserID   int    `json:"user_id"`
	UserUUID string `json:"uuid"`
	jwt.RegisteredClaims
}

type JWT struct {
	Secret string
	TTL    time.Duration
}

func New(secret string, ttl time.Duration) *JWT {
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &JWT{Secret: secret, TTL: ttl}
}

func (j *JWT) CreateToken(userID int, userUUID string) (string, error) {
	now := time.Now()

	claims := Claims{
		UserID:   userID,
		UserUUID: userUUID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(j.Secret))
}

func (j *JWT) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		// Only HMAC is accepted. Anything else is an alg-confusion attempt.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return []byte(j.Secret), nil
	})

	if err != nil {
		slog.Error("Error verifying token", "error", err)
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)

	if !ok || !token.Valid {
		slog.Error("Invalid access token")
		return nil, ErrInvalidToken
	}

	return claims, nil
}
