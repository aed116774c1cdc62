package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token stages. A gate token only proves the passphrase screen was passed;
// an admin token names an authenticated user.
const (
	StageGate  = "gate"
	StageAdmin = "admin"
)

type Claims struct {
	Stage  string `json:"stage"`
	UserID string `json:"user_id,omitempty"`
	jwt.RegisteredClaims
}

// GenerateJWT signs a token for the given stage and returns it with its id.
func GenerateJWT(secret, stage, uid string, ttl time.Duration) (string, string, error) {
	jti := uuid.NewString()
	claims := Claims{
		Stage:  stage,
		UserID: uid,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString([]byte(secret))
	return s, jti, err
}

func ParseJWT(secret, token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}
