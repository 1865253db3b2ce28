package utils

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

const (
	RoleParent = "parent"
	RoleAdmin  = "admin"
)

// CallerContext is the immutable identity passed into every use case.
// Handlers build it once from the verified token and never mutate it.
type CallerContext struct {
	AccountID uuid.UUID
	Role      string
}

func (c CallerContext) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// Owns reports whether the caller may act on a resource owned by accountID.
func (c CallerContext) Owns(accountID uuid.UUID) bool {
	return c.IsAdmin() || c.AccountID == accountID
}

type Claims struct {
	AccountID string `json:"account_id"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

func CreateToken(accountID uuid.UUID, role string) (string, error) {
	claims := &Claims{
		AccountID: accountID.String(),
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 24)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

func ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
