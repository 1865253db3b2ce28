package robokassa

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// StateSuccess is the sentinel the gateway puts in a token payload when
// the payment went through.
const StateSuccess = "OK"

var ErrBadToken = errors.New("robokassa: invalid or expired token")

// TokenPayload is the verified content of a signed-token notification.
type TokenPayload struct {
	State         string
	InvID         int64
	OpKey         string
	PaymentMethod string
	IncSumMinor   int64
}

type tokenClaims struct {
	State         string `json:"state"`
	InvID         int64  `json:"invId"`
	OpKey         string `json:"opKey"`
	PaymentMethod string `json:"paymentMethod"`
	IncSum        string `json:"incSum"`
	jwt.RegisteredClaims
}

// VerifyToken validates the token's HS256 signature and expiry against
// the webhook secret and returns the structured payload. Malformed or
// tampered input yields ErrBadToken, never a panic.
func VerifyToken(tokenString, secret string) (*TokenPayload, error) {
	if tokenString == "" {
		return nil, ErrBadToken
	}

	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrBadToken
	}

	payload := &TokenPayload{
		State:         claims.State,
		InvID:         claims.InvID,
		OpKey:         claims.OpKey,
		PaymentMethod: claims.PaymentMethod,
	}
	if claims.IncSum != "" {
		minor, err := parseDecimalMinor(claims.IncSum)
		if err != nil {
			return nil, ErrBadToken
		}
		payload.IncSumMinor = minor
	}

	return payload, nil
}
