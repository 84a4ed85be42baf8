// Package identity verifies bearer tokens presented to the API. Verification
// results are informational only; nothing in this service rejects a request
// because of them.
package identity

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "product-api"

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Issue signs an HS256 token for subject. It exists for local tooling and
// tests; the API itself never hands out tokens.
func (v *Verifier) Issue(subject, role string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

func (v *Verifier) Verify(tokenStr string) (Claims, error) {
	var c Claims

	token, err := jwt.ParseWithClaims(tokenStr, &c, func(*jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
	)
	if err != nil || token == nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	return c, nil
}
