// Package auth wraps server-side session tokens into signed cookie values
// and carries the authenticated user through request contexts.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/urbannest/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

const issuer = "urbannest"

// SealSession signs the opaque session token into an HS256 JWT that
// expires together with the session row.
func SealSession(sessionToken string, secretKey []byte, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   sessionToken,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})

	return token.SignedString(secretKey)
}

// OpenSession verifies a cookie value and returns the session token inside.
// Expired values yield common.ErrTokenExpired, anything else that does not
// verify yields common.ErrInvalidToken.
func OpenSession(value string, secretKey []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(value, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}
