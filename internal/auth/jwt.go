// Package auth mints and verifies the bearer tokens issued by the session
// store. Tokens are HS256-signed JWTs with a real expiry; restoring a
// persisted session goes through the same verification as a fresh token.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/migueltorresd/gallery/internal/common"
	"github.com/migueltorresd/gallery/internal/models"
)

// Claims carries the registered claims plus the identity of the
// authenticated user.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int    `json:"uid"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// GenerateToken mints a signed token for user, valid for validityDuration.
func GenerateToken(user *models.User, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	})

	return token.SignedString(secretKey)
}

// ParseToken verifies the signature and expiry of tokenString and returns
// its claims. Any parse or validation failure is reported as
// common.ErrInvalidToken so callers can treat all bad tokens alike.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, common.ErrInvalidToken
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
