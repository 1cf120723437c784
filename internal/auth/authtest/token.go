// Package authtest mints access tokens for tests, signed the way the hotel
// account service signs them.
package authtest

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/hotel-booking-backend/internal/auth"
)

// Token returns an HS256 token for the user, valid for 30 minutes.
func Token(t testing.TB, secret, userID, email, role string) string {
	t.Helper()
	now := time.Now().UTC()

	claims := &auth.Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(30 * time.Minute)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err, "failed to sign test token")
	return signed
}
