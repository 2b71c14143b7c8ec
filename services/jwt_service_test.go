package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eldato-web/models"
	"eldato-web/types"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	js := NewJWTService("test-secret", 2)

	tok, err := js.GenerateSessionToken("sess-1", 42, models.RoleProvider)
	require.NoError(t, err)
	assert.Equal(t, int64(7200), tok.ExpiresIn)
	assert.Equal(t, "Bearer", tok.TokenType)

	claims, err := js.ValidateSessionToken(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "provider", claims.Role)
	assert.Equal(t, "42", claims.Subject)
}

func TestSessionTokenRejectsOtherSecret(t *testing.T) {
	tok, err := NewJWTService("one", 1).GenerateSessionToken("s", 1, models.RoleClient)
	require.NoError(t, err)

	_, err = NewJWTService("two", 1).ValidateSessionToken(tok.Token)
	assert.Error(t, err)
}

func TestSessionTokenRejectsExpiredAndUnbound(t *testing.T) {
	secret := []byte("k")
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &types.Claims{
		SessionID: "s",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			Issuer:    tokenIssuer,
		},
	})
	signed, err := expired.SignedString(secret)
	require.NoError(t, err)
	_, err = NewJWTService("k", 1).ValidateSessionToken(signed)
	assert.Error(t, err)

	unbound := jwt.NewWithClaims(jwt.SigningMethodHS256, &types.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: tokenIssuer},
	})
	signed, err = unbound.SignedString(secret)
	require.NoError(t, err)
	_, err = NewJWTService("k", 1).ValidateSessionToken(signed)
	assert.Error(t, err)
}
