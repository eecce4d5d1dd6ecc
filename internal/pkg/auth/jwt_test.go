package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_SignParse(t *testing.T) {
	ts := NewTokenService("secret", "milan-history-map", time.Hour)

	token, exp, err := ts.Sign("user-1", "Giulia")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := ts.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "Giulia", claims.Name)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestTokenService_RejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenService("secret", "iss", time.Hour).Sign("user-1", "")
	require.NoError(t, err)

	_, err = NewTokenService("other", "iss", time.Hour).Parse(token)
	assert.Error(t, err)
}

func TestTokenService_RejectsExpired(t *testing.T) {
	ts := NewTokenService("secret", "iss", -time.Minute)
	token, _, err := ts.Sign("user-1", "")
	require.NoError(t, err)

	_, err = ts.Parse(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenService_RejectsOtherAlgorithm(t *testing.T) {
	ts := NewTokenService("secret", "iss", time.Hour)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "iss"}})
	s, err := tok.SignedString(ts.Secret)
	require.NoError(t, err)

	_, err = ts.Parse(s)
	assert.Error(t, err)
}
