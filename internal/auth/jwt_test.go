package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return tok
}

func validClaims(subject string) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
}

func TestNewVerifier_RequiresSecret(t *testing.T) {
	_, err := NewVerifier("  ")
	require.Error(t, err)
}

func TestUsername_Valid(t *testing.T) {
	v, err := NewVerifier("secret")
	require.NoError(t, err)

	got, err := v.Username(sign(t, jwt.SigningMethodHS256, []byte("secret"), validClaims("alice")))
	require.NoError(t, err)
	assert.Equal(t, "alice", got)
}

func TestUsername_Rejections(t *testing.T) {
	v, err := NewVerifier("secret")
	require.NoError(t, err)

	cases := map[string]string{
		"wrong secret": sign(t, jwt.SigningMethodHS256, []byte("other"), validClaims("alice")),
		"expired": sign(t, jwt.SigningMethodHS256, []byte("secret"), jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		}),
		"no expiry":   sign(t, jwt.SigningMethodHS256, []byte("secret"), jwt.RegisteredClaims{Subject: "alice"}),
		"wrong alg":   sign(t, jwt.SigningMethodHS512, []byte("secret"), validClaims("alice")),
		"none alg":    sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, validClaims("alice")),
		"garbage":     "not-a-token",
		"empty token": "",
	}
	for name, tok := range cases {
		_, err := v.Username(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, name)
	}
}

func TestUsername_MissingSubject(t *testing.T) {
	v, err := NewVerifier("secret")
	require.NoError(t, err)

	_, err = v.Username(sign(t, jwt.SigningMethodHS256, []byte("secret"), validClaims(" ")))
	require.True(t, errors.Is(err, ErrMissingSubject))
}
