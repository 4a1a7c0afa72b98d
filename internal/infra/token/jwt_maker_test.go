package token

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/require"
)

const testSecret = "01234567890123456789012345678901"

func TestJWTMaker(t *testing.T) {
	maker, err := NewJWTMaker(testSecret)
	require.NoError(t, err)

	issuedAt := time.Now()
	duration := time.Hour

	tokenStr, err := maker.CreateToken(42, "admin", duration)
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)

	payload, err := maker.VerifyToken(tokenStr)
	require.NoError(t, err)
	require.Equal(t, uint(42), payload.UserID)
	require.Equal(t, "admin", payload.Role)
	require.WithinDuration(t, issuedAt, payload.IssuedAt, time.Second)
	require.WithinDuration(t, issuedAt.Add(duration), payload.ExpiredAt, time.Second)
}

func TestJWTMaker_ShortSecret(t *testing.T) {
	_, err := NewJWTMaker("too-short")
	require.Error(t, err)
}

func TestJWTMaker_ExpiredToken(t *testing.T) {
	maker, err := NewJWTMaker(testSecret)
	require.NoError(t, err)

	tokenStr, err := maker.CreateToken(42, "customer", -time.Minute)
	require.NoError(t, err)

	payload, err := maker.VerifyToken(tokenStr)
	require.ErrorIs(t, err, ErrExpiredToken)
	require.Nil(t, payload)
}

// alg:none攻擊必須被擋下
func TestJWTMaker_NoneAlgorithm(t *testing.T) {
	payload := &Payload{
		UserID:    42,
		Role:      "admin",
		IssuedAt:  time.Now(),
		ExpiredAt: time.Now().Add(time.Hour),
	}

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodNone, payload)
	tokenStr, err := jwtToken.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	maker, err := NewJWTMaker(testSecret)
	require.NoError(t, err)

	verified, err := maker.VerifyToken(tokenStr)
	require.ErrorIs(t, err, ErrInvalidToken)
	require.Nil(t, verified)
}

func TestJWTMaker_WrongSecret(t *testing.T) {
	maker, err := NewJWTMaker(testSecret)
	require.NoError(t, err)
	other, err := NewJWTMaker("abcdefghijklmnopqrstuvwxyz012345")
	require.NoError(t, err)

	tokenStr, err := maker.CreateToken(42, "customer", time.Hour)
	require.NoError(t, err)

	_, err = other.VerifyToken(tokenStr)
	require.ErrorIs(t, err, ErrInvalidToken)
}
