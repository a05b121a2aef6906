package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	cfg := Config{JWTSecret: "s3cret"}

	token, err := GenerateToken(cfg, "operator", "admin")
	require.NoError(t, err)

	claims, err := ValidateToken("s3cret", token)
	require.NoError(t, err)
	assert.Equal(t, "operator", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "kvgate", claims.Issuer)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(Config{JWTSecret: "one"}, "operator", "")
	require.NoError(t, err)

	_, err = ValidateToken("two", token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenExpired(t *testing.T) {
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "operator",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	_, err = ValidateToken("s3cret", token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsOtherAlgorithms(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	_, err = ValidateToken("s3cret", token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateTokenWithoutSecret(t *testing.T) {
	_, err := GenerateToken(Config{}, "operator", "")
	assert.Error(t, err)
	assert.False(t, Config{}.Enabled())
}
