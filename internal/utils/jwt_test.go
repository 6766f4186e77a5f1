package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTUtil_GenerateToken(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", time.Hour)
	userID := uuid.New()

	tokenString, err := jwtUtil.GenerateToken(userID)

	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	claims, err := jwtUtil.ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTUtil_DefaultLifetime(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", DefaultTokenLifetime)

	tokenString, err := jwtUtil.GenerateToken(uuid.New())
	require.NoError(t, err)

	claims, err := jwtUtil.ValidateToken(tokenString)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTUtil_ValidateToken_SubjectID(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", time.Hour)
	userID := uuid.New()

	tokenString, _ := jwtUtil.GenerateToken(userID)

	claims, err := jwtUtil.ValidateToken(tokenString)
	require.NoError(t, err)

	got, err := claims.SubjectID()
	assert.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestJWTUtil_ValidateToken_InvalidToken(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", time.Hour)

	_, err := jwtUtil.ValidateToken("invalid.token.string")
	assert.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenMalformed)
}

func TestJWTUtil_ValidateToken_ExpiredToken(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", -time.Hour) // Token expires in the past

	tokenString, _ := jwtUtil.GenerateToken(uuid.New())

	_, err := jwtUtil.ValidateToken(tokenString)
	assert.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTUtil_ValidateToken_WrongSecret(t *testing.T) {
	jwtUtil1 := NewJWTUtil("secret1", time.Hour)
	jwtUtil2 := NewJWTUtil("secret2", time.Hour)

	tokenString, _ := jwtUtil1.GenerateToken(uuid.New())

	_, err := jwtUtil2.ValidateToken(tokenString)
	assert.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestJWTUtil_ValidateToken_MissingExpiry(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", time.Hour)
	claims := &JWTClaims{UserID: uuid.NewString()}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte("secret"))

	_, err := jwtUtil.ValidateToken(tokenString)
	assert.Error(t, err)
}

func TestJWTUtil_ValidateToken_InvalidSigningMethod(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", time.Hour)
	claims := &JWTClaims{
		UserID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	tokenString, _ := token.SignedString(jwt.UnsafeAllowNoneSignatureType)

	_, err := jwtUtil.ValidateToken(tokenString)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected signing method")
}
