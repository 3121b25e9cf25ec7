package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(accessExp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  accessExp,
		RefreshTokenExp: 720 * time.Hour,
		TokenIssuer:     "proske.test",
	})
}

func TestGenerateAndValidateTokenPair(t *testing.T) {
	svc := newTestService(time.Hour)

	access, refresh, expiresIn, refreshExpiresIn, err := svc.GenerateTokenPair(42, "teacher@proske.app", "teacher")
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.Equal(t, 3600, expiresIn)
	assert.Equal(t, int((720 * time.Hour).Seconds()), refreshExpiresIn)

	claims, err := svc.ValidateAndExtractClaims(access)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "teacher@proske.app", claims.Email)
	assert.Equal(t, "teacher", claims.Role)
	assert.Equal(t, "proske.test", claims.Issuer)
}

func TestValidateTokenExpired(t *testing.T) {
	svc := newTestService(-time.Minute)

	access, _, _, _, err := svc.GenerateTokenPair(1, "student@proske.app", "student")
	require.NoError(t, err)

	_, err = svc.ValidateToken(access)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	svc := newTestService(time.Hour)
	other := NewJWTService(JWTConfig{SecretKey: "other-secret", AccessTokenExp: time.Hour})

	access, _, _, _, err := svc.GenerateTokenPair(1, "student@proske.app", "student")
	require.NoError(t, err)

	_, err = other.ValidateToken(access)
	assert.Error(t, err)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	token, err = ExtractBearerToken("abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "s3cret-password"))
	assert.False(t, CheckPassword(hash, "wrong-password"))
}
