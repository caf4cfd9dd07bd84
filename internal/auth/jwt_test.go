package auth_test

import (
	"testing"
	"time"

	"learnly/internal/auth"
	"learnly/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func TestGenerateAndParseToken(t *testing.T) {
	manager := auth.NewJWTManager(testSecret, 24*time.Hour)
	user := &model.User{ID: "test-user-id", Email: "alice@example.com"}

	// Генерируем токен
	token, err := manager.GenerateToken(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	// Парсим токен и проверяем claims
	claims, err := manager.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.NotEmpty(t, claims.ID)
}

func TestParseToken_InvalidToken(t *testing.T) {
	manager := auth.NewJWTManager(testSecret, time.Hour)

	_, err := manager.ParseToken("invalid-token")

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_Empty(t *testing.T) {
	manager := auth.NewJWTManager(testSecret, time.Hour)

	_, err := manager.ParseToken("")

	assert.ErrorIs(t, err, auth.ErrMissingToken)
}

func TestParseToken_ExpiredToken(t *testing.T) {
	manager := auth.NewJWTManager(testSecret, time.Hour)

	// Токен истек 1 час назад
	claims := jwt.MapClaims{
		"user_id": "test-user-id",
		"email":   "alice@example.com",
		"jti":     "expired",
		"exp":     time.Now().Add(-1 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	expiredToken, _ := token.SignedString([]byte(testSecret))

	_, err := manager.ParseToken(expiredToken)

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_WrongSecret(t *testing.T) {
	issuer := auth.NewJWTManager("another-secret", time.Hour)
	manager := auth.NewJWTManager(testSecret, time.Hour)

	token, err := issuer.GenerateToken(&model.User{ID: "u1", Email: "a@x.io"})
	require.NoError(t, err)

	_, err = manager.ParseToken(token)

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_MissingClaims(t *testing.T) {
	manager := auth.NewJWTManager(testSecret, time.Hour)

	// Отсутствует "email"
	claims := jwt.MapClaims{
		"user_id": "test-user-id",
		"jti":     "some-id",
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenWithoutEmail, _ := token.SignedString([]byte(testSecret))

	_, err := manager.ParseToken(tokenWithoutEmail)

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRevoke_RejectsSignedOutToken(t *testing.T) {
	manager := auth.NewJWTManager(testSecret, time.Hour)

	token, err := manager.GenerateToken(&model.User{ID: "u1", Email: "a@x.io"})
	require.NoError(t, err)
	claims, err := manager.ParseToken(token)
	require.NoError(t, err)

	manager.Revoke(claims)

	_, err = manager.ParseToken(token)
	assert.ErrorIs(t, err, auth.ErrTokenRevoked)

	// Другие токены того же пользователя продолжают работать
	other, err := manager.GenerateToken(&model.User{ID: "u1", Email: "a@x.io"})
	require.NoError(t, err)
	_, err = manager.ParseToken(other)
	assert.NoError(t, err)
}

func TestRevocationList_ForgetsExpiredEntries(t *testing.T) {
	list := auth.NewRevocationList()

	list.Revoke("old", time.Now().Add(-time.Minute))
	list.Revoke("live", time.Now().Add(time.Hour))

	assert.False(t, list.IsRevoked("old"))
	assert.True(t, list.IsRevoked("live"))
	assert.Equal(t, 1, list.Len())
}
