package service_test

import (
	"context"
	"testing"
	"time"

	"learnly/internal/auth"
	"learnly/internal/repository/memory"
	"learnly/internal/service"
	"learnly/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T) (*service.AuthService, *auth.JWTManager) {
	t.Helper()
	tokens := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(memory.New().Users()).WithCost(bcrypt.MinCost)
	return service.NewAuthService(authenticator, tokens, zaptest.NewLogger(t)), tokens
}

func TestCreateAccount_IssuesToken(t *testing.T) {
	svc, tokens := newAuthService(t)

	user, token, err := svc.CreateAccount(context.Background(), "alice@example.com", "secret1", "Alice")

	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	claims, err := tokens.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.Email, claims.Email)
}

func TestCreateAccount_Validation(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, _, err := svc.CreateAccount(ctx, "", "secret1", "")
	assert.ErrorIs(t, err, service.ErrValidation)

	_, _, err = svc.CreateAccount(ctx, "a@x.io", "12345", "")
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestCreateAccount_EmailInUse(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, _, err := svc.CreateAccount(ctx, "a@x.io", "secret1", "")
	require.NoError(t, err)
	_, _, err = svc.CreateAccount(ctx, "a@x.io", "secret2", "")

	assert.Equal(t, auth.CodeEmailInUse, auth.ErrorCode(err))
}

func TestSignIn_Outcomes(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	_, _, err := svc.CreateAccount(ctx, "a@x.io", "secret1", "")
	require.NoError(t, err)

	_, token, err := svc.SignIn(ctx, "a@x.io", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, _, err = svc.SignIn(ctx, "a@x.io", "nope-nope")
	assert.ErrorIs(t, err, auth.ErrWrongPassword)

	_, _, err = svc.SignIn(ctx, "ghost@x.io", "secret1")
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}

func TestSignOut_RevokesToken(t *testing.T) {
	svc, tokens := newAuthService(t)
	ctx := context.Background()
	_, token, err := svc.CreateAccount(ctx, "a@x.io", "secret1", "")
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(ctx, token))

	_, err = tokens.ParseToken(token)
	assert.ErrorIs(t, err, auth.ErrTokenRevoked)
	assert.Error(t, svc.SignOut(ctx, token))
}

func TestCurrentUser(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	created, _, err := svc.CreateAccount(ctx, "alice@example.com", "secret1", "Alice")
	require.NoError(t, err)

	user, err := svc.CurrentUser(ctx, session.New(created.ID, created.Email, "jti"))
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)

	_, err = svc.CurrentUser(ctx, session.New("missing", "ghost@example.com", "jti"))
	assert.ErrorIs(t, err, auth.ErrUserNotFound)

	_, err = svc.CurrentUser(ctx, session.Session{})
	assert.ErrorIs(t, err, session.ErrNoIdentity)
}
