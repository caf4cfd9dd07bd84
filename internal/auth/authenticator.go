package auth

import (
	"context"

	"learnly/internal/model"
)

// Authenticator is the account half of the identity provider.
type Authenticator interface {
	Register(ctx context.Context, email, name, password string) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	ValidateCredential(password string) error
	// Lookup returns ErrUserNotFound when no account has the id.
	Lookup(ctx context.Context, userID string) (*model.User, error)
}

var _ Authenticator = (*PasswordAuthenticator)(nil)
