package auth

import (
	"context"
	"errors"
	"strings"

	"learnly/internal/model"
	"learnly/internal/repository"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// PasswordAuthenticator keeps bcrypt hashed passwords in a UserStore.
type PasswordAuthenticator struct {
	users repository.UserStore
	cost  int
}

func NewPasswordAuthenticator(users repository.UserStore) *PasswordAuthenticator {
	return &PasswordAuthenticator{users: users, cost: bcrypt.DefaultCost}
}

// WithCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (a *PasswordAuthenticator) WithCost(cost int) *PasswordAuthenticator {
	a.cost = cost
	return a
}

func (a *PasswordAuthenticator) ValidateCredential(password string) error {
	if len(password) < minPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// Register creates the account. The email is stored lowercased.
func (a *PasswordAuthenticator) Register(ctx context.Context, email, name, password string) (*model.User, error) {
	if err := a.ValidateCredential(password); err != nil {
		return nil, err
	}
	email = normalizeEmail(email)

	existing, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "lookup account")
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "hash password")
	}

	user := &model.User{
		Email:          email,
		Name:           strings.TrimSpace(name),
		HashedPassword: string(hash),
	}
	if err := a.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailExists
		}
		return nil, pkgerrors.Wrap(err, "create account")
	}
	return user, nil
}

// Authenticate tells an unknown email apart from a wrong password.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := a.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "lookup account")
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, ErrWrongPassword
	}
	return user, nil
}

func (a *PasswordAuthenticator) Lookup(ctx context.Context, userID string) (*model.User, error) {
	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "lookup account")
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
