package service

import (
	"context"
	"errors"
	"strings"

	"learnly/internal/auth"
	"learnly/internal/model"
	"learnly/internal/session"

	"go.uber.org/zap"
)

// TokenManager issues, verifies and revokes bearer tokens.
type TokenManager interface {
	GenerateToken(user *model.User) (string, error)
	ParseToken(token string) (*auth.Claims, error)
	Revoke(claims *auth.Claims)
}

type AuthService struct {
	authenticator auth.Authenticator
	tokens        TokenManager
	log           *zap.Logger
}

func NewAuthService(authenticator auth.Authenticator, tokens TokenManager, log *zap.Logger) *AuthService {
	return &AuthService{authenticator: authenticator, tokens: tokens, log: log}
}

// CreateAccount registers the email and signs the new account in.
func (s *AuthService) CreateAccount(ctx context.Context, email, password, name string) (*model.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, "", invalid("email is required")
	}
	if err := s.authenticator.ValidateCredential(password); err != nil {
		return nil, "", invalid(err.Error())
	}

	user, err := s.authenticator.Register(ctx, email, name, password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailExists) {
			s.log.Warn("register: email in use", zap.String("identity", email))
			return nil, "", err
		}
		s.log.Error("register failed", zap.String("identity", email), zap.Error(err))
		return nil, "", backendErr(err, "create account")
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		s.log.Error("issue token failed", zap.String("user_id", user.ID), zap.Error(err))
		return nil, "", err
	}

	s.log.Info("account created", zap.String("user_id", user.ID), zap.String("identity", user.Email))
	return user, token, nil
}

// SignIn checks the password and issues a fresh token.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", invalid("email and password are required")
	}

	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		code := auth.ErrorCode(err)
		if code == auth.CodeOther {
			s.log.Error("sign in failed", zap.String("identity", email), zap.Error(err))
			return nil, "", backendErr(err, "sign in")
		}
		s.log.Warn("sign in rejected", zap.String("identity", email), zap.String("code", code))
		return nil, "", err
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		s.log.Error("issue token failed", zap.String("user_id", user.ID), zap.Error(err))
		return nil, "", err
	}

	s.log.Info("signed in", zap.String("user_id", user.ID), zap.String("identity", user.Email))
	return user, token, nil
}

// CurrentUser loads the account behind sess.
func (s *AuthService) CurrentUser(ctx context.Context, sess session.Session) (*model.User, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}

	user, err := s.authenticator.Lookup(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			s.log.Warn("current user: account missing", zap.String("user_id", sess.UserID))
			return nil, err
		}
		s.log.Error("current user failed", zap.String("user_id", sess.UserID), zap.Error(err))
		return nil, backendErr(err, "current user")
	}
	return user, nil
}

// SignOut revokes token until it expires.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return err
	}
	s.tokens.Revoke(claims)
	s.log.Info("signed out", zap.String("user_id", claims.UserID), zap.String("identity", claims.Email))
	return nil
}
