package session_test

import (
	"testing"

	"learnly/internal/session"

	"github.com/stretchr/testify/assert"
)

func TestNew_NormalizesIdentity(t *testing.T) {
	s := session.New("u1", "  Alice@Example.COM ", "jti")

	assert.Equal(t, "alice@example.com", s.Identity)
	assert.Equal(t, "u1", s.UserID)
	assert.Equal(t, "jti", s.TokenID)
	assert.NoError(t, s.Validate())
}

func TestValidate_EmptyIdentity(t *testing.T) {
	assert.ErrorIs(t, session.Session{}.Validate(), session.ErrNoIdentity)
	assert.ErrorIs(t, session.New("u1", "   ", "").Validate(), session.ErrNoIdentity)
}
