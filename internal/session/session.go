// Package session carries the caller's identity into every service call.
package session

import (
	"errors"
	"strings"
)

var ErrNoIdentity = errors.New("no authenticated identity")

// Session is the authenticated caller. Identity is the account email and is
// the membership key for groups and tasks.
type Session struct {
	UserID   string
	Identity string
	TokenID  string
}

func New(userID, identity, tokenID string) Session {
	return Session{
		UserID:   userID,
		Identity: strings.ToLower(strings.TrimSpace(identity)),
		TokenID:  tokenID,
	}
}

// Validate fails when the session has no identity to act as.
func (s Session) Validate() error {
	if strings.TrimSpace(s.Identity) == "" {
		return ErrNoIdentity
	}
	return nil
}
