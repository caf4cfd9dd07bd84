package auth

import (
	"sync"
	"time"
)

// RevocationList remembers signed-out token ids until they would have
// expired anyway.
type RevocationList struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewRevocationList() *RevocationList {
	return &RevocationList{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (l *RevocationList) Revoke(tokenID string, expiresAt time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.prune()
	l.revoked[tokenID] = expiresAt
}

func (l *RevocationList) IsRevoked(tokenID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	expiresAt, ok := l.revoked[tokenID]
	if !ok {
		return false
	}
	if !l.now().Before(expiresAt) {
		delete(l.revoked, tokenID)
		return false
	}
	return true
}

// Len counts entries that have not expired yet.
func (l *RevocationList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.prune()
	return len(l.revoked)
}

func (l *RevocationList) prune() {
	now := l.now()
	for id, exp := range l.revoked {
		if !now.Before(exp) {
			delete(l.revoked, id)
		}
	}
}
