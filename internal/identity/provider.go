// Package identity abstracts "authenticate a user, expose current-session
// identity" over Firebase Auth.
package identity

import (
	"context"
	"sync"
)

// TokenIdentity is the identity carried by a verified federated ID token.
type TokenIdentity struct {
	UID         string
	Email       string
	DisplayName string
}

// Provider is the authentication contract the auth controller is written
// against. The production implementation is Firebase Auth; tests
// substitute a recording mock.
type Provider interface {
	// SignInWithPassword exchanges email/password credentials for a
	// session ID (the provider-assigned user ID).
	SignInWithPassword(ctx context.Context, email, password string) (string, error)
	// CreateAccount registers a new password account and returns its
	// session ID.
	CreateAccount(ctx context.Context, email, password string) (string, error)
	// SignInWithToken verifies a federated ID token and returns the
	// identity it carries.
	SignInWithToken(ctx context.Context, idToken string) (*TokenIdentity, error)
	// SignOut clears the current session. Local clearing always succeeds;
	// remote invalidation is best effort.
	SignOut(ctx context.Context) error
	// CurrentSessionID returns the current session's user ID, or "" when
	// signed out.
	CurrentSessionID() string
}

// session tracks the current signed-in identity. Single writer (the
// provider), multiple readers.
type session struct {
	mu  sync.RWMutex
	uid string
}

func (s *session) set(uid string) {
	s.mu.Lock()
	s.uid = uid
	s.mu.Unlock()
}

func (s *session) get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.uid
}
