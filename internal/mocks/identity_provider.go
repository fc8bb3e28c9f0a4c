package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Carlvinchi/recipiverse/internal/identity"
)

// IdentityProvider is a mock implementation of identity.Provider.
type IdentityProvider struct {
	mock.Mock
}

func (m *IdentityProvider) SignInWithPassword(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *IdentityProvider) CreateAccount(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *IdentityProvider) SignInWithToken(ctx context.Context, idToken string) (*identity.TokenIdentity, error) {
	args := m.Called(ctx, idToken)
	if id := args.Get(0); id != nil {
		return id.(*identity.TokenIdentity), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *IdentityProvider) SignOut(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *IdentityProvider) CurrentSessionID() string {
	args := m.Called()
	return args.String(0)
}
