package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admin-experimentai/internal/identity"
)

type fakeProvider struct {
	signInErr error
	lastEmail string
}

func (f *fakeProvider) SignIn(_ context.Context, email, _ string) (*identity.Session, error) {
	f.lastEmail = email
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return &identity.Session{AccessToken: "tok", User: identity.User{ID: "u-1", Email: email}}, nil
}

func (f *fakeProvider) SignOut(_ context.Context, token string) error {
	if token != "tok" {
		return identity.ErrUnauthorized
	}
	return nil
}

func (f *fakeProvider) CurrentUser(_ context.Context, token string) (*identity.User, error) {
	if token != "tok" {
		return nil, identity.ErrUnauthorized
	}
	return &identity.User{ID: "u-1", Email: "admin@experimentai.com"}, nil
}

func TestAuthService(t *testing.T) {
	provider := &fakeProvider{}
	auth := NewAuthService(provider)
	ctx := context.Background()

	session, err := auth.Login(ctx, " Admin@Experimentai.com ", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok", session.AccessToken)
	assert.Equal(t, "admin@experimentai.com", provider.lastEmail)

	_, err = auth.Login(ctx, "", "pw")
	requireCode(t, err, ErrorInvalid)

	provider.signInErr = identity.ErrInvalidCredentials
	_, err = auth.Login(ctx, "a@b.com", "pw")
	requireCode(t, err, ErrorUnauthorized)

	provider.signInErr = errors.New("connection refused")
	_, err = auth.Login(ctx, "a@b.com", "pw")
	requireCode(t, err, ErrorUnavailable)

	user, err := auth.Me(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	_, err = auth.Me(ctx, "old")
	requireCode(t, err, ErrorUnauthorized)

	require.NoError(t, auth.Logout(ctx, "tok"))
	requireCode(t, auth.Logout(ctx, ""), ErrorUnauthorized)
}
