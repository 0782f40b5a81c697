package service

import (
	"context"
	"errors"
	"strings"

	"admin-experimentai/internal/identity"
)

// AuthService signs admins in and out through the identity provider.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*identity.Session, error)
	Logout(ctx context.Context, accessToken string) error
	Me(ctx context.Context, accessToken string) (*identity.User, error)
}

type authService struct {
	provider identity.Provider
}

// NewAuthService initializes authentication service
func NewAuthService(provider identity.Provider) AuthService {
	return &authService{provider: provider}
}

func (s *authService) Login(ctx context.Context, email, password string) (*identity.Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, NewInvalidError("email and password are required")
	}
	session, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, identityError(err)
	}
	return session, nil
}

func (s *authService) Logout(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return NewUnauthorizedError("not signed in")
	}
	return identityError(s.provider.SignOut(ctx, accessToken))
}

func (s *authService) Me(ctx context.Context, accessToken string) (*identity.User, error) {
	if accessToken == "" {
		return nil, NewUnauthorizedError("not signed in")
	}
	user, err := s.provider.CurrentUser(ctx, accessToken)
	if err != nil {
		return nil, identityError(err)
	}
	return user, nil
}

func identityError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, identity.ErrInvalidCredentials):
		return &ServiceError{Code: ErrorUnauthorized, Message: err.Error(), Err: err}
	case errors.Is(err, identity.ErrUnauthorized):
		return &ServiceError{Code: ErrorUnauthorized, Message: "session expired, sign in again", Err: err}
	}
	return NewUnavailableError("identity provider unavailable", err)
}
