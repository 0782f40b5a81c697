package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"admin-experimentai/utilities"
)

// GoTrueClient talks to a GoTrue compatible auth server, the one hosted
// projects expose under /auth/v1.
type GoTrueClient struct {
	baseURL string
	anonKey string
	client  *http.Client
}

func NewGoTrueClient(baseURL, anonKey string, timeout time.Duration) *GoTrueClient {
	return &GoTrueClient{
		baseURL: strings.TrimRight(baseURL, "/") + "/auth/v1",
		anonKey: anonKey,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type apiError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
}

func (c *GoTrueClient) SignIn(ctx context.Context, email, password string) (*Session, error) {
	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var session Session
	status, err := c.do(ctx, http.MethodPost, "/token?grant_type=password", "", body, &session)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK:
		return &session, nil
	case http.StatusBadRequest, http.StatusUnauthorized:
		return nil, ErrInvalidCredentials
	}
	return nil, fmt.Errorf("%w: sign in returned %d", ErrUnavailable, status)
}

func (c *GoTrueClient) SignOut(ctx context.Context, accessToken string) error {
	status, err := c.do(ctx, http.MethodPost, "/logout", accessToken, nil, nil)
	if err != nil {
		return err
	}
	switch status {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	}
	return fmt.Errorf("%w: sign out returned %d", ErrUnavailable, status)
}

func (c *GoTrueClient) CurrentUser(ctx context.Context, accessToken string) (*User, error) {
	var user User
	status, err := c.do(ctx, http.MethodGet, "/user", accessToken, nil, &user)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK:
		return &user, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	}
	return nil, fmt.Errorf("%w: user lookup returned %d", ErrUnavailable, status)
}

// do sends one request and decodes a 200 body into out. Error bodies are
// only logged.
func (c *GoTrueClient) do(ctx context.Context, method, path, accessToken string, body []byte, out interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.anonKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&apiErr) == nil {
			utilities.Debug("identity %s %s: %d %s%s%s", method, path, resp.StatusCode, apiErr.Error, apiErr.ErrorDescription, apiErr.Msg)
		}
		return resp.StatusCode, nil
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return 0, fmt.Errorf("%w: bad response: %v", ErrUnavailable, err)
		}
	}
	return resp.StatusCode, nil
}
