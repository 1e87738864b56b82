package client

import (
	"context"
	"net/http"
	"time"

	ierrors "github.com/veridata/dataquality-go/internal/errors"
)

// RoleType is the backend-assigned authorization role of a user.
type RoleType string

const (
	RoleOwner   RoleType = "owner"
	RoleAdmin   RoleType = "admin"
	RoleAnalyst RoleType = "analyst"
	RoleViewer  RoleType = "viewer"
)

// User is the server-owned account record; the client treats it as an
// immutable snapshot.
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	Role             RoleType  `json:"role"`
	OrganizationName string    `json:"organization_name,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	Name             string `json:"name"`
	OrganizationName string `json:"organization_name,omitempty"`
}

// TokenResponse is the body returned by the login endpoint.
type TokenResponse struct {
	// AccessToken is the bearer credential attached to every subsequent
	// authenticated request.
	AccessToken string `json:"access_token"`

	// TokenType is always "bearer".
	TokenType string `json:"token_type,omitempty"`

	// ExpiresIn is the token lifetime in seconds. A hint - the authoritative
	// expiry is the JWT's own exp claim.
	ExpiresIn int `json:"expires_in,omitempty"`
}

// Login exchanges credentials for a bearer token. The token is returned, not
// stored; propagation into the client is the session bridge's job.
func (c *Client) Login(ctx context.Context, creds Credentials) (*TokenResponse, error) {
	if creds.Email == "" || creds.Password == "" {
		return nil, ierrors.ErrInvalidCredentials
	}
	var tr TokenResponse
	if err := c.json(ctx, http.MethodPost, "/auth/login", nil, creds, &tr); err != nil {
		return nil, err
	}
	return &tr, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	var user User
	if err := c.json(ctx, http.MethodPost, "/auth/register", nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Me returns the account behind the current bearer token.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.json(ctx, http.MethodGet, "/auth/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Users(ctx context.Context) (Page[User], error) {
	var users []User
	if err := c.json(ctx, http.MethodGet, "/auth/users", nil, nil, &users); err != nil {
		return Page[User]{}, err
	}
	return NewPage(users), nil
}

func (c *Client) UpdateUserRole(ctx context.Context, userID string, role RoleType) (*User, error) {
	if userID == "" {
		return nil, ierrors.ErrEmptyID
	}
	body := map[string]RoleType{"role": role}
	var user User
	if err := c.json(ctx, http.MethodPut, "/auth/users/"+userID+"/role", nil, body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	if userID == "" {
		return ierrors.ErrEmptyID
	}
	return c.json(ctx, http.MethodDelete, "/auth/users/"+userID, nil, nil, nil)
}
