// Package auth is the resource module for /api/auth.
package auth

import (
	"context"

	"github.com/marketops/console/internal/apiclient"
	"github.com/marketops/console/internal/users"
)

// API is the auth resource module.
type API struct {
	client *apiclient.Client
}

// NewAPI builds the resource module on client.
func NewAPI(client *apiclient.Client) *API {
	return &API{client: client}
}

// Login exchanges credentials for a token.
func (a *API) Login(ctx context.Context, creds Credentials) (Response, error) {
	var out Response
	err := a.client.Post(ctx, "/auth/login", creds, &out)
	return out, err
}

// Register creates an account and signs it in.
func (a *API) Register(ctx context.Context, reg Registration) (Response, error) {
	var out Response
	err := a.client.Post(ctx, "/auth/register", reg, &out)
	return out, err
}

// Profile returns the user owning the current token.
func (a *API) Profile(ctx context.Context) (users.User, error) {
	var out users.User
	err := a.client.Get(ctx, "/auth/profile", nil, &out)
	return out, err
}
