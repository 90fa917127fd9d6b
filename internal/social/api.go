package social

import (
	"context"

	"github.com/marketops/console/internal/apiclient"
)

const accounts = "/social/cuentas"

// API is the social resource module.
type API struct {
	client *apiclient.Client
}

// NewAPI builds the resource module on client.
func NewAPI(client *apiclient.Client) *API {
	return &API{client: client}
}

// Accounts lists the connected accounts.
func (a *API) Accounts(ctx context.Context) ([]Account, error) {
	var out []Account
	err := a.client.Get(ctx, accounts, nil, &out)
	return out, err
}

// Connect links an account.
func (a *API) Connect(ctx context.Context, req ConnectRequest) (Account, error) {
	var out Account
	err := a.client.Post(ctx, accounts, req, &out)
	return out, err
}

// Disconnect unlinks account id.
func (a *API) Disconnect(ctx context.Context, id int64) error {
	return a.client.Delete(ctx, apiclient.PathID(accounts, id), nil)
}

// Publish pushes a publication to its network now.
func (a *API) Publish(ctx context.Context, req PublishRequest) (PublishResult, error) {
	var out PublishResult
	err := a.client.Post(ctx, "/social/publicar", req, &out)
	return out, err
}
