package users

import (
	"context"

	"github.com/marketops/console/internal/apiclient"
	"github.com/marketops/console/internal/shared"
)

const resource = "/usuarios"

// ListKeys are the filters GET /usuarios recognises.
var ListKeys = []string{"rol", "activo", "search"}

// API is the usuarios resource module.
type API struct {
	client *apiclient.Client
}

// NewAPI builds the resource module on client.
func NewAPI(client *apiclient.Client) *API {
	return &API{client: client}
}

// List returns one page of users. Recognised filters: rol, activo, search.
func (a *API) List(ctx context.Context, params shared.ListParams) (shared.Page[User], error) {
	var out shared.Page[User]
	err := a.client.Get(ctx, resource, params.Query(ListKeys...), &out)
	return out, err
}

// Get returns one user.
func (a *API) Get(ctx context.Context, id int64) (User, error) {
	var out User
	err := a.client.Get(ctx, apiclient.PathID(resource, id), nil, &out)
	return out, err
}

// Create registers a user.
func (a *API) Create(ctx context.Context, draft Draft) (User, error) {
	var out User
	err := a.client.Post(ctx, resource, draft, &out)
	return out, err
}

// Update replaces the editable fields of user id.
func (a *API) Update(ctx context.Context, id int64, draft Draft) (User, error) {
	var out User
	err := a.client.Put(ctx, apiclient.PathID(resource, id), draft, &out)
	return out, err
}

// Delete removes user id.
func (a *API) Delete(ctx context.Context, id int64) error {
	return a.client.Delete(ctx, apiclient.PathID(resource, id), nil)
}
