package content

import (
	"context"

	"github.com/marketops/console/internal/apiclient"
	"github.com/marketops/console/internal/shared"
)

const resource = "/contenido"

// ListKeys are the filters GET /contenido recognises.
var ListKeys = []string{"estado", "tipo", "campana_id", "search"}

// API is the contenido resource module.
type API struct {
	client *apiclient.Client
}

// NewAPI builds the resource module on client.
func NewAPI(client *apiclient.Client) *API {
	return &API{client: client}
}

// List returns one page of content. Recognised filters: estado, tipo,
// campana_id, search.
func (a *API) List(ctx context.Context, params shared.ListParams) (shared.Page[Item], error) {
	var out shared.Page[Item]
	err := a.client.Get(ctx, resource, params.Query(ListKeys...), &out)
	return out, err
}

// Get returns one item.
func (a *API) Get(ctx context.Context, id int64) (Item, error) {
	var out Item
	err := a.client.Get(ctx, apiclient.PathID(resource, id), nil, &out)
	return out, err
}

// Create stores a new item.
func (a *API) Create(ctx context.Context, draft Draft) (Item, error) {
	var out Item
	err := a.client.Post(ctx, resource, draft, &out)
	return out, err
}

// Update replaces the editable fields of item id.
func (a *API) Update(ctx context.Context, id int64, draft Draft) (Item, error) {
	var out Item
	err := a.client.Put(ctx, apiclient.PathID(resource, id), draft, &out)
	return out, err
}

// Delete removes item id.
func (a *API) Delete(ctx context.Context, id int64) error {
	return a.client.Delete(ctx, apiclient.PathID(resource, id), nil)
}

// ChangeState moves item id to change.State with an optional review comment.
func (a *API) ChangeState(ctx context.Context, id int64, change shared.StateChange) (Item, error) {
	var out Item
	err := a.client.Patch(ctx, apiclient.PathID(resource, id, "estado"), change, &out)
	return out, err
}
