package campaigns

import (
	"context"

	"github.com/marketops/console/internal/apiclient"
	"github.com/marketops/console/internal/shared"
)

const resource = "/campanas"

// ListKeys are the filters GET /campanas recognises.
var ListKeys = []string{"estado", "search"}

// API is the campanas resource module.
type API struct {
	client *apiclient.Client
}

// NewAPI builds the resource module on client.
func NewAPI(client *apiclient.Client) *API {
	return &API{client: client}
}

// List returns one page of campaigns. Recognised filters: estado, search.
func (a *API) List(ctx context.Context, params shared.ListParams) (shared.Page[Campaign], error) {
	var out shared.Page[Campaign]
	err := a.client.Get(ctx, resource, params.Query(ListKeys...), &out)
	return out, err
}

// Get returns one campaign.
func (a *API) Get(ctx context.Context, id int64) (Campaign, error) {
	var out Campaign
	err := a.client.Get(ctx, apiclient.PathID(resource, id), nil, &out)
	return out, err
}

// Create stores a new campaign in the borrador state.
func (a *API) Create(ctx context.Context, draft Draft) (Campaign, error) {
	var out Campaign
	err := a.client.Post(ctx, resource, draft, &out)
	return out, err
}

// Update replaces the editable fields of campaign id.
func (a *API) Update(ctx context.Context, id int64, draft Draft) (Campaign, error) {
	var out Campaign
	err := a.client.Put(ctx, apiclient.PathID(resource, id), draft, &out)
	return out, err
}

// Delete removes campaign id.
func (a *API) Delete(ctx context.Context, id int64) error {
	return a.client.Delete(ctx, apiclient.PathID(resource, id), nil)
}

// ChangeState moves campaign id to change.State.
func (a *API) ChangeState(ctx context.Context, id int64, change shared.StateChange) (Campaign, error) {
	var out Campaign
	err := a.client.Patch(ctx, apiclient.PathID(resource, id, "estado"), change, &out)
	return out, err
}

// Stats returns the per-state counters.
func (a *API) Stats(ctx context.Context) (Stats, error) {
	var out Stats
	err := a.client.Get(ctx, resource+"/stats", nil, &out)
	return out, err
}
