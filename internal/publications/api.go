package publications

import (
	"context"

	"github.com/marketops/console/internal/apiclient"
	"github.com/marketops/console/internal/shared"
)

const resource = "/publicaciones"

// ListKeys are the filters GET /publicaciones recognises. desde and hasta
// are RFC 3339 timestamps bounding fecha_programada.
var ListKeys = []string{"estado", "red", "desde", "hasta", "contenido_id"}

// API is the publicaciones resource module.
type API struct {
	client *apiclient.Client
}

// NewAPI builds the resource module on client.
func NewAPI(client *apiclient.Client) *API {
	return &API{client: client}
}

func (a *API) List(ctx context.Context, params shared.ListParams) (shared.Page[Publication], error) {
	var out shared.Page[Publication]
	err := a.client.Get(ctx, resource, params.Query(ListKeys...), &out)
	return out, err
}

func (a *API) Get(ctx context.Context, id int64) (Publication, error) {
	var out Publication
	err := a.client.Get(ctx, apiclient.PathID(resource, id), nil, &out)
	return out, err
}

func (a *API) Create(ctx context.Context, draft Draft) (Publication, error) {
	var out Publication
	err := a.client.Post(ctx, resource, draft, &out)
	return out, err
}

func (a *API) Update(ctx context.Context, id int64, draft Draft) (Publication, error) {
	var out Publication
	err := a.client.Put(ctx, apiclient.PathID(resource, id), draft, &out)
	return out, err
}

func (a *API) Delete(ctx context.Context, id int64) error {
	return a.client.Delete(ctx, apiclient.PathID(resource, id), nil)
}

// ChangeState moves publication id to change.State, e.g. cancelada.
func (a *API) ChangeState(ctx context.Context, id int64, change shared.StateChange) (Publication, error) {
	var out Publication
	err := a.client.Patch(ctx, apiclient.PathID(resource, id, "estado"), change, &out)
	return out, err
}
