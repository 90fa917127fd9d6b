package ai

import (
	"context"

	"github.com/marketops/console/internal/apiclient"
	"github.com/marketops/console/internal/shared"
)

// HistoryKeys are the filters GET /ia/historial recognises.
var HistoryKeys = []string{"tipo"}

// API is the ia resource module.
type API struct {
	client *apiclient.Client
}

// NewAPI builds the resource module on client.
func NewAPI(client *apiclient.Client) *API {
	return &API{client: client}
}

// GenerateText posts to /ia/texto.
func (a *API) GenerateText(ctx context.Context, req TextRequest) (TextResult, error) {
	var out TextResult
	err := a.client.Post(ctx, "/ia/texto", req, &out)
	return out, err
}

// GenerateImage posts to /ia/imagen.
func (a *API) GenerateImage(ctx context.Context, req ImageRequest) (ImageResult, error) {
	var out ImageResult
	err := a.client.Post(ctx, "/ia/imagen", req, &out)
	return out, err
}

// History returns one page of past generations, newest first.
func (a *API) History(ctx context.Context, params shared.ListParams) (shared.Page[HistoryEntry], error) {
	var out shared.Page[HistoryEntry]
	err := a.client.Get(ctx, "/ia/historial", params.Query(HistoryKeys...), &out)
	return out, err
}
