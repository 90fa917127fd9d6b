package metrics

import (
	"context"
	"net/url"
	"strconv"

	"github.com/marketops/console/internal/apiclient"
)

// Content orderings accepted by GET /metricas/contenido.
const (
	OrderImpressions = "impresiones"
	OrderClicks      = "clics"
	OrderEngagement  = "engagement"
)

// API is the metricas resource module.
type API struct {
	client *apiclient.Client
}

// NewAPI builds the resource module on client.
func NewAPI(client *apiclient.Client) *API {
	return &API{client: client}
}

// Summary returns the aggregate for r.
func (a *API) Summary(ctx context.Context, r Range) (Summary, error) {
	q := url.Values{}
	if r.From != "" {
		q.Set("desde", r.From)
	}
	if r.To != "" {
		q.Set("hasta", r.To)
	}
	var out Summary
	err := a.client.Get(ctx, "/metricas/resumen", q, &out)
	return out, err
}

// Campaign returns the daily series of campaign id.
func (a *API) Campaign(ctx context.Context, id int64) (CampaignSeries, error) {
	var out CampaignSeries
	err := a.client.Get(ctx, apiclient.PathID("/metricas/campanas", id), nil, &out)
	return out, err
}

// Content ranks content items. campaignID 0 means all campaigns.
func (a *API) Content(ctx context.Context, campaignID int64, order string) ([]ContentRank, error) {
	q := url.Values{}
	if campaignID > 0 {
		q.Set("campana_id", strconv.FormatInt(campaignID, 10))
	}
	if order != "" {
		q.Set("orden", order)
	}
	var out []ContentRank
	err := a.client.Get(ctx, "/metricas/contenido", q, &out)
	return out, err
}
