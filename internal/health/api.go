// Package health probes the backend's liveness endpoint.
package health

import (
	"context"
	"time"

	"github.com/marketops/console/internal/apiclient"
)

// Status is the body of GET /health.
type Status struct {
	Status    string    `json:"status"`
	Version   string    `json:"version,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// OK reports whether the backend declared itself healthy.
func (s Status) OK() bool { return s.Status == "ok" }

// API is the health resource module.
type API struct {
	client *apiclient.Client
}

// NewAPI builds the resource module on client.
func NewAPI(client *apiclient.Client) *API {
	return &API{client: client}
}

// Check calls GET /health.
func (a *API) Check(ctx context.Context) (Status, error) {
	var out Status
	err := a.client.Get(ctx, "/health", nil, &out)
	return out, err
}
