package publications

import (
	"context"

	"github.com/marketops/console/internal/pagestate"
	"github.com/marketops/console/internal/shared"
)

// Page is the publication schedule controller.
type Page struct {
	*pagestate.Controller[Publication, Draft]
}

// NewPage builds the publications page.
func NewPage(api *API, opts pagestate.Options[Publication]) *Page {
	opts.Name = "publicaciones"
	opts.StateGuard = func(p Publication, _ string) error {
		if p.State != StateScheduled {
			return ErrNotScheduled
		}
		return nil
	}
	opts.Messages = pagestate.Messages{
		Created:      "Publicación programada",
		Updated:      "Publicación actualizada",
		Deleted:      "Publicación eliminada",
		StateChanged: "Publicación cancelada",
	}
	return &Page{Controller: pagestate.New[Publication, Draft](api, FormSpec(nil), opts)}
}

// Cancel withdraws a scheduled publication.
func (p *Page) Cancel(ctx context.Context, pub Publication) error {
	return p.ChangeState(ctx, pub, shared.StateChange{State: StateCancelled})
}
