package campaigns

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/marketops/console/internal/pagestate"
)

// Page is the campaign list with its stats header.
type Page struct {
	*pagestate.Controller[Campaign, Draft]

	api    *API
	logger *slog.Logger

	mu       sync.Mutex
	stats    Stats
	statsErr error
}

// NewPage builds the campaigns page.
func NewPage(api *API, opts pagestate.Options[Campaign]) *Page {
	opts.Name = "campanas"
	opts.StateGuard = func(c Campaign, to string) error {
		if !CanTransition(c.State, to) {
			return TransitionError(c.State, to)
		}
		return nil
	}
	opts.Messages = pagestate.Messages{
		Created:      "Campaña creada",
		Updated:      "Campaña actualizada",
		Deleted:      "Campaña eliminada",
		StateChanged: "Estado de la campaña actualizado",
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Page{
		Controller: pagestate.New[Campaign, Draft](api, FormSpec(), opts),
		api:        api,
		logger:     logger,
	}
}

// Load fetches the list page and the stats together and returns once both
// have settled. A stats failure does not fail the page.
func (p *Page) Load(ctx context.Context, page int) error {
	// Stats run on ctx so a list failure does not cancel them.
	var g errgroup.Group
	g.Go(func() error {
		return p.FetchList(ctx, page)
	})
	g.Go(func() error {
		stats, err := p.api.Stats(ctx)
		p.mu.Lock()
		defer p.mu.Unlock()
		p.statsErr = err
		if err != nil {
			p.logger.Warn("campaign stats failed", slog.Any("error", err))
			return nil
		}
		p.stats = stats
		return nil
	})
	return g.Wait()
}

// Stats returns the last loaded stats and the error of the last attempt.
func (p *Page) Stats() (Stats, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats, p.statsErr
}
