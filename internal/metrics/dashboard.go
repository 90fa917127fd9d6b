// Package metrics reads campaign analytics and assembles the dashboard.
package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/marketops/console/internal/campaigns"
	"github.com/marketops/console/internal/notify"
	"github.com/marketops/console/internal/pagestate"
	"github.com/marketops/console/internal/shared"
)

// Source is what the dashboard reads from.
type Source interface {
	Summary(ctx context.Context, r Range) (Summary, error)
	Content(ctx context.Context, campaignID int64, order string) ([]ContentRank, error)
}

// StatsSource provides campaign counts.
type StatsSource interface {
	Stats(ctx context.Context) (campaigns.Stats, error)
}

// DashboardData is one consistent load.
type DashboardData struct {
	Range      Range
	Summary    Summary
	Campaigns  campaigns.Stats
	TopContent []ContentRank
}

// Figure is a labelled, display-formatted number.
type Figure struct {
	Label string
	Value string
}

// Dashboard loads the summary, campaign stats and top content together and
// publishes them only once all three arrived.
type Dashboard struct {
	metrics  Source
	stats    StatsSource
	notifier *notify.Notifier
	logger   *slog.Logger
	printer  *message.Printer
	top      int

	mu     sync.Mutex
	seq    uint64
	status pagestate.Status
	data   DashboardData
	errMsg string
}

// NewDashboard builds a dashboard formatting figures for Spanish readers.
func NewDashboard(metrics Source, stats StatsSource, notifier *notify.Notifier, logger *slog.Logger) *Dashboard {
	if notifier == nil {
		notifier = notify.New(notify.DefaultTTL)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dashboard{
		metrics:  metrics,
		stats:    stats,
		notifier: notifier,
		logger:   logger,
		printer:  message.NewPrinter(language.Spanish),
		top:      5,
		status:   pagestate.StatusIdle,
	}
}

// Load fetches every panel for r.
func (d *Dashboard) Load(ctx context.Context, r Range) error {
	d.mu.Lock()
	d.seq++
	seq := d.seq
	d.status = pagestate.StatusLoading
	d.mu.Unlock()

	data := DashboardData{Range: r}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := d.metrics.Summary(gctx, r)
		if err != nil {
			return fmt.Errorf("summary: %w", err)
		}
		data.Summary = s
		return nil
	})
	g.Go(func() error {
		s, err := d.stats.Stats(gctx)
		if err != nil {
			return fmt.Errorf("campaign stats: %w", err)
		}
		data.Campaigns = s
		return nil
	})
	g.Go(func() error {
		ranks, err := d.metrics.Content(gctx, 0, OrderEngagement)
		if err != nil {
			return fmt.Errorf("content ranking: %w", err)
		}
		if len(ranks) > d.top {
			ranks = ranks[:d.top]
		}
		data.TopContent = ranks
		return nil
	})
	err := g.Wait()

	d.mu.Lock()
	if seq != d.seq {
		d.mu.Unlock()
		return pagestate.ErrStale
	}
	if err != nil {
		d.status = pagestate.StatusError
		d.errMsg = shared.ErrorMessage(err)
		d.mu.Unlock()
		d.logger.Warn("dashboard load failed", slog.Any("error", err))
		d.notifier.Error(err)
		return fmt.Errorf("metrics: dashboard: %w", err)
	}
	d.data = data
	d.status = pagestate.StatusSuccess
	d.errMsg = ""
	d.mu.Unlock()
	return nil
}

// Data returns the last complete load.
func (d *Dashboard) Data() DashboardData {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := d.data
	out.TopContent = append([]ContentRank(nil), d.data.TopContent...)
	return out
}

// Status returns the load status and the last error message.
func (d *Dashboard) Status() (pagestate.Status, string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status, d.errMsg
}

// Figures renders the headline numbers.
func (d *Dashboard) Figures() []Figure {
	data := d.Data()
	s := data.Summary
	return []Figure{
		{Label: "Impresiones", Value: d.printer.Sprintf("%d", s.Impressions)},
		{Label: "Alcance", Value: d.printer.Sprintf("%d", s.Reach)},
		{Label: "Clics", Value: d.printer.Sprintf("%d", s.Clicks)},
		{Label: "CTR", Value: d.Percent(s.CTR())},
		{Label: "Conversión", Value: d.Percent(s.ConversionRate())},
		{Label: "Engagement", Value: d.Percent(s.Engagement)},
		{Label: "Gasto", Value: d.printer.Sprintf("%.2f €", s.Spend)},
		{Label: "Campañas activas", Value: d.printer.Sprintf("%d de %d", data.Campaigns.Active, data.Campaigns.Total)},
	}
}

// Percent formats a 0..1 ratio with one decimal.
func (d *Dashboard) Percent(ratio float64) string {
	return d.printer.Sprintf("%.1f %%", ratio*100)
}
