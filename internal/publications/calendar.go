package publications

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/marketops/console/internal/pagestate"
	"github.com/marketops/console/internal/shared"
)

// Lister is the slice of the API the calendar needs.
type Lister interface {
	List(ctx context.Context, params shared.ListParams) (shared.Page[Publication], error)
}

// Day is one calendar cell.
type Day struct {
	Date    time.Time
	InMonth bool
	Items   []Publication
}

// Month is a Monday-first grid covering every week that touches the month.
type Month struct {
	Year  int
	Month time.Month
	Weeks [][7]Day
}

// Count returns the number of publications placed in the grid.
func (m Month) Count() int {
	n := 0
	for _, w := range m.Weeks {
		for _, d := range w {
			n += len(d.Items)
		}
	}
	return n
}

// MonthRange returns the half-open interval [start, end) of month in loc.
func MonthRange(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// BuildMonth lays pubs out on the grid of month. Publications outside the
// grid are ignored; each day's items are ordered by schedule time.
func BuildMonth(year int, month time.Month, pubs []Publication, loc *time.Location) Month {
	if loc == nil {
		loc = time.Local
	}
	first, next := MonthRange(year, month, loc)
	// Monday = 0.
	offset := (int(first.Weekday()) + 6) % 7
	gridStart := first.AddDate(0, 0, -offset)

	byDay := map[string][]Publication{}
	for _, p := range pubs {
		key := p.ScheduledAt.In(loc).Format(time.DateOnly)
		byDay[key] = append(byDay[key], p)
	}

	out := Month{Year: year, Month: month}
	for day := gridStart; day.Before(next); {
		var week [7]Day
		for i := range week {
			items := byDay[day.Format(time.DateOnly)]
			sort.SliceStable(items, func(a, b int) bool { return items[a].ScheduledAt.Before(items[b].ScheduledAt) })
			week[i] = Day{Date: day, InMonth: day.Month() == month, Items: items}
			day = day.AddDate(0, 0, 1)
		}
		out.Weeks = append(out.Weeks, week)
	}
	return out
}

// Calendar loads every publication scheduled in a month.
type Calendar struct {
	api      Lister
	loc      *time.Location
	logger   *slog.Logger
	parallel int

	mu      sync.Mutex
	seq     uint64
	month   Month
	loading bool
	err     error
}

// NewCalendar builds a calendar in loc (time.Local when nil).
func NewCalendar(api Lister, loc *time.Location, logger *slog.Logger) *Calendar {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Calendar{api: api, loc: loc, logger: logger, parallel: 4}
}

// Load fetches the first page of the month, then the remaining pages
// concurrently, and publishes the grid once all have arrived. A load
// superseded by a newer one returns pagestate.ErrStale.
func (c *Calendar) Load(ctx context.Context, year int, month time.Month, filters shared.Filters) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.loading = true
	c.mu.Unlock()

	pubs, err := c.fetchAll(ctx, year, month, filters)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		return pagestate.ErrStale
	}
	c.loading = false
	c.err = err
	if err != nil {
		c.logger.Warn("calendar load failed", slog.Int("year", year), slog.String("month", month.String()), slog.Any("error", err))
		return err
	}
	c.month = BuildMonth(year, month, pubs, c.loc)
	return nil
}

func (c *Calendar) fetchAll(ctx context.Context, year int, month time.Month, filters shared.Filters) ([]Publication, error) {
	start, end := MonthRange(year, month, c.loc)
	f := filters.Clone()
	f.Set("desde", start.UTC().Format(time.RFC3339))
	f.Set("hasta", end.UTC().Format(time.RFC3339))
	params := shared.ListParams{Page: 1, Limit: shared.MaxLimit, Filters: f}

	first, err := c.api.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("publications: calendar page 1: %w", err)
	}
	pages := make([][]Publication, max(first.Pages, 1)+1)
	pages[1] = first.Data

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.parallel)
	for n := 2; n <= first.Pages; n++ {
		g.Go(func() error {
			p := params
			p.Page = n
			res, err := c.api.List(gctx, p)
			if err != nil {
				return fmt.Errorf("publications: calendar page %d: %w", n, err)
			}
			pages[n] = res.Data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Publication
	for _, data := range pages {
		all = append(all, data...)
	}
	return all, nil
}

// Month returns the last loaded grid.
func (c *Calendar) Month() Month {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.month
}

// Err returns the error of the last completed load.
func (c *Calendar) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Loading reports whether a load is in flight.
func (c *Calendar) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}
