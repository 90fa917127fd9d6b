package stubapi

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/marketops/console/internal/content"
	"github.com/marketops/console/internal/metrics"
	"github.com/marketops/console/internal/platform/httpx"
	"github.com/marketops/console/internal/publications"
)

func (s *Server) mountMetrics(r chi.Router) {
	r.Get("/resumen", s.metricsSummary)
	r.Get("/campanas/{id}", s.campaignMetrics)
	r.Get("/contenido", s.contentMetrics)
}

// figures derives stable synthetic performance for a published publication.
func figures(p publications.Publication) metrics.Point {
	impressions := 1000 + (p.ID*7919)%5000
	clicks := impressions / 25
	return metrics.Point{
		Date:        p.ScheduledAt.UTC().Truncate(24 * time.Hour),
		Impressions: impressions,
		Clicks:      clicks,
		Conversions: clicks / 10,
	}
}

func (s *Server) published(keep func(publications.Publication) bool) []publications.Publication {
	return s.pubs.list(func(p publications.Publication) bool {
		return p.State == publications.StatePublished && (keep == nil || keep(p))
	})
}

func (s *Server) metricsSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, hasFrom := parseTime(q.Get("desde"))
	to, hasTo := parseTime(q.Get("hasta"))
	sum := metrics.Summary{From: q.Get("desde"), To: q.Get("hasta")}
	for _, p := range s.published(func(p publications.Publication) bool {
		if hasFrom && p.ScheduledAt.Before(from) {
			return false
		}
		// hasta is inclusive of the whole day.
		return !hasTo || p.ScheduledAt.Before(to.Add(24*time.Hour))
	}) {
		f := figures(p)
		sum.Impressions += f.Impressions
		sum.Clicks += f.Clicks
		sum.Conversions += f.Conversions
	}
	sum.Reach = sum.Impressions * 6 / 10
	sum.Spend = float64(sum.Clicks) * 0.35
	if sum.Reach > 0 {
		sum.Engagement = float64(sum.Clicks*3) / float64(sum.Reach)
	}
	httpx.JSON(w, http.StatusOK, sum)
}

func (s *Server) contentOf(campaignID int64) map[int64]content.Item {
	out := map[int64]content.Item{}
	for _, i := range s.content.list(func(i content.Item) bool {
		return campaignID == 0 || (i.CampaignID != nil && *i.CampaignID == campaignID)
	}) {
		out[i.ID] = i
	}
	return out
}

func (s *Server) campaignMetrics(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	c, found := s.campaigns.get(id)
	if !found {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	items := s.contentOf(id)
	byDay := map[time.Time]metrics.Point{}
	for _, p := range s.published(func(p publications.Publication) bool { _, ok := items[p.ContentID]; return ok }) {
		f := figures(p)
		day := byDay[f.Date]
		day.Date = f.Date
		day.Impressions += f.Impressions
		day.Clicks += f.Clicks
		day.Conversions += f.Conversions
		byDay[f.Date] = day
	}
	series := metrics.CampaignSeries{CampaignID: c.ID, Name: c.Name, Points: make([]metrics.Point, 0, len(byDay))}
	for _, p := range byDay {
		series.Points = append(series.Points, p)
	}
	sort.Slice(series.Points, func(i, j int) bool { return series.Points[i].Date.Before(series.Points[j].Date) })
	httpx.JSON(w, http.StatusOK, series)
}

func (s *Server) contentMetrics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	campaignID, _ := strconv.ParseInt(q.Get("campana_id"), 10, 64)
	items := s.contentOf(campaignID)
	ranks := map[int64]*metrics.ContentRank{}
	for _, p := range s.published(func(p publications.Publication) bool { _, ok := items[p.ContentID]; return ok }) {
		f := figures(p)
		rank, ok := ranks[p.ContentID]
		if !ok {
			rank = &metrics.ContentRank{ContentID: p.ContentID, Title: items[p.ContentID].Title}
			ranks[p.ContentID] = rank
		}
		rank.Impressions += f.Impressions
		rank.Clicks += f.Clicks
	}
	out := make([]metrics.ContentRank, 0, len(ranks))
	for _, rank := range ranks {
		if rank.Impressions > 0 {
			rank.Engagement = float64(rank.Clicks) / float64(rank.Impressions)
		}
		out = append(out, *rank)
	}
	order := q.Get("orden")
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch order {
		case metrics.OrderClicks:
			if a.Clicks != b.Clicks {
				return a.Clicks > b.Clicks
			}
		case metrics.OrderEngagement:
			if a.Engagement != b.Engagement {
				return a.Engagement > b.Engagement
			}
		default:
			if a.Impressions != b.Impressions {
				return a.Impressions > b.Impressions
			}
		}
		return a.ContentID < b.ContentID
	})
	httpx.JSON(w, http.StatusOK, out)
}
