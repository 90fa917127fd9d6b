package metrics

import "time"

// Summary aggregates reach and engagement over a date range.
type Summary struct {
	From        string  `json:"desde"`
	To          string  `json:"hasta"`
	Impressions int64   `json:"impresiones"`
	Reach       int64   `json:"alcance"`
	Clicks      int64   `json:"clics"`
	Conversions int64   `json:"conversiones"`
	Spend       float64 `json:"gasto"`
	// Engagement is interactions over reach, 0..1.
	Engagement float64 `json:"engagement"`
}

// CTR is clicks over impressions, 0..1.
func (s Summary) CTR() float64 {
	if s.Impressions == 0 {
		return 0
	}
	return float64(s.Clicks) / float64(s.Impressions)
}

// ConversionRate is conversions over clicks, 0..1.
func (s Summary) ConversionRate() float64 {
	if s.Clicks == 0 {
		return 0
	}
	return float64(s.Conversions) / float64(s.Clicks)
}

// Point is one day of a campaign series.
type Point struct {
	Date        time.Time `json:"fecha"`
	Impressions int64     `json:"impresiones"`
	Clicks      int64     `json:"clics"`
	Conversions int64     `json:"conversiones"`
}

// CampaignSeries is the daily performance of one campaign.
type CampaignSeries struct {
	CampaignID int64   `json:"campana_id"`
	Name       string  `json:"nombre"`
	Points     []Point `json:"serie"`
}

// Totals sums the series.
func (c CampaignSeries) Totals() Point {
	var t Point
	for _, p := range c.Points {
		t.Impressions += p.Impressions
		t.Clicks += p.Clicks
		t.Conversions += p.Conversions
	}
	return t
}

// ContentRank is the performance of one content item.
type ContentRank struct {
	ContentID   int64   `json:"contenido_id"`
	Title       string  `json:"titulo"`
	Impressions int64   `json:"impresiones"`
	Clicks      int64   `json:"clics"`
	Engagement  float64 `json:"engagement"`
}

// Range bounds a metrics query; dates use the campaigns date layout.
type Range struct {
	From string
	To   string
}
