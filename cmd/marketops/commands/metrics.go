package commands

import (
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/marketops/console/internal/campaigns"
	"github.com/marketops/console/internal/metrics"
)

func (rt *runtime) dashboardCmd() *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show headline performance for a date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			board, err := rt.console.Dashboard()
			if err != nil {
				return err
			}
			r := metrics.Range{From: from, To: to}
			if r.To == "" {
				r.To = time.Now().Format(campaigns.DateLayout)
			}
			if r.From == "" {
				r.From = time.Now().AddDate(0, 0, -30).Format(campaigns.DateLayout)
			}
			if err := board.Load(cmd.Context(), r); err != nil {
				return err
			}
			data := board.Data()
			return rt.render(data, func(w io.Writer) {
				row(w, "Periodo", data.Range.From+" → "+data.Range.To)
				for _, f := range board.Figures() {
					row(w, f.Label, f.Value)
				}
				if len(data.TopContent) > 0 {
					row(w)
					row(w, "TOP CONTENIDO", "IMPRESIONES", "CLICS", "ENGAGEMENT")
					for _, c := range data.TopContent {
						row(w, c.Title, c.Impressions, c.Clicks, board.Percent(c.Engagement))
					}
				}
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD, default 30 days ago)")
	cmd.Flags().StringVar(&to, "to", "", "last day (YYYY-MM-DD, default today)")
	return cmd
}

func (rt *runtime) metricsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "metrics", Aliases: []string{"metricas"}, Short: "Campaign and content performance"}

	campaign := &cobra.Command{
		Use:   "campaign <id>",
		Short: "Daily series for one campaign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := rt.requireLogin(); err != nil {
				return err
			}
			s, err := rt.console.Analytics.Campaign(cmd.Context(), id)
			if err != nil {
				return err
			}
			return rt.render(s, func(w io.Writer) {
				row(w, "FECHA", "IMPRESIONES", "CLICS", "CONVERSIONES")
				for _, p := range s.Points {
					row(w, p.Date.Format(campaigns.DateLayout), p.Impressions, p.Clicks, p.Conversions)
				}
				t := s.Totals()
				row(w, "TOTAL", t.Impressions, t.Clicks, t.Conversions)
			})
		},
	}

	var campaignID int64
	var order string
	ranking := &cobra.Command{
		Use:   "content",
		Short: "Rank content by performance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.requireLogin(); err != nil {
				return err
			}
			ranks, err := rt.console.Analytics.Content(cmd.Context(), campaignID, order)
			if err != nil {
				return err
			}
			return rt.render(ranks, func(w io.Writer) {
				row(w, "ID", "TÍTULO", "IMPRESIONES", "CLICS", "ENGAGEMENT")
				for _, c := range ranks {
					row(w, c.ContentID, c.Title, c.Impressions, c.Clicks, c.Engagement)
				}
			})
		},
	}
	ranking.Flags().Int64Var(&campaignID, "campaign", 0, "only content of this campaign")
	ranking.Flags().StringVar(&order, "order", metrics.OrderEngagement, "impresiones, clics or engagement")

	cmd.AddCommand(campaign, ranking)
	return cmd
}
