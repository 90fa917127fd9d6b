package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/marketops/console/internal/campaigns"
	"github.com/marketops/console/internal/shared"
)

func (rt *runtime) campaignsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "campaigns", Aliases: []string{"campanas"}, Short: "Manage campaigns"}
	cmd.AddCommand(
		rt.campaignsListCmd(),
		rt.campaignsGetCmd(),
		rt.campaignsCreateCmd(),
		rt.campaignsUpdateCmd(),
		rt.campaignsDeleteCmd(),
		rt.campaignsStateCmd(),
		rt.campaignsStatsCmd(),
	)
	return cmd
}

func campaignTable(w io.Writer, items []campaigns.Campaign) {
	row(w, "ID", "NOMBRE", "ESTADO", "INICIO", "FIN", "PRESUPUESTO")
	for _, c := range items {
		row(w, c.ID, c.Name, c.State, dash(c.StartDate), dash(c.EndDate), fmt.Sprintf("%.2f", c.Budget))
	}
}

func (rt *runtime) campaignsListCmd() *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List campaigns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := rt.console.CampaignsPage(rt.confirmer())
			if err != nil {
				return err
			}
			return runList(cmd.Context(), rt, page, &f, campaignTable)
		},
	}
	f.bind(cmd, campaigns.ListKeys)
	return cmd
}

func (rt *runtime) campaignsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one campaign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := rt.requireLogin(); err != nil {
				return err
			}
			c, err := rt.console.Campaigns.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return rt.render(c, func(w io.Writer) { campaignTable(w, []campaigns.Campaign{c}) })
		},
	}
}

type campaignFlags struct {
	name, description, objective, start, end string
	budget                                   float64
	channels                                 []string
}

func (f *campaignFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "campaign name")
	cmd.Flags().StringVar(&f.description, "description", "", "description")
	cmd.Flags().StringVar(&f.objective, "objective", "", "alcance, trafico, conversion, engagement or leads")
	cmd.Flags().StringVar(&f.start, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "end date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&f.budget, "budget", 0, "budget in euros")
	cmd.Flags().StringSliceVar(&f.channels, "channel", nil, "channel (repeatable)")
}

func (f *campaignFlags) apply(cmd *cobra.Command, d *campaigns.Draft) bool {
	set := cmd.Flags().Changed
	changed := false
	if set("name") {
		d.Name, changed = f.name, true
	}
	if set("description") {
		d.Description, changed = f.description, true
	}
	if set("objective") {
		d.Objective, changed = f.objective, true
	}
	if set("start") {
		d.StartDate, changed = f.start, true
	}
	if set("end") {
		d.EndDate, changed = f.end, true
	}
	if set("budget") {
		d.Budget, changed = f.budget, true
	}
	if set("channel") {
		d.Channels, changed = f.channels, true
	}
	return changed
}

func (rt *runtime) campaignsCreateCmd() *cobra.Command {
	var f campaignFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a campaign",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := rt.console.CampaignsPage(rt.confirmer())
			if err != nil {
				return err
			}
			page.OpenCreate()
			page.Modal().Update(func(d *campaigns.Draft) { f.apply(cmd, d) })
			return page.Submit(cmd.Context())
		},
	}
	f.bind(cmd)
	return cmd
}

func (rt *runtime) campaignsUpdateCmd() *cobra.Command {
	var f campaignFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a campaign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			page, err := rt.console.CampaignsPage(rt.confirmer())
			if err != nil {
				return err
			}
			c, err := rt.console.Campaigns.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			page.OpenEdit(c)
			changed := false
			page.Modal().Update(func(d *campaigns.Draft) { changed = f.apply(cmd, d) })
			if !changed {
				page.Close()
				return errMissingFlags
			}
			return page.Submit(cmd.Context())
		},
	}
	f.bind(cmd)
	return cmd
}

func (rt *runtime) campaignsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a campaign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			page, err := rt.console.CampaignsPage(rt.confirmer())
			if err != nil {
				return err
			}
			c, err := rt.console.Campaigns.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return page.Delete(cmd.Context(), c)
		},
	}
}

func (rt *runtime) campaignsStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state <id> <estado>",
		Short: "Move a campaign through its workflow",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			page, err := rt.console.CampaignsPage(rt.confirmer())
			if err != nil {
				return err
			}
			c, err := rt.console.Campaigns.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return page.ChangeState(cmd.Context(), c, shared.StateChange{State: args[1]})
		},
	}
}

func (rt *runtime) campaignsStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show campaign counts by state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.requireLogin(); err != nil {
				return err
			}
			s, err := rt.console.Campaigns.Stats(cmd.Context())
			if err != nil {
				return err
			}
			return rt.render(s, func(w io.Writer) {
				row(w, "TOTAL", "BORRADORES", "ACTIVAS", "PAUSADAS", "FINALIZADAS", "PRESUPUESTO")
				row(w, s.Total, s.Draft, s.Active, s.Paused, s.Finished, fmt.Sprintf("%.2f", s.TotalBudget))
			})
		},
	}
}
