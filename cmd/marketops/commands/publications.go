package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/marketops/console/internal/publications"
)

// scheduleLayouts are accepted by --at, in local time.
var scheduleLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04"}

func parseSchedule(s string) (time.Time, error) {
	for _, layout := range scheduleLayouts {
		if t, err := time.ParseInLocation(layout, strings.TrimSpace(s), time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DDTHH:MM", s)
}

func (rt *runtime) publicationsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "publications", Aliases: []string{"publicaciones"}, Short: "Schedule publications"}
	cmd.AddCommand(
		rt.publicationsListCmd(),
		rt.publicationsCreateCmd(),
		rt.publicationsUpdateCmd(),
		rt.publicationsDeleteCmd(),
		rt.publicationsCancelCmd(),
	)
	return cmd
}

func publicationTable(w io.Writer, items []publications.Publication) {
	row(w, "ID", "CONTENIDO", "RED", "PROGRAMADA", "ESTADO", "URL")
	for _, p := range items {
		row(w, p.ID, dash(p.ContentTitle), p.Network, formatTime(p.ScheduledAt), p.State, dash(p.PublicationURL))
	}
}

func (rt *runtime) publicationsListCmd() *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List publications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := rt.console.PublicationsPage(rt.confirmer())
			if err != nil {
				return err
			}
			return runList(cmd.Context(), rt, page, &f, publicationTable)
		},
	}
	f.bind(cmd, publications.ListKeys)
	return cmd
}

type publicationFlags struct {
	content          int64
	network, at, msg string
}

func (f *publicationFlags) bind(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&f.content, "content", 0, "content id")
	cmd.Flags().StringVar(&f.network, "network", "", strings.Join(publications.Networks, ", "))
	cmd.Flags().StringVar(&f.at, "at", "", "schedule time (YYYY-MM-DDTHH:MM, local)")
	cmd.Flags().StringVar(&f.msg, "message", "", "post message")
}

func (f *publicationFlags) apply(cmd *cobra.Command, d *publications.Draft) (bool, error) {
	set := cmd.Flags().Changed
	changed := false
	if set("content") {
		d.ContentID, changed = f.content, true
	}
	if set("network") {
		d.Network, changed = f.network, true
	}
	if set("at") {
		at, err := parseSchedule(f.at)
		if err != nil {
			return false, err
		}
		d.ScheduledAt, changed = at, true
	}
	if set("message") {
		d.Message, changed = f.msg, true
	}
	return changed, nil
}

func (rt *runtime) publicationsCreateCmd() *cobra.Command {
	var f publicationFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Schedule a publication",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := rt.console.PublicationsPage(rt.confirmer())
			if err != nil {
				return err
			}
			page.OpenCreate()
			var applyErr error
			page.Modal().Update(func(d *publications.Draft) { _, applyErr = f.apply(cmd, d) })
			if applyErr != nil {
				page.Close()
				return applyErr
			}
			return page.Submit(cmd.Context())
		},
	}
	f.bind(cmd)
	return cmd
}

func (rt *runtime) publicationsUpdateCmd() *cobra.Command {
	var f publicationFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Reschedule a publication",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			page, err := rt.console.PublicationsPage(rt.confirmer())
			if err != nil {
				return err
			}
			p, err := rt.console.Publications.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			page.OpenEdit(p)
			var changed bool
			var applyErr error
			page.Modal().Update(func(d *publications.Draft) { changed, applyErr = f.apply(cmd, d) })
			switch {
			case applyErr != nil:
				page.Close()
				return applyErr
			case !changed:
				page.Close()
				return errMissingFlags
			}
			return page.Submit(cmd.Context())
		},
	}
	f.bind(cmd)
	return cmd
}

func (rt *runtime) publicationsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a publication",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			page, err := rt.console.PublicationsPage(rt.confirmer())
			if err != nil {
				return err
			}
			p, err := rt.console.Publications.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return page.Delete(cmd.Context(), p)
		},
	}
}

func (rt *runtime) publicationsCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a scheduled publication",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			page, err := rt.console.PublicationsPage(rt.confirmer())
			if err != nil {
				return err
			}
			p, err := rt.console.Publications.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return page.Cancel(cmd.Context(), p)
		},
	}
}

func (rt *runtime) calendarCmd() *cobra.Command {
	var month, network string
	cmd := &cobra.Command{
		Use:     "calendar",
		Aliases: []string{"calendario"},
		Short:   "Show the publication calendar for a month",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			when := time.Now()
			if month != "" {
				t, err := time.ParseInLocation("2006-01", month, time.Local)
				if err != nil {
					return fmt.Errorf("invalid month %q, use YYYY-MM", month)
				}
				when = t
			}
			cal, err := rt.console.Calendar(time.Local)
			if err != nil {
				return err
			}
			var filters map[string]string
			if network != "" {
				filters = map[string]string{"red": network}
			}
			if err := cal.Load(cmd.Context(), when.Year(), when.Month(), filters); err != nil {
				return err
			}
			m := cal.Month()
			return rt.render(m, func(w io.Writer) { calendarTable(w, m) })
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month to show (YYYY-MM, default current)")
	cmd.Flags().StringVar(&network, "network", "", "only this network")
	return cmd
}

var weekdays = []string{"LUN", "MAR", "MIÉ", "JUE", "VIE", "SÁB", "DOM"}

// calendarTable prints one line per week with the publication count per day.
func calendarTable(w io.Writer, m publications.Month) {
	fmt.Fprintf(w, "%d-%02d (%d publicaciones)\n", m.Year, int(m.Month), m.Count())
	cols := make([]any, len(weekdays))
	for i, d := range weekdays {
		cols[i] = d
	}
	row(w, cols...)
	for _, week := range m.Weeks {
		for i, day := range week {
			cell := "  "
			if day.InMonth {
				cell = fmt.Sprintf("%2d", day.Date.Day())
				if n := len(day.Items); n > 0 {
					cell += fmt.Sprintf(" (%d)", n)
				}
			}
			cols[i] = cell
		}
		row(w, cols...)
	}
}
