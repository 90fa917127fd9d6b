package commands

import (
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marketops/console/internal/content"
	"github.com/marketops/console/internal/shared"
)

func (rt *runtime) contentCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "content", Aliases: []string{"contenido"}, Short: "Manage the content library"}
	cmd.AddCommand(
		rt.contentListCmd(),
		rt.contentGetCmd(),
		rt.contentCreateCmd(),
		rt.contentUpdateCmd(),
		rt.contentDeleteCmd(),
		rt.contentStateCmd(),
	)
	return cmd
}

func contentTable(w io.Writer, items []content.Item) {
	row(w, "ID", "TÍTULO", "TIPO", "ESTADO", "CAMPAÑA", "ETIQUETAS")
	for _, i := range items {
		campaign := "-"
		if i.CampaignID != nil {
			campaign = strconv.FormatInt(*i.CampaignID, 10)
		}
		row(w, i.ID, i.Title, dash(i.Type), i.State, campaign, dash(strings.Join(i.Tags, ",")))
	}
}

func (rt *runtime) contentListCmd() *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List content",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := rt.console.ContentPage(rt.confirmer())
			if err != nil {
				return err
			}
			return runList(cmd.Context(), rt, page, &f, contentTable)
		},
	}
	f.bind(cmd, content.ListKeys)
	return cmd
}

func (rt *runtime) contentGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one content item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := rt.requireLogin(); err != nil {
				return err
			}
			item, err := rt.console.Content.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return rt.render(item, func(w io.Writer) {
				contentTable(w, []content.Item{item})
				if item.Body != "" {
					row(w)
					row(w, item.Body)
				}
				if item.ReviewComment != "" {
					row(w, "Revisión:", item.ReviewComment)
				}
			})
		},
	}
}

type contentFlags struct {
	title, body, kind, image string
	campaign                 int64
	tags                     []string
	review                   bool
}

func (f *contentFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "title")
	cmd.Flags().StringVar(&f.body, "body", "", "body text")
	cmd.Flags().StringVar(&f.kind, "type", "", "post, articulo, email or anuncio")
	cmd.Flags().StringVar(&f.image, "image", "", "image URL")
	cmd.Flags().Int64Var(&f.campaign, "campaign", 0, "campaign id (0 detaches)")
	cmd.Flags().StringSliceVar(&f.tags, "tag", nil, "tag (repeatable)")
	cmd.Flags().BoolVar(&f.review, "submit", false, "send to the approval queue")
}

func (f *contentFlags) apply(cmd *cobra.Command, d *content.Draft) bool {
	set := cmd.Flags().Changed
	changed := false
	if set("title") {
		d.Title, changed = f.title, true
	}
	if set("body") {
		d.Body, changed = f.body, true
	}
	if set("type") {
		d.Type, changed = f.kind, true
	}
	if set("image") {
		d.ImageURL, changed = f.image, true
	}
	if set("campaign") {
		id := f.campaign
		d.CampaignID, changed = &id, true
	}
	if set("tag") {
		d.Tags, changed = f.tags, true
	}
	if set("submit") {
		d.SubmitForReview, changed = f.review, true
	}
	return changed
}

func (rt *runtime) contentCreateCmd() *cobra.Command {
	var f contentFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a content item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := rt.console.ContentPage(rt.confirmer())
			if err != nil {
				return err
			}
			page.OpenCreate()
			page.Modal().Update(func(d *content.Draft) { f.apply(cmd, d) })
			return page.Submit(cmd.Context())
		},
	}
	f.bind(cmd)
	return cmd
}

func (rt *runtime) contentUpdateCmd() *cobra.Command {
	var f contentFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a content item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			page, err := rt.console.ContentPage(rt.confirmer())
			if err != nil {
				return err
			}
			item, err := rt.console.Content.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			page.OpenEdit(item)
			changed := false
			page.Modal().Update(func(d *content.Draft) { changed = f.apply(cmd, d) })
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

func (rt *runtime) contentDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a content item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			page, err := rt.console.ContentPage(rt.confirmer())
			if err != nil {
				return err
			}
			item, err := rt.console.Content.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return page.Delete(cmd.Context(), item)
		},
	}
}

func (rt *runtime) contentStateCmd() *cobra.Command {
	var comment string
	cmd := &cobra.Command{
		Use:   "state <id> <estado>",
		Short: "Change the state of a content item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			page, err := rt.console.ContentPage(rt.confirmer())
			if err != nil {
				return err
			}
			item, err := rt.console.Content.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return page.ChangeState(cmd.Context(), item, shared.StateChange{State: args[1], Comment: comment})
		},
	}
	cmd.Flags().StringVar(&comment, "comment", "", "review comment")
	return cmd
}

func (rt *runtime) approvalsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "approvals", Aliases: []string{"aprobaciones"}, Short: "Review content pending approval"}

	var f listFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List content waiting for review",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			queue, err := rt.console.ApprovalQueue()
			if err != nil {
				return err
			}
			return runList(cmd.Context(), rt, queue, &f, contentTable)
		},
	}
	f.bind(list, content.ListKeys)

	review := func(use, short string, approve bool) *cobra.Command {
		var comment string
		c := &cobra.Command{
			Use:   use + " <id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				queue, err := rt.console.ApprovalQueue()
				if err != nil {
					return err
				}
				item, err := rt.console.Content.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				if approve {
					return queue.Approve(cmd.Context(), item, comment)
				}
				return queue.Reject(cmd.Context(), item, comment)
			},
		}
		c.Flags().StringVarP(&comment, "comment", "m", "", "review comment")
		return c
	}

	cmd.AddCommand(list, review("approve", "Approve a content item", true), review("reject", "Reject a content item (comment required)", false))
	return cmd
}
