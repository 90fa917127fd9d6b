package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/marketops/console/internal/social"
)

func (rt *runtime) socialCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "social", Short: "Manage connected social accounts (admin)"}
	cmd.AddCommand(rt.socialAccountsCmd(), rt.socialConnectCmd(), rt.socialDisconnectCmd(), rt.socialPublishCmd())
	return cmd
}

func accountTable(w io.Writer, items []social.Account) {
	row(w, "ID", "RED", "USUARIO", "NOMBRE", "CONECTADA", "DESDE")
	for _, a := range items {
		row(w, a.ID, a.Network, "@"+a.Handle, dash(a.Name), yesNo(a.Connected), formatTime(a.ConnectedAt))
	}
}

func (rt *runtime) socialAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List connected accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			accounts, err := rt.console.SocialAccounts(rt.confirmer())
			if err != nil {
				return err
			}
			if err := accounts.Load(cmd.Context()); err != nil {
				return err
			}
			list := accounts.State().Accounts
			return rt.render(list, func(w io.Writer) { accountTable(w, list) })
		},
	}
}

func (rt *runtime) socialConnectCmd() *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "connect <red> <usuario>",
		Short: "Connect an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			accounts, err := rt.console.SocialAccounts(rt.confirmer())
			if err != nil {
				return err
			}
			if token == "" {
				token = rt.prompt.Ask("Token de acceso")
			}
			return accounts.Connect(cmd.Context(), social.ConnectRequest{Network: args[0], Handle: args[1], AccessToken: token})
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "network access token (prompted when omitted)")
	return cmd
}

func (rt *runtime) socialDisconnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect <id>",
		Short: "Disconnect an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			accounts, err := rt.console.SocialAccounts(rt.confirmer())
			if err != nil {
				return err
			}
			if err := accounts.Load(cmd.Context()); err != nil {
				return err
			}
			for _, a := range accounts.State().Accounts {
				if a.ID == id {
					return accounts.Disconnect(cmd.Context(), a)
				}
			}
			return fmt.Errorf("account %d not found", id)
		},
	}
}

func (rt *runtime) socialPublishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish <publicacion_id>",
		Short: "Publish a scheduled publication now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			accounts, err := rt.console.SocialAccounts(rt.confirmer())
			if err != nil {
				return err
			}
			res, err := accounts.Publish(cmd.Context(), id)
			if err != nil {
				return err
			}
			return rt.render(res, func(w io.Writer) {
				row(w, "PUBLICACIÓN", "ESTADO", "URL")
				row(w, res.PublicationID, res.State, dash(res.PublicationURL))
			})
		},
	}
}
