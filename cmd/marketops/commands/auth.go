package commands

import (
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/marketops/console/internal/auth"
	"github.com/marketops/console/internal/form"
	"github.com/marketops/console/internal/session"
)

func (rt *runtime) loginCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Sign in and store the session token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = rt.prompt.Ask("Contraseña")
			}
			res := rt.console.Session.Login(cmd.Context(), args[0], password)
			return rt.authResult(res)
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	return cmd
}

func (rt *runtime) registerCmd() *cobra.Command {
	var reg auth.Registration
	cmd := &cobra.Command{
		Use:   "register <nombre> <email>",
		Short: "Create an account and sign in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg.Name, reg.Email = args[0], args[1]
			if reg.Password == "" {
				reg.Password = rt.prompt.Ask("Contraseña")
			}
			return rt.authResult(rt.console.Session.Register(cmd.Context(), reg))
		},
	}
	cmd.Flags().StringVarP(&reg.Password, "password", "p", "", "password (prompted when omitted)")
	return cmd
}

// authResult turns a session result into output and an exit status.
func (rt *runtime) authResult(res session.Result) error {
	if !res.OK {
		if len(res.Fields) > 0 {
			return &form.ValidationError{Fields: res.Fields}
		}
		if res.Err != nil {
			return res.Err
		}
		return errors.New(res.Message)
	}
	u, _ := rt.console.Session.User()
	successColor.Fprintf(rt.streams.Err, "✓ Sesión iniciada como %s (%s)\n", u.Email, u.Role)
	return nil
}

func (rt *runtime) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt.console.Session.Logout(cmd.Context())
			successColor.Fprintln(rt.streams.Err, "✓ Sesión cerrada")
			return nil
		},
	}
}

func (rt *runtime) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := rt.requireLogin(); err != nil {
				return err
			}
			u, _ := rt.console.Session.User()
			return rt.render(u, func(w io.Writer) {
				row(w, "ID", "NOMBRE", "EMAIL", "ROL")
				row(w, u.ID, u.Name, u.Email, u.Role)
			})
		},
	}
}

var errMissingFlags = errors.New("nothing to change: pass at least one field flag")
