package commands

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marketops/console/internal/users"
)

func (rt *runtime) usersCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "users", Aliases: []string{"usuarios"}, Short: "Manage console users (admin)"}
	cmd.AddCommand(rt.usersListCmd(), rt.usersCreateCmd(), rt.usersUpdateCmd(), rt.usersDeleteCmd())
	return cmd
}

func userTable(w io.Writer, items []users.User) {
	row(w, "ID", "NOMBRE", "EMAIL", "ROL", "ACTIVO")
	for _, u := range items {
		row(w, u.ID, u.Name, u.Email, u.Role, yesNo(u.Active))
	}
}

func (rt *runtime) usersListCmd() *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := rt.console.UsersPage(rt.confirmer())
			if err != nil {
				return err
			}
			return runList(cmd.Context(), rt, page, &f, userTable)
		},
	}
	f.bind(cmd, users.ListKeys)
	return cmd
}

// userFlags maps flags onto a users.Draft; only flags that were set apply.
type userFlags struct {
	name, email, password, role string
	active                      bool
}

func (f *userFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "full name")
	cmd.Flags().StringVar(&f.email, "email", "", "email address")
	cmd.Flags().StringVar(&f.password, "password", "", "password")
	cmd.Flags().StringVar(&f.role, "role", "", strings.Join(users.Roles, ", "))
	cmd.Flags().BoolVar(&f.active, "active", true, "account enabled")
}

func (f *userFlags) apply(cmd *cobra.Command, d *users.Draft) bool {
	set := cmd.Flags().Changed
	changed := false
	if set("name") {
		d.Name, changed = f.name, true
	}
	if set("email") {
		d.Email, changed = f.email, true
	}
	if set("password") {
		d.Password, changed = f.password, true
	}
	if set("role") {
		d.Role, changed = f.role, true
	}
	if set("active") {
		active := f.active
		d.Active, changed = &active, true
	}
	return changed
}

func (rt *runtime) usersCreateCmd() *cobra.Command {
	var f userFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := rt.console.UsersPage(rt.confirmer())
			if err != nil {
				return err
			}
			page.OpenCreate()
			page.Modal().Update(func(d *users.Draft) { f.apply(cmd, d) })
			return page.Submit(cmd.Context())
		},
	}
	f.bind(cmd)
	return cmd
}

func (rt *runtime) usersUpdateCmd() *cobra.Command {
	var f userFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			page, err := rt.console.UsersPage(rt.confirmer())
			if err != nil {
				return err
			}
			u, err := rt.console.Users.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			page.OpenEdit(u)
			changed := false
			page.Modal().Update(func(d *users.Draft) { changed = f.apply(cmd, d) })
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

func (rt *runtime) usersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			page, err := rt.console.UsersPage(rt.confirmer())
			if err != nil {
				return err
			}
			u, err := rt.console.Users.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return page.Delete(cmd.Context(), u)
		},
	}
}
