package commands

import (
	"io"

	"github.com/spf13/cobra"
)

func (rt *runtime) healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := rt.console.Health.Check(cmd.Context())
			if err != nil {
				return err
			}
			return rt.render(st, func(w io.Writer) {
				row(w, "ESTADO", "VERSIÓN", "BACKEND")
				row(w, st.Status, dash(st.Version), rt.console.Config.APIBaseURL)
			})
		},
	}
}
