package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/marketops/console/internal/pagestate"
	"github.com/marketops/console/internal/shared"
)

// lister is the part of a page controller the list commands drive.
type lister[T any] interface {
	FetchList(ctx context.Context, page int) error
	SetPage(ctx context.Context, page int) error
	SetFilters(ctx context.Context, filters shared.Filters) error
	State() pagestate.State[T]
}

// listFlags are shared by every list subcommand.
type listFlags struct {
	page    int
	search  string
	filters map[string]string
}

func (f *listFlags) bind(cmd *cobra.Command, keys []string) {
	cmd.Flags().IntVar(&f.page, "page", 1, "page number")
	cmd.Flags().StringVar(&f.search, "search", "", "free-text search")
	cmd.Flags().StringToStringVar(&f.filters, "filter", nil, fmt.Sprintf("filter as key=value (%v)", keys))
}

func (f *listFlags) values() shared.Filters {
	out := shared.Filters{}
	for k, v := range f.filters {
		out.Set(k, v)
	}
	if f.search != "" {
		out.Set("search", f.search)
	}
	return out
}

// runList loads the requested page and renders it.
func runList[T any](ctx context.Context, rt *runtime, page lister[T], f *listFlags, table func(w io.Writer, items []T)) error {
	filters := f.values()
	var err error
	switch {
	case len(filters) > 0:
		err = page.SetFilters(ctx, filters)
		if err == nil && f.page > 1 {
			err = page.SetPage(ctx, f.page)
		}
	default:
		err = page.FetchList(ctx, f.page)
	}
	if err != nil {
		return err
	}
	st := page.State()
	return rt.render(st.List, func(w io.Writer) {
		table(w, st.List.Data)
		if st.List.Empty() {
			fmt.Fprintln(w, "Sin resultados")
		}
		fmt.Fprintf(w, "Página %d de %d (%d en total)\n", st.List.Page, max(st.List.Pages, 1), st.List.Total)
	})
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
