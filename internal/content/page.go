package content

import (
	"github.com/marketops/console/internal/pagestate"
)

// Page is the content library controller.
type Page = pagestate.Controller[Item, Draft]

// NewPage builds the content library page.
func NewPage(api *API, opts pagestate.Options[Item]) *Page {
	opts.Name = "contenido"
	opts.DeleteGuard = func(i Item) error {
		if i.State == StatePublished {
			return ErrPublishedDelete
		}
		return nil
	}
	opts.Messages = pagestate.Messages{
		Created:      "Contenido creado",
		Updated:      "Contenido actualizado",
		Deleted:      "Contenido eliminado",
		StateChanged: "Contenido enviado",
	}
	return pagestate.New[Item, Draft](api, FormSpec(), opts)
}
