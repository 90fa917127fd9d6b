package users

import (
	"github.com/marketops/console/internal/pagestate"
)

// Page is the user management controller.
type Page = pagestate.Controller[User, Draft]

// NewPage builds the user management page. currentUserID reports the
// signed-in user so self-deletion is refused before any request.
func NewPage(api *API, currentUserID func() int64, opts pagestate.Options[User]) *Page {
	opts.Name = "usuarios"
	opts.DeleteGuard = func(u User) error {
		if currentUserID != nil && u.ID == currentUserID() {
			return ErrSelfDelete
		}
		return nil
	}
	opts.Messages = pagestate.Messages{
		Created: "Usuario creado",
		Updated: "Usuario actualizado",
		Deleted: "Usuario eliminado",
	}
	return pagestate.New[User, Draft](api, FormSpec(), opts)
}
