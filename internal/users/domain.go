package users

import (
	"errors"
	"time"

	"github.com/marketops/console/internal/shared"
)

// Roles recognised by the backend.
const (
	RoleAdmin    = "admin"
	RoleEditor   = "editor"
	RoleApprover = "aprobador"
	RoleViewer   = "lector"
)

// Roles lists every role in display order.
var Roles = []string{RoleAdmin, RoleEditor, RoleApprover, RoleViewer}

// ErrSelfDelete rejects deleting the account that is signed in.
var ErrSelfDelete = shared.NewMessageError(errors.New("users: cannot delete current user"), "No puedes eliminar tu propia cuenta")

// User represents a user account for management.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"nombre"`
	Email     string    `json:"email"`
	Role      string    `json:"rol"`
	Active    bool      `json:"activo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EntityID implements pagestate.Entity.
func (u User) EntityID() int64 { return u.ID }

// Label implements pagestate.Labeled.
func (u User) Label() string { return u.Email }

// HasRole reports whether the user holds one of roles.
func (u User) HasRole(roles ...string) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// Draft is the editable projection of a User.
type Draft struct {
	Name     string `json:"nombre" validate:"required,notblank,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
	Role     string `json:"rol" validate:"required,oneof=admin editor aprobador lector"`
	Active   *bool  `json:"activo,omitempty"`
}
