package users

import (
	"strings"

	"github.com/marketops/console/internal/form"
)

// FormSpec seeds and normalizes user drafts. The password is required on
// create and omitted on update unless the admin typed a new one.
func FormSpec() form.Spec[User, Draft] {
	return form.Spec[User, Draft]{
		New: func() Draft {
			active := true
			return Draft{Role: RoleViewer, Active: &active}
		},
		From: func(u User) Draft {
			active := u.Active
			return Draft{Name: u.Name, Email: u.Email, Role: u.Role, Active: &active}
		},
		Normalize: func(d Draft, _ bool) Draft {
			d.Name = strings.TrimSpace(d.Name)
			d.Email = strings.ToLower(strings.TrimSpace(d.Email))
			d.Password = strings.TrimSpace(d.Password)
			return d
		},
		Check: func(d Draft, editing bool) map[string]string {
			if !editing && strings.TrimSpace(d.Password) == "" {
				return map[string]string{"password": "Este campo es obligatorio"}
			}
			return nil
		},
	}
}
