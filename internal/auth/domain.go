package auth

import "github.com/marketops/console/internal/users"

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Registration is the self sign-up payload.
type Registration struct {
	Name     string `json:"nombre" validate:"required,notblank,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Response is returned by login and register.
type Response struct {
	Token string     `json:"token"`
	User  users.User `json:"user"`
}
