package stubapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/marketops/console/internal/platform/httpx"
	"github.com/marketops/console/internal/users"
)

func (s *Server) mountUsers(r chi.Router) {
	r.Use(requireRole(users.RoleAdmin))
	r.Get("/", s.listUsers)
	r.Post("/", s.createUserHandler)
	r.Get("/{id}", s.getUser)
	r.Put("/{id}", s.updateUser)
	r.Delete("/{id}", s.deleteUser)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	role, active, search := q.Get("rol"), q.Get("activo"), q.Get("search")
	wantActive, activeErr := strconv.ParseBool(active)
	rows := s.users.list(func(u userRow) bool {
		if role != "" && u.Role != role {
			return false
		}
		if active != "" && activeErr == nil && u.Active != wantActive {
			return false
		}
		return search == "" || contains(u.Name, search) || contains(u.Email, search)
	})
	out := make([]users.User, len(rows))
	for i, u := range rows {
		out[i] = u.User
	}
	respondPage(w, r, out)
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	u, found := s.users.get(id)
	if !found {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	httpx.JSON(w, http.StatusOK, u.User)
}

func (s *Server) createUserHandler(w http.ResponseWriter, r *http.Request) {
	var d users.Draft
	if !decode(w, r, &d) {
		return
	}
	if strings.TrimSpace(d.Password) == "" {
		respondErr(w, invalid("password", "Este campo es obligatorio"))
		return
	}
	active := d.Active == nil || *d.Active
	u, err := s.createUser(d.Name, d.Email, d.Password, d.Role, active)
	if err != nil {
		respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, u.User)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var d users.Draft
	if !decode(w, r, &d) {
		return
	}
	email := normalizeEmail(d.Email)
	if other, exists := s.users.find(func(u userRow) bool { return u.Email == email }); exists && other.ID != id {
		respondErr(w, conflict("El email ya está registrado"))
		return
	}
	var hash []byte
	if d.Password != "" {
		var err error
		if hash, err = bcrypt.GenerateFromPassword([]byte(d.Password), s.opts.BcryptCost); err != nil {
			respondErr(w, err)
			return
		}
	}
	me := currentUser(r)
	u, err := s.users.update(id, func(u *userRow) error {
		if u.ID == me.ID && d.Active != nil && !*d.Active {
			return conflict("No puedes desactivar tu propia cuenta")
		}
		u.Name = strings.TrimSpace(d.Name)
		u.Email = email
		u.Role = d.Role
		if d.Active != nil {
			u.Active = *d.Active
		}
		if hash != nil {
			u.PasswordHash = string(hash)
		}
		u.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, u.User)
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if id == currentUser(r).ID {
		respondErr(w, conflict("No puedes eliminar tu propia cuenta"))
		return
	}
	if !s.users.remove(id) {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	httpx.NoContent(w)
}
