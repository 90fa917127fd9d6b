package stubapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/marketops/console/internal/auth"
	"github.com/marketops/console/internal/platform/httpx"
	"github.com/marketops/console/internal/users"
)

const msgInvalidCredentials = "Credenciales inválidas"

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Server) createUser(name, email, password, role string, active bool) (userRow, error) {
	email = normalizeEmail(email)
	if _, exists := s.users.find(func(u userRow) bool { return u.Email == email }); exists {
		return userRow{}, conflict("El email ya está registrado")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.opts.BcryptCost)
	if err != nil {
		return userRow{}, err
	}
	now := s.now().UTC()
	return s.users.insert(func(id int64) userRow {
		return userRow{
			User: users.User{
				ID: id, Name: strings.TrimSpace(name), Email: email, Role: role, Active: active,
				CreatedAt: now, UpdatedAt: now,
			},
			PasswordHash: string(hash),
		}
	}), nil
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var creds auth.Credentials
	if !decode(w, r, &creds) {
		return
	}
	email := normalizeEmail(creds.Email)
	u, ok := s.users.find(func(u userRow) bool { return u.Email == email })
	if !ok || !u.Active {
		httpx.Error(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(creds.Password)); err != nil {
		httpx.Error(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}
	s.respondToken(w, http.StatusOK, u)
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var reg auth.Registration
	if !decode(w, r, &reg) {
		return
	}
	u, err := s.createUser(reg.Name, reg.Email, reg.Password, users.RoleViewer, true)
	if err != nil {
		respondErr(w, err)
		return
	}
	s.respondToken(w, http.StatusCreated, u)
}

func (s *Server) respondToken(w http.ResponseWriter, status int, u userRow) {
	token, err := s.tokens.generate(u.ID, u.Role)
	if err != nil {
		s.logger.Error("sign token", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, status, auth.Response{Token: token, User: u.User})
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, currentUser(r).User)
}

// authenticate resolves the bearer token to an active user.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			httpx.Error(w, http.StatusUnauthorized, "Falta el token de acceso")
			return
		}
		id, err := s.tokens.verify(token)
		if err != nil {
			msg := "Token inválido"
			if errors.Is(err, errExpiredToken) {
				msg = "Tu sesión ha expirado"
			}
			httpx.Error(w, http.StatusUnauthorized, msg)
			return
		}
		u, ok := s.users.get(id)
		if !ok || !u.Active {
			httpx.Error(w, http.StatusUnauthorized, "Token inválido")
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), u)))
	})
}

// requireRole rejects users holding none of roles.
func requireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !currentUser(r).HasRole(roles...) {
				httpx.RespondError(w, httpx.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
