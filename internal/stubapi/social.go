package stubapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marketops/console/internal/content"
	"github.com/marketops/console/internal/platform/httpx"
	"github.com/marketops/console/internal/publications"
	"github.com/marketops/console/internal/social"
	"github.com/marketops/console/internal/users"
)

func (s *Server) mountSocial(r chi.Router) {
	r.Get("/cuentas", s.listAccounts)
	r.With(requireRole(users.RoleAdmin)).Post("/cuentas", s.connectAccount)
	r.With(requireRole(users.RoleAdmin)).Delete("/cuentas/{id}", s.disconnectAccount)
	r.With(requireRole(writerRoles...)).Post("/publicar", s.publish)
}

func (s *Server) listAccounts(w http.ResponseWriter, _ *http.Request) {
	httpx.JSON(w, http.StatusOK, s.accounts.list(nil))
}

func (s *Server) connectAccount(w http.ResponseWriter, r *http.Request) {
	var req social.ConnectRequest
	if !decode(w, r, &req) {
		return
	}
	if _, exists := s.accounts.find(func(a social.Account) bool { return a.Network == req.Network }); exists {
		respondErr(w, conflict(fmt.Sprintf("Ya hay una cuenta de %s conectada", req.Network)))
		return
	}
	now := s.now().UTC()
	a := s.accounts.insert(func(id int64) social.Account {
		return social.Account{ID: id, Network: req.Network, Handle: req.Handle, Name: req.Handle, Connected: true, ConnectedAt: now}
	})
	httpx.JSON(w, http.StatusCreated, a)
}

func (s *Server) disconnectAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if !s.accounts.remove(id) {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	httpx.NoContent(w)
}

func (s *Server) publish(w http.ResponseWriter, r *http.Request) {
	var req social.PublishRequest
	if !decode(w, r, &req) {
		return
	}
	p, found := s.pubs.get(req.PublicationID)
	if !found {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	if _, connected := s.accounts.find(func(a social.Account) bool { return a.Network == p.Network && a.Connected }); !connected {
		respondErr(w, conflict(fmt.Sprintf("No hay una cuenta de %s conectada", p.Network)))
		return
	}
	url := fmt.Sprintf("https://%s.example.com/p/%d", p.Network, p.ID)
	p, err := s.pubs.update(p.ID, func(p *publications.Publication) error {
		if p.State != publications.StateScheduled {
			return conflict("Solo se pueden publicar publicaciones programadas")
		}
		p.State = publications.StatePublished
		p.PublicationURL = url
		p.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	_, _ = s.content.update(p.ContentID, func(i *content.Item) error {
		i.State = content.StatePublished
		i.UpdatedAt = s.now().UTC()
		return nil
	})
	httpx.JSON(w, http.StatusOK, social.PublishResult{PublicationID: p.ID, State: p.State, PublicationURL: p.PublicationURL})
}
