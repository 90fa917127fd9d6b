package stubapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/marketops/console/internal/content"
	"github.com/marketops/console/internal/platform/httpx"
	"github.com/marketops/console/internal/publications"
	"github.com/marketops/console/internal/shared"
)

var publicationTransitions = map[string][]string{
	publications.StateScheduled: {publications.StateCancelled, publications.StatePublished, publications.StateFailed},
	publications.StateFailed:    {publications.StateScheduled, publications.StateCancelled},
	publications.StateCancelled: {publications.StateScheduled},
}

func (s *Server) mountPublications(r chi.Router) {
	r.Get("/", s.listPublications)
	r.Get("/{id}", s.getPublication)
	r.Group(func(r chi.Router) {
		r.Use(requireRole(writerRoles...))
		r.Post("/", s.createPublication)
		r.Put("/{id}", s.updatePublication)
		r.Delete("/{id}", s.deletePublication)
		r.Patch("/{id}/estado", s.changePublicationState)
	})
}

func parseTime(v string) (time.Time, bool) {
	if v == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func (s *Server) listPublications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	state, network := q.Get("estado"), q.Get("red")
	from, hasFrom := parseTime(q.Get("desde"))
	to, hasTo := parseTime(q.Get("hasta"))
	contentID, _ := strconv.ParseInt(q.Get("contenido_id"), 10, 64)
	respondPage(w, r, s.pubs.list(func(p publications.Publication) bool {
		switch {
		case state != "" && p.State != state:
			return false
		case network != "" && p.Network != network:
			return false
		case contentID > 0 && p.ContentID != contentID:
			return false
		case hasFrom && p.ScheduledAt.Before(from):
			return false
		case hasTo && !p.ScheduledAt.Before(to):
			return false
		}
		return true
	}))
}

func (s *Server) getPublication(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	p, found := s.pubs.get(id)
	if !found {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

// schedulable returns the content a draft points at when it may be scheduled.
func (s *Server) schedulable(d publications.Draft) (content.Item, error) {
	item, ok := s.content.get(d.ContentID)
	if !ok {
		return content.Item{}, invalid("contenido_id", "El contenido no existe")
	}
	if item.State != content.StateApproved && item.State != content.StatePublished {
		return content.Item{}, conflict("Solo se puede programar contenido aprobado")
	}
	return item, nil
}

func (s *Server) createPublication(w http.ResponseWriter, r *http.Request) {
	var d publications.Draft
	if !decode(w, r, &d) {
		return
	}
	item, err := s.schedulable(d)
	if err != nil {
		respondErr(w, err)
		return
	}
	now := s.now().UTC()
	p := s.pubs.insert(func(id int64) publications.Publication {
		return publications.Publication{
			ID: id, ContentID: item.ID, ContentTitle: item.Title, Network: d.Network,
			ScheduledAt: d.ScheduledAt.UTC(), State: publications.StateScheduled, Message: d.Message,
			CreatedAt: now, UpdatedAt: now,
		}
	})
	httpx.JSON(w, http.StatusCreated, p)
}

func (s *Server) updatePublication(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var d publications.Draft
	if !decode(w, r, &d) {
		return
	}
	item, err := s.schedulable(d)
	if err != nil {
		respondErr(w, err)
		return
	}
	p, err := s.pubs.update(id, func(p *publications.Publication) error {
		if p.State != publications.StateScheduled {
			return conflict("Solo se pueden modificar publicaciones programadas")
		}
		p.ContentID = item.ID
		p.ContentTitle = item.Title
		p.Network = d.Network
		p.ScheduledAt = d.ScheduledAt.UTC()
		p.Message = d.Message
		p.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (s *Server) deletePublication(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	p, found := s.pubs.get(id)
	if !found {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	if p.State == publications.StatePublished {
		respondErr(w, conflict("Una publicación ya publicada no se puede eliminar"))
		return
	}
	s.pubs.remove(id)
	httpx.NoContent(w)
}

func (s *Server) changePublicationState(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var change shared.StateChange
	if !decode(w, r, &change) {
		return
	}
	p, err := s.pubs.update(id, func(p *publications.Publication) error {
		allowed := false
		for _, to := range publicationTransitions[p.State] {
			allowed = allowed || to == change.State
		}
		if !allowed {
			return conflict(fmt.Sprintf("Una publicación %s no puede pasar a %s", p.State, change.State))
		}
		p.State = change.State
		p.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}
