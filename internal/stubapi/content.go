package stubapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/marketops/console/internal/content"
	"github.com/marketops/console/internal/platform/httpx"
	"github.com/marketops/console/internal/shared"
	"github.com/marketops/console/internal/users"
)

var reviewerRoles = []string{users.RoleAdmin, users.RoleApprover}

// contentTransitions maps each state to the states reachable from it and
// the roles allowed to make the move.
var contentTransitions = map[string]map[string][]string{
	content.StateDraft:    {content.StatePending: writerRoles},
	content.StatePending:  {content.StateApproved: reviewerRoles, content.StateRejected: reviewerRoles, content.StateDraft: writerRoles},
	content.StateRejected: {content.StatePending: writerRoles, content.StateDraft: writerRoles},
	content.StateApproved: {content.StatePublished: writerRoles, content.StateDraft: writerRoles},
}

func (s *Server) mountContent(r chi.Router) {
	r.Get("/", s.listContent)
	r.Get("/{id}", s.getContent)
	r.Patch("/{id}/estado", s.changeContentState)
	r.Group(func(r chi.Router) {
		r.Use(requireRole(writerRoles...))
		r.Post("/", s.createContent)
		r.Put("/{id}", s.updateContent)
		r.Delete("/{id}", s.deleteContent)
	})
}

func (s *Server) listContent(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	state, kind, search := q.Get("estado"), q.Get("tipo"), q.Get("search")
	campaignID, _ := strconv.ParseInt(q.Get("campana_id"), 10, 64)
	respondPage(w, r, s.content.list(func(i content.Item) bool {
		if state != "" && i.State != state {
			return false
		}
		if kind != "" && i.Type != kind {
			return false
		}
		if campaignID > 0 && (i.CampaignID == nil || *i.CampaignID != campaignID) {
			return false
		}
		return search == "" || contains(i.Title, search) || contains(i.Body, search)
	}))
}

func (s *Server) getContent(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	i, found := s.content.get(id)
	if !found {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	httpx.JSON(w, http.StatusOK, i)
}

func (s *Server) checkContentDraft(d content.Draft) error {
	if d.CampaignID != nil {
		if _, ok := s.campaigns.get(*d.CampaignID); !ok {
			return invalid("campana_id", "La campaña no existe")
		}
	}
	return nil
}

func applyContent(i *content.Item, d content.Draft) {
	i.Title = strings.TrimSpace(d.Title)
	i.Body = d.Body
	i.Type = d.Type
	i.CampaignID = d.CampaignID
	i.ImageURL = d.ImageURL
	i.Tags = d.Tags
}

func (s *Server) createContent(w http.ResponseWriter, r *http.Request) {
	var d content.Draft
	if !decode(w, r, &d) {
		return
	}
	if err := s.checkContentDraft(d); err != nil {
		respondErr(w, err)
		return
	}
	author := currentUser(r).ID
	now := s.now().UTC()
	i := s.content.insert(func(id int64) content.Item {
		i := content.Item{ID: id, State: content.StateDraft, AuthorID: author, CreatedAt: now, UpdatedAt: now}
		applyContent(&i, d)
		if d.SubmitForReview {
			i.State = content.StatePending
		}
		return i
	})
	httpx.JSON(w, http.StatusCreated, i)
}

func (s *Server) updateContent(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var d content.Draft
	if !decode(w, r, &d) {
		return
	}
	if err := s.checkContentDraft(d); err != nil {
		respondErr(w, err)
		return
	}
	i, err := s.content.update(id, func(i *content.Item) error {
		if i.State == content.StatePublished {
			return conflict("El contenido publicado no se puede editar")
		}
		applyContent(i, d)
		// Edits send approved or rejected content back to draft.
		if i.State == content.StateApproved || i.State == content.StateRejected {
			i.State = content.StateDraft
		}
		if d.SubmitForReview {
			i.State = content.StatePending
		}
		i.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, i)
}

func (s *Server) deleteContent(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	i, found := s.content.get(id)
	if !found {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	if i.State == content.StatePublished {
		respondErr(w, conflict("El contenido publicado no se puede eliminar"))
		return
	}
	s.content.remove(id)
	httpx.NoContent(w)
}

func (s *Server) changeContentState(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var change shared.StateChange
	if !decode(w, r, &change) {
		return
	}
	me := currentUser(r)
	i, err := s.content.update(id, func(i *content.Item) error {
		roles, allowed := contentTransitions[i.State][change.State]
		if !allowed {
			return conflict(fmt.Sprintf("El contenido %s no puede pasar a %s", i.State, change.State))
		}
		if !me.HasRole(roles...) {
			return httpx.ErrForbidden
		}
		if change.State == content.StateRejected && strings.TrimSpace(change.Comment) == "" {
			return invalid("comentario", "Indica el motivo del rechazo")
		}
		i.State = change.State
		if change.State == content.StateApproved || change.State == content.StateRejected {
			i.ReviewComment = strings.TrimSpace(change.Comment)
		}
		i.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, i)
}
