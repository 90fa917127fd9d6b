package stubapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/marketops/console/internal/campaigns"
	"github.com/marketops/console/internal/platform/httpx"
	"github.com/marketops/console/internal/shared"
	"github.com/marketops/console/internal/users"
)

var writerRoles = []string{users.RoleAdmin, users.RoleEditor}

func (s *Server) mountCampaigns(r chi.Router) {
	r.Get("/", s.listCampaigns)
	r.Get("/stats", s.campaignStats)
	r.Get("/{id}", s.getCampaign)
	r.Group(func(r chi.Router) {
		r.Use(requireRole(writerRoles...))
		r.Post("/", s.createCampaign)
		r.Put("/{id}", s.updateCampaign)
		r.Delete("/{id}", s.deleteCampaign)
		r.Patch("/{id}/estado", s.changeCampaignState)
	})
}

func (s *Server) listCampaigns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	state, search := q.Get("estado"), q.Get("search")
	respondPage(w, r, s.campaigns.list(func(c campaigns.Campaign) bool {
		if state != "" && c.State != state {
			return false
		}
		return search == "" || contains(c.Name, search) || contains(c.Description, search)
	}))
}

func (s *Server) getCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	c, found := s.campaigns.get(id)
	if !found {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func applyCampaign(c *campaigns.Campaign, d campaigns.Draft) {
	c.Name = strings.TrimSpace(d.Name)
	c.Description = d.Description
	c.Objective = d.Objective
	c.Budget = d.Budget
	c.StartDate = d.StartDate
	c.EndDate = d.EndDate
	c.Channels = d.Channels
}

func checkCampaignDates(d campaigns.Draft) error {
	if d.StartDate != "" && d.EndDate != "" && d.EndDate < d.StartDate {
		return invalid("fecha_fin", "La fecha de fin debe ser posterior al inicio")
	}
	return nil
}

func (s *Server) createCampaign(w http.ResponseWriter, r *http.Request) {
	var d campaigns.Draft
	if !decode(w, r, &d) {
		return
	}
	if err := checkCampaignDates(d); err != nil {
		respondErr(w, err)
		return
	}
	now := s.now().UTC()
	c := s.campaigns.insert(func(id int64) campaigns.Campaign {
		c := campaigns.Campaign{ID: id, State: campaigns.StateDraft, CreatedAt: now, UpdatedAt: now}
		applyCampaign(&c, d)
		return c
	})
	httpx.JSON(w, http.StatusCreated, c)
}

func (s *Server) updateCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var d campaigns.Draft
	if !decode(w, r, &d) {
		return
	}
	if err := checkCampaignDates(d); err != nil {
		respondErr(w, err)
		return
	}
	c, err := s.campaigns.update(id, func(c *campaigns.Campaign) error {
		if c.State == campaigns.StateFinished {
			return conflict("Una campaña finalizada no se puede editar")
		}
		applyCampaign(c, d)
		c.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (s *Server) deleteCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	c, found := s.campaigns.get(id)
	if !found {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	if c.State == campaigns.StateActive {
		respondErr(w, conflict("No se puede eliminar una campaña activa"))
		return
	}
	s.campaigns.remove(id)
	httpx.NoContent(w)
}

func (s *Server) changeCampaignState(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var change shared.StateChange
	if !decode(w, r, &change) {
		return
	}
	c, err := s.campaigns.update(id, func(c *campaigns.Campaign) error {
		if !campaigns.CanTransition(c.State, change.State) {
			return conflict(fmt.Sprintf("Una campaña %s no puede pasar a %s", c.State, change.State))
		}
		c.State = change.State
		c.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (s *Server) campaignStats(w http.ResponseWriter, _ *http.Request) {
	var st campaigns.Stats
	for _, c := range s.campaigns.list(nil) {
		st.Total++
		st.TotalBudget += c.Budget
		switch c.State {
		case campaigns.StateDraft:
			st.Draft++
		case campaigns.StateActive:
			st.Active++
		case campaigns.StatePaused:
			st.Paused++
		case campaigns.StateFinished:
			st.Finished++
		}
	}
	httpx.JSON(w, http.StatusOK, st)
}
