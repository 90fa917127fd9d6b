package stubapi

import (
	"time"

	"github.com/marketops/console/internal/campaigns"
	"github.com/marketops/console/internal/content"
	"github.com/marketops/console/internal/publications"
	"github.com/marketops/console/internal/social"
	"github.com/marketops/console/internal/users"
)

// seed loads a small, coherent data set for local development.
func (s *Server) seed() error {
	if _, err := s.createUser("Elena Editora", "editor@marketops.local", s.opts.AdminPassword, users.RoleEditor, true); err != nil {
		return err
	}
	if _, err := s.createUser("Andrés Aprobador", "aprobador@marketops.local", s.opts.AdminPassword, users.RoleApprover, true); err != nil {
		return err
	}
	now := s.now().UTC()
	day := func(offset int) string { return now.AddDate(0, 0, offset).Format(campaigns.DateLayout) }

	seedCampaigns := []campaigns.Campaign{
		{Name: "Rebajas de verano", Objective: "conversion", Budget: 4500, StartDate: day(-20), EndDate: day(10), State: campaigns.StateActive, Channels: []string{"instagram", "facebook"}},
		{Name: "Lanzamiento app", Objective: "alcance", Budget: 12000, StartDate: day(5), EndDate: day(60), State: campaigns.StateDraft, Channels: []string{"linkedin", "twitter"}},
		{Name: "Black Friday", Objective: "trafico", Budget: 8000, StartDate: day(-90), EndDate: day(-60), State: campaigns.StateFinished, Channels: []string{"email", "instagram"}},
	}
	for _, c := range seedCampaigns {
		s.campaigns.insert(func(id int64) campaigns.Campaign {
			c.ID, c.CreatedAt, c.UpdatedAt = id, now, now
			return c
		})
	}

	summer := int64(1)
	launch := int64(2)
	seedContent := []content.Item{
		{Title: "Carrusel de novedades", Type: content.TypePost, CampaignID: &summer, State: content.StatePublished, Tags: []string{"verano"}},
		{Title: "Newsletter de julio", Type: content.TypeEmail, CampaignID: &summer, State: content.StateApproved},
		{Title: "Teaser de la app", Type: content.TypePost, CampaignID: &launch, State: content.StatePending},
		{Title: "Guía de uso", Type: content.TypeArticle, CampaignID: &launch, State: content.StateDraft},
	}
	for _, i := range seedContent {
		s.content.insert(func(id int64) content.Item {
			i.ID, i.AuthorID, i.CreatedAt, i.UpdatedAt = id, 2, now, now
			return i
		})
	}

	seedPubs := []publications.Publication{
		{ContentID: 1, ContentTitle: "Carrusel de novedades", Network: "instagram", ScheduledAt: now.Add(-72 * time.Hour), State: publications.StatePublished, PublicationURL: "https://instagram.example.com/p/1"},
		{ContentID: 1, ContentTitle: "Carrusel de novedades", Network: "facebook", ScheduledAt: now.Add(-48 * time.Hour), State: publications.StatePublished, PublicationURL: "https://facebook.example.com/p/2"},
		{ContentID: 2, ContentTitle: "Newsletter de julio", Network: "linkedin", ScheduledAt: now.Add(48 * time.Hour), State: publications.StateScheduled},
	}
	for _, p := range seedPubs {
		s.pubs.insert(func(id int64) publications.Publication {
			p.ID, p.CreatedAt, p.UpdatedAt = id, now, now
			return p
		})
	}

	s.accounts.insert(func(id int64) social.Account {
		return social.Account{ID: id, Network: "instagram", Handle: "marketops", Name: "MarketOps", Connected: true, ConnectedAt: now}
	})
	return nil
}
