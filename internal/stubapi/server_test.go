package stubapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/marketops/console/internal/app"
	"github.com/marketops/console/internal/content"
	"github.com/marketops/console/internal/pagestate"
	"github.com/marketops/console/internal/publications"
	"github.com/marketops/console/internal/session"
	"github.com/marketops/console/internal/shared"
	_ "github.com/marketops/console/internal/testing/guard"
	"github.com/marketops/console/internal/tokenstore"
	"github.com/marketops/console/internal/users"
)

const (
	adminEmail    = "admin@marketops.test"
	adminPassword = "admin-pass-123"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type harness struct {
	server *Server
	url    string
	clock  *clock
}

func newHarness(t *testing.T, seed bool) *harness {
	t.Helper()
	clk := &clock{now: time.Now()}
	srv, err := New(Options{
		JWTSecret:     []byte("test-secret-0123456789"),
		TokenTTL:      time.Hour,
		AdminEmail:    adminEmail,
		AdminPassword: adminPassword,
		Seed:          seed,
		RateLimit:     1000,
		BcryptCost:    bcrypt.MinCost,
		Now:           clk.Now,
	})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &harness{server: srv, url: ts.URL, clock: clk}
}

func (h *harness) console(t *testing.T) *app.Console {
	t.Helper()
	cfg := &app.Config{
		APIBaseURL: h.url,
		TokenStore: app.TokenStoreMemory,
		TokenKey:   tokenstore.DefaultKey,
		PageLimit:  10,
		BannerTTL:  time.Second,
	}
	c, err := app.NewConsole(context.Background(), cfg, nil, app.ConsoleParams{Tokens: tokenstore.NewMemoryStore()})
	require.NoError(t, err)
	t.Cleanup(func() {
		c.Notifier.Close()
		c.Close()
	})
	return c
}

func (h *harness) signedIn(t *testing.T, email, password string) *app.Console {
	t.Helper()
	c := h.console(t)
	res := c.Session.Login(context.Background(), email, password)
	require.True(t, res.OK, res.Message)
	return c
}

func TestHealthAndUnknownRoute(t *testing.T) {
	h := newHarness(t, false)
	c := h.console(t)

	st, err := c.Health.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, st.OK())
	assert.Equal(t, Version, st.Version)

	resp, err := http.Get(h.url + "/api/nada")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Ruta no encontrada", body["message"])
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	h := newHarness(t, false)
	resp, err := http.Get(h.url + "/api/campanas")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWrongPasswordLeavesSessionAnonymous(t *testing.T) {
	h := newHarness(t, false)
	c := h.console(t)

	res := c.Session.Login(context.Background(), adminEmail, "not-the-password")
	assert.False(t, res.OK)
	assert.Equal(t, msgInvalidCredentials, res.Message)
	st := c.Session.State()
	assert.Equal(t, session.StatusAnonymous, st.Status)
	assert.False(t, c.Session.IsAuthenticated())
	token, err := c.Tokens.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestLoginPersistsTokenAndInitRestoresSession(t *testing.T) {
	h := newHarness(t, false)
	c := h.signedIn(t, adminEmail, adminPassword)
	ctx := context.Background()

	token, err := c.Tokens.Load(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	again, err := app.NewConsole(ctx, c.Config, nil, app.ConsoleParams{Tokens: c.Tokens})
	require.NoError(t, err)
	st := again.Session.Init(ctx)
	assert.Equal(t, session.StatusAuthenticated, st.Status)
	require.NotNil(t, st.User)
	assert.Equal(t, adminEmail, st.User.Email)
	assert.Equal(t, users.RoleAdmin, st.User.Role)
}

func TestServerSideExpiryEndsSession(t *testing.T) {
	h := newHarness(t, false)
	c := h.signedIn(t, adminEmail, adminPassword)
	page, err := c.CampaignsPage(nil)
	require.NoError(t, err)

	h.clock.Advance(2 * time.Hour)
	require.Error(t, page.FetchList(context.Background(), 1))

	st := c.Session.State()
	assert.Equal(t, session.StatusAnonymous, st.Status)
	assert.Equal(t, "Tu sesión ha expirado", st.Error)
	_, err = c.CampaignsPage(nil)
	assert.ErrorIs(t, err, session.ErrUnauthenticated)
}

func TestUsersPaginationSecondPageOfThree(t *testing.T) {
	h := newHarness(t, false)
	for i := 1; i < 25; i++ {
		_, err := h.server.createUser(fmt.Sprintf("Usuario %02d", i), fmt.Sprintf("u%02d@marketops.test", i), "password-123", users.RoleViewer, true)
		require.NoError(t, err)
	}
	c := h.signedIn(t, adminEmail, adminPassword)
	page, err := c.UsersPage(nil)
	require.NoError(t, err)

	require.NoError(t, page.SetPage(context.Background(), 2))
	st := page.State()
	assert.Equal(t, 2, st.List.Page)
	assert.Equal(t, 3, st.List.Pages)
	assert.Equal(t, 25, st.List.Total)
	assert.LessOrEqual(t, len(st.List.Data), st.Limit)
	assert.Len(t, st.List.Data, 10)
}

func TestUsersPageFiltersAndSelfDelete(t *testing.T) {
	h := newHarness(t, true)
	c := h.signedIn(t, adminEmail, adminPassword)
	page, err := c.UsersPage(pagestate.AlwaysConfirm)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, page.SetFilter(ctx, "rol", users.RoleEditor))
	st := page.State()
	require.Len(t, st.List.Data, 1)
	assert.Equal(t, "editor@marketops.local", st.List.Data[0].Email)

	me, _ := c.Session.User()
	err = page.Delete(ctx, me)
	assert.ErrorIs(t, err, users.ErrSelfDelete)
}

func TestNonAdminCannotOpenUsers(t *testing.T) {
	h := newHarness(t, true)
	c := h.signedIn(t, "editor@marketops.local", adminPassword)
	_, err := c.UsersPage(nil)
	assert.ErrorIs(t, err, session.ErrForbidden)
}

func TestRegisterCreatesViewer(t *testing.T) {
	h := newHarness(t, false)
	c := h.console(t)
	res := c.Session.Register(context.Background(), authRegistration("Nuevo", "nuevo@marketops.test", "password-123"))
	require.True(t, res.OK, res.Message)
	u, ok := c.Session.User()
	require.True(t, ok)
	assert.Equal(t, users.RoleViewer, u.Role)

	dup := h.console(t).Session.Register(context.Background(), authRegistration("Otro", "nuevo@marketops.test", "password-123"))
	assert.False(t, dup.OK)
	assert.Equal(t, "El email ya está registrado", dup.Message)
}

func TestContentWithOnlyTitleIsStored(t *testing.T) {
	h := newHarness(t, false)
	c := h.signedIn(t, adminEmail, adminPassword)
	page, err := c.ContentPage(nil)
	require.NoError(t, err)
	ctx := context.Background()

	page.OpenCreate()
	page.Modal().Update(func(d *content.Draft) { d.Title = "Solo título" })
	require.NoError(t, page.Submit(ctx))

	st := page.State()
	require.Len(t, st.List.Data, 1)
	item := st.List.Data[0]
	assert.Equal(t, "Solo título", item.Title)
	assert.Equal(t, content.StateDraft, item.State)
	assert.Empty(t, item.Body)
	assert.Nil(t, item.CampaignID)
	assert.Empty(t, item.Tags)
	assert.False(t, st.ModalOpen())
}

func TestApprovalWorkflow(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()

	editor := h.signedIn(t, "editor@marketops.local", adminPassword)
	_, err := editor.ApprovalQueue()
	require.ErrorIs(t, err, session.ErrForbidden)
	library, err := editor.ContentPage(nil)
	require.NoError(t, err)
	library.OpenCreate()
	library.Modal().Update(func(d *content.Draft) {
		d.Title = "Post de otoño"
		d.SubmitForReview = true
	})
	require.NoError(t, library.Submit(ctx))

	approver := h.signedIn(t, "aprobador@marketops.local", adminPassword)
	queue, err := approver.ApprovalQueue()
	require.NoError(t, err)
	require.NoError(t, queue.Refresh(ctx))
	pending := queue.State().List.Data
	// One seeded item plus the new one.
	require.Len(t, pending, 2)

	var created content.Item
	for _, i := range pending {
		if i.Title == "Post de otoño" {
			created = i
		}
	}
	require.NotZero(t, created.ID)
	require.Error(t, queue.Reject(ctx, created, ""))
	require.NoError(t, queue.Approve(ctx, created, "Perfecto"))

	st := queue.State()
	require.Len(t, st.List.Data, 1)
	assert.NotEqual(t, created.ID, st.List.Data[0].ID)
	stored, err := approver.Content.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, content.StateApproved, stored.State)
	assert.Equal(t, "Perfecto", stored.ReviewComment)
}

func TestScheduleAndPublish(t *testing.T) {
	h := newHarness(t, true)
	c := h.signedIn(t, adminEmail, adminPassword)
	ctx := context.Background()
	pubs, err := c.PublicationsPage(pagestate.AlwaysConfirm)
	require.NoError(t, err)

	// Seeded content 2 is approved; instagram is the connected account.
	when := h.clock.Now().Add(24 * time.Hour)
	pubs.OpenCreate()
	pubs.Modal().Update(func(d *publications.Draft) {
		d.ContentID = 2
		d.Network = "instagram"
		d.ScheduledAt = when
	})
	require.NoError(t, pubs.Submit(ctx))

	require.NoError(t, pubs.SetFilter(ctx, "red", "instagram"))
	require.NoError(t, pubs.SetFilter(ctx, "estado", publications.StateScheduled))
	list := pubs.State().List.Data
	require.Len(t, list, 1)

	accounts, err := c.SocialAccounts(nil)
	require.NoError(t, err)
	res, err := accounts.Publish(ctx, list[0].ID)
	require.NoError(t, err)
	assert.Equal(t, publications.StatePublished, res.State)
	assert.NotEmpty(t, res.PublicationURL)

	require.NoError(t, pubs.Refresh(ctx))
	assert.Empty(t, pubs.State().List.Data)
	stored, err := c.Publications.Get(ctx, list[0].ID)
	require.NoError(t, err)
	assert.ErrorIs(t, pubs.Cancel(ctx, stored), publications.ErrNotScheduled)
}

func TestPublishWithoutAccountFails(t *testing.T) {
	h := newHarness(t, true)
	c := h.signedIn(t, adminEmail, adminPassword)
	ctx := context.Background()
	// Seeded publication 3 targets linkedin, which is not connected.
	accounts, err := c.SocialAccounts(nil)
	require.NoError(t, err)
	_, err = accounts.Publish(ctx, 3)
	require.Error(t, err)
	banner, ok := c.Notifier.Current()
	require.True(t, ok)
	assert.Equal(t, "No hay una cuenta de linkedin conectada", banner.Message)
}

func TestCalendarAndDashboard(t *testing.T) {
	h := newHarness(t, true)
	c := h.signedIn(t, adminEmail, adminPassword)
	ctx := context.Background()

	now := h.clock.Now().UTC()
	cal, err := c.Calendar(time.UTC)
	require.NoError(t, err)
	require.NoError(t, cal.Load(ctx, now.Year(), now.Month(), nil))
	month := cal.Month()
	assert.Equal(t, now.Month(), month.Month)

	dash, err := c.Dashboard()
	require.NoError(t, err)
	require.NoError(t, dash.Load(ctx, metricsRange(now)))
	data := dash.Data()
	assert.Positive(t, data.Summary.Impressions)
	assert.Equal(t, 3, data.Campaigns.Total)
	require.Len(t, data.TopContent, 1)
	assert.Equal(t, "Carrusel de novedades", data.TopContent[0].Title)
}

func TestAIStudioRecordsHistory(t *testing.T) {
	h := newHarness(t, false)
	c := h.signedIn(t, adminEmail, adminPassword)
	studio, err := c.Studio()
	require.NoError(t, err)
	ctx := context.Background()

	res, err := studio.GenerateText(ctx, aiText("nuestra nueva colección de verano", "cercano"))
	require.NoError(t, err)
	assert.Equal(t, "¿Sabías que nuestra nueva colección de verano", res.Text)

	st := studio.State()
	require.Len(t, st.History.Data, 1)
	assert.Equal(t, res.ID, st.History.Data[0].ID)
}

func TestCampaignStateConflictSurfacesServerMessage(t *testing.T) {
	h := newHarness(t, true)
	c := h.signedIn(t, adminEmail, adminPassword)
	ctx := context.Background()

	camp, err := c.Campaigns.Get(ctx, 1)
	require.NoError(t, err)
	_, err = c.Campaigns.ChangeState(ctx, camp.ID, shared.StateChange{State: "borrador"})
	require.Error(t, err)
	assert.Equal(t, "Una campaña activa no puede pasar a borrador", shared.ErrorMessage(err))
}
