package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marketops/console/internal/ai"
	"github.com/marketops/console/internal/apiclient"
	"github.com/marketops/console/internal/auth"
	"github.com/marketops/console/internal/campaigns"
	"github.com/marketops/console/internal/content"
	"github.com/marketops/console/internal/health"
	"github.com/marketops/console/internal/metrics"
	"github.com/marketops/console/internal/notify"
	"github.com/marketops/console/internal/observability"
	"github.com/marketops/console/internal/pagestate"
	"github.com/marketops/console/internal/platform/cache"
	"github.com/marketops/console/internal/publications"
	"github.com/marketops/console/internal/session"
	"github.com/marketops/console/internal/social"
	"github.com/marketops/console/internal/tokenstore"
	"github.com/marketops/console/internal/users"
)

// Roles allowed to review content.
var reviewerRoles = []string{users.RoleAdmin, users.RoleApprover}

// ConsoleParams are optional overrides for NewConsole.
type ConsoleParams struct {
	Tokens     tokenstore.Store
	HTTPClient *http.Client
	Metrics    *observability.Metrics
}

// Console wires the API client, the session and every resource module.
type Console struct {
	Config   *Config
	Logger   *slog.Logger
	Metrics  *observability.Metrics
	Tokens   tokenstore.Store
	Client   *apiclient.Client
	Session  *session.Store
	Notifier *notify.Notifier

	Auth         *auth.API
	Users        *users.API
	Campaigns    *campaigns.API
	Content      *content.API
	AI           *ai.API
	Publications *publications.API
	Social       *social.API
	Analytics    *metrics.API
	Health       *health.API

	redis *redis.Client
}

// NewConsole builds the console from cfg. The session is not initialised;
// call Session.Init once the caller is ready to hit the backend.
func NewConsole(ctx context.Context, cfg *Config, logger *slog.Logger, params ConsoleParams) (*Console, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Console{
		Config:   cfg,
		Logger:   logger,
		Metrics:  params.Metrics,
		Notifier: notify.New(cfg.BannerTTL),
	}
	if c.Metrics == nil {
		c.Metrics = observability.NewMetrics()
	}

	tokens := params.Tokens
	if tokens == nil {
		var err error
		tokens, err = c.openTokenStore(ctx)
		if err != nil {
			return nil, err
		}
	}
	c.Tokens = tokens

	httpClient := params.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Transport: newTransport(cfg.APITimeout)}
	}
	client, err := apiclient.New(cfg.APIBaseURL,
		apiclient.WithHTTPClient(httpClient),
		apiclient.WithTokenSource(tokens),
		apiclient.WithLogger(logger),
		apiclient.WithTransport(c.Metrics.InstrumentTransport),
	)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("app: api client: %w", err)
	}
	c.Client = client

	c.Auth = auth.NewAPI(client)
	c.Users = users.NewAPI(client)
	c.Campaigns = campaigns.NewAPI(client)
	c.Content = content.NewAPI(client)
	c.AI = ai.NewAPI(client)
	c.Publications = publications.NewAPI(client)
	c.Social = social.NewAPI(client)
	c.Analytics = metrics.NewAPI(client)
	c.Health = health.NewAPI(client)

	c.Session = session.NewStore(c.Auth, tokens, logger)
	client.OnUnauthorized(c.Session.Expire)
	return c, nil
}

func (c *Console) openTokenStore(ctx context.Context) (tokenstore.Store, error) {
	store := c.Config.TokenStore
	if InTestMode() {
		store = TokenStoreMemory
	}
	switch store {
	case TokenStoreMemory:
		return tokenstore.NewMemoryStore(), nil
	case TokenStoreRedis:
		client, err := cache.New(ctx, cache.Options{
			Addr:     c.Config.RedisAddr,
			Password: c.Config.RedisPassword,
			DB:       c.Config.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("app: token store: %w", err)
		}
		c.redis = client
		return tokenstore.NewRedisStore(client, c.Config.TokenKey, c.Config.TokenTTL), nil
	default:
		path := c.Config.TokenFile
		if path == "" {
			var err error
			path, err = tokenstore.DefaultPath(c.Config.TokenKey)
			if err != nil {
				return nil, fmt.Errorf("app: token store: %w", err)
			}
		}
		return tokenstore.NewFileStore(path), nil
	}
}

func newTransport(timeout time.Duration) *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	if timeout > 0 {
		t.DialContext = (&net.Dialer{Timeout: timeout, KeepAlive: 30 * time.Second}).DialContext
		t.TLSHandshakeTimeout = timeout
	}
	return t
}

// Close releases the redis connection, if any.
func (c *Console) Close() {
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.Logger.Warn("redis close", slog.Any("error", err))
		}
		c.redis = nil
	}
}

// PageOptions returns controller options sharing the console's logger,
// banner slot and page size.
func PageOptions[T pagestate.Entity](c *Console, confirmer pagestate.Confirmer) pagestate.Options[T] {
	return pagestate.Options[T]{
		Limit:     c.Config.PageLimit,
		Logger:    c.Logger,
		Notifier:  c.Notifier,
		Confirmer: confirmer,
	}
}

// UsersPage opens user management; admins only.
func (c *Console) UsersPage(confirmer pagestate.Confirmer) (*users.Page, error) {
	if err := c.Session.Require(users.RoleAdmin); err != nil {
		return nil, err
	}
	return users.NewPage(c.Users, c.Session.UserID, PageOptions[users.User](c, confirmer)), nil
}

// CampaignsPage opens the campaign list.
func (c *Console) CampaignsPage(confirmer pagestate.Confirmer) (*campaigns.Page, error) {
	if err := c.Session.Require(); err != nil {
		return nil, err
	}
	return campaigns.NewPage(c.Campaigns, PageOptions[campaigns.Campaign](c, confirmer)), nil
}

// ContentPage opens the content library.
func (c *Console) ContentPage(confirmer pagestate.Confirmer) (*content.Page, error) {
	if err := c.Session.Require(); err != nil {
		return nil, err
	}
	return content.NewPage(c.Content, PageOptions[content.Item](c, confirmer)), nil
}

// ApprovalQueue opens the review queue; admins and approvers only.
func (c *Console) ApprovalQueue() (*content.ApprovalQueue, error) {
	if err := c.Session.Require(reviewerRoles...); err != nil {
		return nil, err
	}
	return content.NewApprovalQueue(c.Content, PageOptions[content.Item](c, nil)), nil
}

// PublicationsPage opens the publication schedule.
func (c *Console) PublicationsPage(confirmer pagestate.Confirmer) (*publications.Page, error) {
	if err := c.Session.Require(); err != nil {
		return nil, err
	}
	return publications.NewPage(c.Publications, PageOptions[publications.Publication](c, confirmer)), nil
}

// Calendar opens the publication calendar in loc.
func (c *Console) Calendar(loc *time.Location) (*publications.Calendar, error) {
	if err := c.Session.Require(); err != nil {
		return nil, err
	}
	return publications.NewCalendar(c.Publications, loc, c.Logger), nil
}

// Dashboard opens the analytics dashboard.
func (c *Console) Dashboard() (*metrics.Dashboard, error) {
	if err := c.Session.Require(); err != nil {
		return nil, err
	}
	return metrics.NewDashboard(c.Analytics, c.Campaigns, c.Notifier, c.Logger), nil
}

// Studio opens the AI studio.
func (c *Console) Studio() (*ai.Studio, error) {
	if err := c.Session.Require(); err != nil {
		return nil, err
	}
	return ai.NewStudio(c.AI, c.Notifier, c.Logger), nil
}

// SocialAccounts opens the social accounts page; admins only.
func (c *Console) SocialAccounts(confirmer pagestate.Confirmer) (*social.Accounts, error) {
	if err := c.Session.Require(users.RoleAdmin); err != nil {
		return nil, err
	}
	return social.NewAccounts(c.Social, c.Notifier, confirmer, c.Logger), nil
}
