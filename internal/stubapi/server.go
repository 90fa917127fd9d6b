// Package stubapi is an in-memory implementation of the marketing backend
// REST API. It backs local development of the console and its tests.
package stubapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"golang.org/x/crypto/bcrypt"

	"github.com/marketops/console/internal/ai"
	"github.com/marketops/console/internal/app"
	"github.com/marketops/console/internal/campaigns"
	"github.com/marketops/console/internal/content"
	"github.com/marketops/console/internal/form"
	"github.com/marketops/console/internal/observability"
	"github.com/marketops/console/internal/platform/httpx"
	"github.com/marketops/console/internal/publications"
	"github.com/marketops/console/internal/shared"
	"github.com/marketops/console/internal/social"
	"github.com/marketops/console/internal/users"
)

// Version is reported by GET /api/health.
const Version = "stub-1"

// Options configure a Server.
type Options struct {
	JWTSecret     []byte
	TokenTTL      time.Duration
	AdminEmail    string
	AdminPassword string
	// Seed loads sample campaigns, content and publications.
	Seed bool
	// RateLimit is the per-IP requests per minute on /auth and /ia.
	RateLimit  int
	BcryptCost int
	Logger     *slog.Logger
	Metrics    *observability.Metrics
	Config     *app.StubConfig
	Now        func() time.Time
}

// userRow is a stored account.
type userRow struct {
	users.User
	PasswordHash string
}

// Server holds the collections and serves the API.
type Server struct {
	opts   Options
	logger *slog.Logger
	tokens issuer
	now    func() time.Time

	users     *table[userRow]
	campaigns *table[campaigns.Campaign]
	content   *table[content.Item]
	pubs      *table[publications.Publication]
	accounts  *table[social.Account]
	history   *table[ai.HistoryEntry]
}

// New builds a server with the admin account in place.
func New(opts Options) (*Server, error) {
	if len(opts.JWTSecret) == 0 {
		return nil, errors.New("stubapi: jwt secret must be provided")
	}
	if opts.AdminEmail == "" || opts.AdminPassword == "" {
		return nil, errors.New("stubapi: admin credentials must be provided")
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 12 * time.Hour
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 30
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		opts:      opts,
		logger:    logger,
		tokens:    issuer{secret: opts.JWTSecret, ttl: opts.TokenTTL, now: opts.Now},
		now:       opts.Now,
		users:     newTable[userRow](),
		campaigns: newTable[campaigns.Campaign](),
		content:   newTable[content.Item](),
		pubs:      newTable[publications.Publication](),
		accounts:  newTable[social.Account](),
		history:   newTable[ai.HistoryEntry](),
	}
	if _, err := s.createUser("Administrador", opts.AdminEmail, opts.AdminPassword, users.RoleAdmin, true); err != nil {
		return nil, err
	}
	if opts.Seed {
		if err := s.seed(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Handler returns the chi router with the middleware stack installed.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	for _, mw := range app.MiddlewareStack(app.MiddlewareConfig{
		Logger:  s.logger,
		Config:  s.opts.Config,
		Metrics: s.opts.Metrics,
	}) {
		r.Use(mw)
	}
	if s.opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.opts.Metrics.Handler())
	}
	limit := httprate.Limit(s.opts.RateLimit, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.health)
		r.Route("/auth", func(r chi.Router) {
			r.Use(limit)
			r.Post("/login", s.login)
			r.Post("/register", s.register)
			r.With(s.authenticate).Get("/profile", s.profile)
		})
		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)
			r.Route("/usuarios", s.mountUsers)
			r.Route("/campanas", s.mountCampaigns)
			r.Route("/contenido", s.mountContent)
			r.Route("/publicaciones", s.mountPublications)
			r.Route("/social", s.mountSocial)
			r.Route("/metricas", s.mountMetrics)
			r.Route("/ia", func(r chi.Router) {
				r.Use(limit)
				s.mountAI(r)
			})
		})
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httpx.Error(w, http.StatusNotFound, "Ruta no encontrada")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httpx.Error(w, http.StatusMethodNotAllowed, "Método no permitido")
	})
	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"version":   Version,
		"timestamp": s.now().UTC(),
	})
}

// decode reads and validates the body; it writes the error response and
// returns false on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := httpx.DecodeJSON(r, v); err != nil {
		httpx.Error(w, http.StatusBadRequest, "JSON inválido")
		return false
	}
	if errs := form.ValidateStruct(v); len(errs) > 0 {
		httpx.Invalid(w, errs)
		return false
	}
	return true
}

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Error(w, http.StatusBadRequest, "Identificador inválido")
		return 0, false
	}
	return id, true
}

// pageParams reads page and limit, defaulting to 1 and DefaultLimit and
// capping limit at MaxLimit.
func pageParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = shared.DefaultLimit
	}
	if limit > shared.MaxLimit {
		limit = shared.MaxLimit
	}
	return page, limit
}

func respondPage[T any](w http.ResponseWriter, r *http.Request, items []T) {
	page, limit := pageParams(r)
	httpx.JSON(w, http.StatusOK, shared.NewPage(items, page, limit))
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func conflict(message string) error {
	return &statusError{status: http.StatusConflict, message: message}
}

func invalid(field, message string) error {
	return &statusError{status: http.StatusUnprocessableEntity, message: "Revisa los campos marcados", fields: map[string]string{field: message}}
}

// statusError carries a response status and message out of table updates.
type statusError struct {
	status  int
	message string
	fields  map[string]string
}

func (e *statusError) Error() string { return e.message }

func respondErr(w http.ResponseWriter, err error) {
	var se *statusError
	if errors.As(err, &se) {
		httpx.JSON(w, se.status, httpx.ErrorBody{Message: se.message, Errors: se.fields})
		return
	}
	httpx.RespondError(w, err)
}

type ctxKey struct{}

func withUser(ctx context.Context, u userRow) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

func currentUser(r *http.Request) userRow {
	u, _ := r.Context().Value(ctxKey{}).(userRow)
	return u
}
