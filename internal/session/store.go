// Package session holds the signed-in user and token of the console and
// gates access to pages by role.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/marketops/console/internal/auth"
	"github.com/marketops/console/internal/form"
	"github.com/marketops/console/internal/shared"
	"github.com/marketops/console/internal/tokenstore"
	"github.com/marketops/console/internal/users"
)

var (
	// ErrUnauthenticated is returned by Require when nobody is signed in.
	ErrUnauthenticated = shared.NewMessageError(errors.New("session: not authenticated"), "Inicia sesión para continuar")
	// ErrForbidden is returned by Require when the user lacks the role.
	ErrForbidden = shared.NewMessageError(shared.ErrForbidden, "No tienes permiso para acceder a esta sección")
)

// Status is the session lifecycle state.
type Status string

const (
	StatusLoading       Status = "loading"
	StatusAuthenticated Status = "authenticated"
	StatusAnonymous     Status = "anonymous"
)

// AuthAPI is the subset of the auth resource the store needs.
type AuthAPI interface {
	Login(ctx context.Context, creds auth.Credentials) (auth.Response, error)
	Register(ctx context.Context, reg auth.Registration) (auth.Response, error)
	Profile(ctx context.Context) (users.User, error)
}

// State is a snapshot of the session.
type State struct {
	Status          Status
	User            *users.User
	Token           string
	IsAuthenticated bool
	Loading         bool
	Error           string
}

// Result reports the outcome of Login and Register. Failures never panic
// or return a Go error; they are described by OK, Message and Fields.
type Result struct {
	OK      bool
	Message string
	Fields  map[string]string
	Err     error
}

// Store is the auth session store.
type Store struct {
	api    AuthAPI
	tokens tokenstore.Store
	logger *slog.Logger
	now    func() time.Time

	mu     sync.RWMutex
	status Status
	token  string
	user   *users.User
	errMsg string
}

// NewStore returns a store in the loading state; call Init to resolve it.
func NewStore(api AuthAPI, tokens tokenstore.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{api: api, tokens: tokens, logger: logger, now: time.Now, status: StatusLoading}
}

// Init validates a stored token against the backend. A token whose JWT
// expiry has already passed is dropped without a request.
func (s *Store) Init(ctx context.Context) State {
	s.mu.Lock()
	s.status = StatusLoading
	s.mu.Unlock()

	token, err := s.tokens.Load(ctx)
	if err != nil {
		s.logger.Warn("read stored token", slog.Any("error", err))
		s.becomeAnonymous("")
		return s.State()
	}
	if token == "" {
		s.becomeAnonymous("")
		return s.State()
	}
	if expired(token, s.now()) {
		s.logger.Info("stored token expired")
		s.clearToken(ctx)
		s.becomeAnonymous("")
		return s.State()
	}

	user, err := s.api.Profile(ctx)
	if err != nil {
		s.logger.Warn("profile fetch failed, clearing token", slog.Any("error", err))
		s.clearToken(ctx)
		s.becomeAnonymous("")
		return s.State()
	}
	s.becomeAuthenticated(token, user)
	return s.State()
}

// Login signs in with email and password.
func (s *Store) Login(ctx context.Context, email, password string) Result {
	creds := auth.Credentials{Email: email, Password: password}
	if fields := form.ValidateStruct(creds); len(fields) > 0 {
		return s.fail(&form.ValidationError{Fields: fields})
	}
	resp, err := s.api.Login(ctx, creds)
	if err != nil {
		return s.reject(ctx, err)
	}
	return s.accept(ctx, resp)
}

// Register creates an account and signs it in.
func (s *Store) Register(ctx context.Context, reg auth.Registration) Result {
	if fields := form.ValidateStruct(reg); len(fields) > 0 {
		return s.fail(&form.ValidationError{Fields: fields})
	}
	resp, err := s.api.Register(ctx, reg)
	if err != nil {
		return s.reject(ctx, err)
	}
	return s.accept(ctx, resp)
}

// Logout clears the persisted token and resets the session. No request is
// sent to the backend.
func (s *Store) Logout(ctx context.Context) {
	s.clearToken(ctx)
	s.becomeAnonymous("")
}

// Expire ends the session after the backend rejected the token.
func (s *Store) Expire(ctx context.Context) {
	s.mu.RLock()
	wasAuthenticated := s.status == StatusAuthenticated
	s.mu.RUnlock()
	s.clearToken(ctx)
	if wasAuthenticated {
		s.logger.Info("session expired by backend")
		s.becomeAnonymous("Tu sesión ha expirado")
		return
	}
	s.becomeAnonymous("")
}

// State returns a snapshot.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := State{
		Status:  s.status,
		Token:   s.token,
		Loading: s.status == StatusLoading,
		Error:   s.errMsg,
	}
	if s.user != nil {
		u := *s.user
		st.User = &u
	}
	st.IsAuthenticated = st.Token != "" && st.User != nil
	return st
}

// IsAuthenticated is true iff both a token and a user are held.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

// User returns the signed-in user.
func (s *Store) User() (users.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return users.User{}, false
	}
	return *s.user, true
}

// UserID returns the signed-in user's id or 0.
func (s *Store) UserID() int64 {
	u, _ := s.User()
	return u.ID
}

// Require gates a page: the session must be authenticated and, when roles
// are given, the user must hold one of them.
func (s *Store) Require(roles ...string) error {
	u, ok := s.User()
	if !ok || !s.IsAuthenticated() {
		return ErrUnauthenticated
	}
	if len(roles) > 0 && !u.HasRole(roles...) {
		return ErrForbidden
	}
	return nil
}

func (s *Store) accept(ctx context.Context, resp auth.Response) Result {
	if resp.Token == "" {
		return s.reject(ctx, shared.NewMessageError(errors.New("session: response without token"), "El servidor no devolvió un token"))
	}
	if err := s.tokens.Save(ctx, resp.Token); err != nil {
		return s.reject(ctx, shared.NewMessageError(err, "No se pudo guardar la sesión"))
	}
	s.becomeAuthenticated(resp.Token, resp.User)
	return Result{OK: true}
}

// reject ends any previous session after a sign-in attempt the backend
// did not accept, whatever its status code.
func (s *Store) reject(ctx context.Context, err error) Result {
	s.clearToken(ctx)
	s.becomeAnonymous("")
	return s.fail(err)
}

func (s *Store) fail(err error) Result {
	msg := shared.ErrorMessage(err)
	var fields map[string]string
	var vErr *form.ValidationError
	if errors.As(err, &vErr) {
		fields = vErr.Fields
	}
	s.mu.Lock()
	if s.status == StatusLoading {
		s.status = StatusAnonymous
	}
	s.errMsg = msg
	s.mu.Unlock()
	return Result{OK: false, Message: msg, Fields: fields, Err: err}
}

func (s *Store) becomeAuthenticated(token string, user users.User) {
	s.mu.Lock()
	s.status = StatusAuthenticated
	s.token = token
	s.user = &user
	s.errMsg = ""
	s.mu.Unlock()
}

func (s *Store) becomeAnonymous(msg string) {
	s.mu.Lock()
	s.status = StatusAnonymous
	s.token = ""
	s.user = nil
	s.errMsg = msg
	s.mu.Unlock()
}

func (s *Store) clearToken(ctx context.Context) {
	if err := s.tokens.Clear(ctx); err != nil {
		s.logger.Warn("clear stored token", slog.Any("error", err))
	}
}

// expired reports whether token is a JWT whose exp claim lies before now.
// Tokens that are not JWTs are left to the backend to judge.
func expired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(now)
}
