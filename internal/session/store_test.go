package session

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketops/console/internal/apiclient"
	"github.com/marketops/console/internal/auth"
	"github.com/marketops/console/internal/tokenstore"
	"github.com/marketops/console/internal/users"
)

type fakeAuth struct {
	user         users.User
	token        string
	loginErr     error
	profileErr   error
	profileCalls int
	loginCalls   int
}

func (f *fakeAuth) Login(ctx context.Context, creds auth.Credentials) (auth.Response, error) {
	f.loginCalls++
	if f.loginErr != nil {
		return auth.Response{}, f.loginErr
	}
	return auth.Response{Token: f.token, User: f.user}, nil
}

func (f *fakeAuth) Register(ctx context.Context, reg auth.Registration) (auth.Response, error) {
	return auth.Response{Token: f.token, User: users.User{ID: 9, Name: reg.Name, Email: reg.Email, Role: users.RoleViewer}}, nil
}

func (f *fakeAuth) Profile(ctx context.Context) (users.User, error) {
	f.profileCalls++
	if f.profileErr != nil {
		return users.User{}, f.profileErr
	}
	return f.user, nil
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1", "exp": exp.Unix()}).SignedString([]byte("k"))
	require.NoError(t, err)
	return token
}

func assertInvariant(t *testing.T, s *Store) {
	t.Helper()
	st := s.State()
	assert.Equal(t, st.Token != "" && st.User != nil, st.IsAuthenticated)
	assert.Equal(t, st.IsAuthenticated, s.IsAuthenticated())
}

func TestInitWithoutTokenIsAnonymous(t *testing.T) {
	api := &fakeAuth{}
	s := NewStore(api, tokenstore.NewMemoryStore(), nil)
	assert.True(t, s.State().Loading)

	st := s.Init(context.Background())
	assert.Equal(t, StatusAnonymous, st.Status)
	assert.Zero(t, api.profileCalls)
	assertInvariant(t, s)
}

func TestInitWithValidToken(t *testing.T) {
	tokens := tokenstore.NewMemoryStore()
	require.NoError(t, tokens.Save(context.Background(), "opaque"))
	api := &fakeAuth{user: users.User{ID: 1, Email: "ana@example.com", Role: users.RoleAdmin}}
	s := NewStore(api, tokens, nil)

	st := s.Init(context.Background())
	require.Equal(t, StatusAuthenticated, st.Status)
	assert.Equal(t, "opaque", st.Token)
	assert.Equal(t, int64(1), s.UserID())
	assertInvariant(t, s)
}

func TestInitProfileFailureClearsToken(t *testing.T) {
	tokens := tokenstore.NewMemoryStore()
	require.NoError(t, tokens.Save(context.Background(), "revoked"))
	api := &fakeAuth{profileErr: &apiclient.RequestError{Status: http.StatusUnauthorized, Message: "Token inválido"}}
	s := NewStore(api, tokens, nil)

	st := s.Init(context.Background())
	assert.Equal(t, StatusAnonymous, st.Status)
	stored, _ := tokens.Load(context.Background())
	assert.Empty(t, stored)
	assertInvariant(t, s)
}

func TestInitExpiredJWTSkipsNetwork(t *testing.T) {
	tokens := tokenstore.NewMemoryStore()
	require.NoError(t, tokens.Save(context.Background(), signed(t, time.Now().Add(-time.Hour))))
	api := &fakeAuth{}
	s := NewStore(api, tokens, nil)

	st := s.Init(context.Background())
	assert.Equal(t, StatusAnonymous, st.Status)
	assert.Zero(t, api.profileCalls)
	stored, _ := tokens.Load(context.Background())
	assert.Empty(t, stored)
}

func TestInitLiveJWTFetchesProfile(t *testing.T) {
	tokens := tokenstore.NewMemoryStore()
	require.NoError(t, tokens.Save(context.Background(), signed(t, time.Now().Add(time.Hour))))
	api := &fakeAuth{user: users.User{ID: 3}}
	s := NewStore(api, tokens, nil)

	st := s.Init(context.Background())
	assert.Equal(t, StatusAuthenticated, st.Status)
	assert.Equal(t, 1, api.profileCalls)
}

func TestLoginSuccessPersistsToken(t *testing.T) {
	tokens := tokenstore.NewMemoryStore()
	api := &fakeAuth{token: "fresh", user: users.User{ID: 2, Email: "luis@example.com", Role: users.RoleEditor}}
	s := NewStore(api, tokens, nil)
	s.Init(context.Background())

	res := s.Login(context.Background(), "luis@example.com", "secreto123")
	require.True(t, res.OK)
	stored, _ := tokens.Load(context.Background())
	assert.Equal(t, "fresh", stored)
	assert.Equal(t, StatusAuthenticated, s.State().Status)
	assertInvariant(t, s)
}

func TestLoginWrongPasswordStaysAnonymous(t *testing.T) {
	api := &fakeAuth{loginErr: &apiclient.RequestError{Status: http.StatusUnauthorized, Message: "Credenciales inválidas"}}
	s := NewStore(api, tokenstore.NewMemoryStore(), nil)
	s.Init(context.Background())

	res := s.Login(context.Background(), "luis@example.com", "mala")
	assert.False(t, res.OK)
	assert.Equal(t, "Credenciales inválidas", res.Message)
	st := s.State()
	assert.Equal(t, StatusAnonymous, st.Status)
	assert.Equal(t, "Credenciales inválidas", st.Error)
	assertInvariant(t, s)
}

func TestLoginServerErrorClearsPreviousSession(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			tokens := tokenstore.NewMemoryStore()
			api := &fakeAuth{token: "fresh", user: users.User{ID: 2, Email: "luis@example.com", Role: users.RoleEditor}}
			s := NewStore(api, tokens, nil)
			require.True(t, s.Login(context.Background(), "luis@example.com", "secreto123").OK)

			api.loginErr = &apiclient.RequestError{Status: status, Message: "Solicitud rechazada"}
			res := s.Login(context.Background(), "otra@example.com", "secreto123")
			assert.False(t, res.OK)
			assert.Equal(t, "Solicitud rechazada", res.Message)

			st := s.State()
			assert.Equal(t, StatusAnonymous, st.Status)
			assert.Equal(t, "Solicitud rechazada", st.Error)
			assert.Empty(t, st.Token)
			stored, err := tokens.Load(context.Background())
			require.NoError(t, err)
			assert.Empty(t, stored)
			assertInvariant(t, s)
		})
	}
}

func TestLoginInvalidInputSkipsNetwork(t *testing.T) {
	api := &fakeAuth{}
	s := NewStore(api, tokenstore.NewMemoryStore(), nil)

	res := s.Login(context.Background(), "no-email", "")
	assert.False(t, res.OK)
	assert.Zero(t, api.loginCalls)
	assert.Contains(t, res.Fields, "email")
	assert.Contains(t, res.Fields, "password")
}

func TestLoginWithoutTokenInResponse(t *testing.T) {
	api := &fakeAuth{user: users.User{ID: 1}}
	s := NewStore(api, tokenstore.NewMemoryStore(), nil)
	res := s.Login(context.Background(), "a@example.com", "x")
	assert.False(t, res.OK)
	assert.False(t, s.IsAuthenticated())
}

func TestRegister(t *testing.T) {
	api := &fakeAuth{token: "t"}
	s := NewStore(api, tokenstore.NewMemoryStore(), nil)
	res := s.Register(context.Background(), auth.Registration{Name: "Eva", Email: "eva@example.com", Password: "contraseña1"})
	require.True(t, res.OK)
	u, ok := s.User()
	require.True(t, ok)
	assert.Equal(t, "Eva", u.Name)
}

func TestLogoutIsLocal(t *testing.T) {
	tokens := tokenstore.NewMemoryStore()
	api := &fakeAuth{token: "t", user: users.User{ID: 1}}
	s := NewStore(api, tokens, nil)
	require.True(t, s.Login(context.Background(), "a@example.com", "x").OK)

	s.Logout(context.Background())
	assert.Equal(t, StatusAnonymous, s.State().Status)
	stored, _ := tokens.Load(context.Background())
	assert.Empty(t, stored)
	assertInvariant(t, s)
}

func TestExpireReportsMessage(t *testing.T) {
	api := &fakeAuth{token: "t", user: users.User{ID: 1}}
	s := NewStore(api, tokenstore.NewMemoryStore(), nil)
	require.True(t, s.Login(context.Background(), "a@example.com", "x").OK)

	s.Expire(context.Background())
	st := s.State()
	assert.Equal(t, StatusAnonymous, st.Status)
	assert.Equal(t, "Tu sesión ha expirado", st.Error)
}

func TestRequire(t *testing.T) {
	api := &fakeAuth{token: "t", user: users.User{ID: 1, Role: users.RoleEditor}}
	s := NewStore(api, tokenstore.NewMemoryStore(), nil)
	require.ErrorIs(t, s.Require(), ErrUnauthenticated)

	require.True(t, s.Login(context.Background(), "a@example.com", "x").OK)
	require.NoError(t, s.Require())
	require.NoError(t, s.Require(users.RoleAdmin, users.RoleEditor))
	require.ErrorIs(t, s.Require(users.RoleAdmin), ErrForbidden)
}
