package users

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketops/console/internal/apiclient"
	"github.com/marketops/console/internal/pagestate"
	"github.com/marketops/console/internal/shared"
)

func newPage(t *testing.T, h http.HandlerFunc, me int64) *Page {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	client, err := apiclient.New(srv.URL)
	require.NoError(t, err)
	return NewPage(NewAPI(client), func() int64 { return me }, pagestate.Options[User]{Confirmer: pagestate.AlwaysConfirm})
}

func TestSelfDeleteRefusedWithoutRequest(t *testing.T) {
	calls := 0
	page := newPage(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusNoContent)
	}, 5)

	err := page.Delete(context.Background(), User{ID: 5, Email: "yo@example.com"})
	require.ErrorIs(t, err, ErrSelfDelete)
	assert.Zero(t, calls)
}

func TestCreateRequiresPasswordAndUpdateDoesNot(t *testing.T) {
	var bodies []map[string]any
	page := newPage(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodGet {
			_ = json.NewEncoder(w).Encode(shared.NewPage([]User{}, 1, 10))
			return
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		bodies = append(bodies, body)
		_ = json.NewEncoder(w).Encode(User{ID: 9})
	}, 1)
	ctx := context.Background()

	page.OpenCreate()
	page.Modal().Update(func(d *Draft) {
		d.Name = "Ana"
		d.Email = "Ana@Example.com"
	})
	require.Error(t, page.Submit(ctx))
	assert.Contains(t, page.Modal().Errors(), "password")

	page.Modal().Update(func(d *Draft) { d.Password = "supersecreta" })
	require.NoError(t, page.Submit(ctx))
	require.Len(t, bodies, 1)
	assert.Equal(t, "ana@example.com", bodies[0]["email"])
	assert.Equal(t, RoleViewer, bodies[0]["rol"])

	page.OpenEdit(User{ID: 9, Name: "Ana", Email: "ana@example.com", Role: RoleEditor, Active: true})
	require.NoError(t, page.Submit(ctx))
	require.Len(t, bodies, 2)
	_, hasPassword := bodies[1]["password"]
	assert.False(t, hasPassword)
}
