package content

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketops/console/internal/apiclient"
	"github.com/marketops/console/internal/pagestate"
	"github.com/marketops/console/internal/shared"
)

type recorder struct {
	mu     sync.Mutex
	bodies []map[string]any
	paths  []string
	query  []string
}

func (r *recorder) handler(t *testing.T, items []Item) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		r.mu.Lock()
		r.paths = append(r.paths, req.Method+" "+req.URL.Path)
		r.query = append(r.query, req.URL.RawQuery)
		if req.Body != nil && req.Method != http.MethodGet {
			var body map[string]any
			if err := json.NewDecoder(req.Body).Decode(&body); err == nil {
				r.bodies = append(r.bodies, body)
			}
		}
		r.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		if req.Method == http.MethodGet {
			assert.NoError(t, json.NewEncoder(w).Encode(shared.NewPage(items, 1, 10)))
			return
		}
		assert.NoError(t, json.NewEncoder(w).Encode(Item{ID: 1, Title: "x", State: StateDraft}))
	}
}

func newAPI(t *testing.T, h http.Handler) *API {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	client, err := apiclient.New(srv.URL)
	require.NoError(t, err)
	return NewAPI(client)
}

func TestCreateWithOnlyTitleOmitsOptionalFields(t *testing.T) {
	rec := &recorder{}
	page := NewPage(newAPI(t, rec.handler(t, nil)), pagestate.Options[Item]{})

	page.OpenCreate()
	page.Modal().Update(func(d *Draft) {
		d.Title = "  Lanzamiento  "
		d.Tags = []string{" ", ""}
	})
	require.NoError(t, page.Submit(context.Background()))

	require.Len(t, rec.bodies, 1)
	assert.Equal(t, map[string]any{"titulo": "Lanzamiento"}, rec.bodies[0])
	assert.False(t, page.State().ModalOpen())
}

func TestCreateRequiresTitle(t *testing.T) {
	rec := &recorder{}
	page := NewPage(newAPI(t, rec.handler(t, nil)), pagestate.Options[Item]{})

	page.OpenCreate()
	page.Modal().Update(func(d *Draft) { d.Title = "   " })
	err := page.Submit(context.Background())
	require.Error(t, err)
	assert.Contains(t, page.Modal().Errors(), "titulo")
	assert.Empty(t, rec.paths)
}

func TestListSendsRecognisedFilters(t *testing.T) {
	rec := &recorder{}
	page := NewPage(newAPI(t, rec.handler(t, []Item{{ID: 1, Title: "a"}})), pagestate.Options[Item]{})

	require.NoError(t, page.SetFilters(context.Background(), shared.Filters{"tipo": "post", "campana_id": "4", "otro": "x"}))
	require.NotEmpty(t, rec.query)
	q := rec.query[len(rec.query)-1]
	assert.Contains(t, q, "tipo=post")
	assert.Contains(t, q, "campana_id=4")
	assert.NotContains(t, q, "otro")
}

func TestPublishedContentCannotBeDeleted(t *testing.T) {
	rec := &recorder{}
	page := NewPage(newAPI(t, rec.handler(t, nil)), pagestate.Options[Item]{Confirmer: pagestate.AlwaysConfirm})

	err := page.Delete(context.Background(), Item{ID: 2, State: StatePublished})
	require.ErrorIs(t, err, ErrPublishedDelete)
	assert.Empty(t, rec.paths)
}

func TestApprovalQueuePinsPendingFilter(t *testing.T) {
	rec := &recorder{}
	queue := NewApprovalQueue(newAPI(t, rec.handler(t, nil)), pagestate.Options[Item]{})

	require.NoError(t, queue.ClearFilters(context.Background()))
	require.NoError(t, queue.SetFilter(context.Background(), "estado", "aprobado"))
	for _, q := range rec.query {
		assert.Contains(t, q, "estado=pendiente")
	}
	assert.Equal(t, StatePending, queue.State().Filters["estado"])
}

func TestApproveAndRejectPatchThenRefetch(t *testing.T) {
	rec := &recorder{}
	queue := NewApprovalQueue(newAPI(t, rec.handler(t, nil)), pagestate.Options[Item]{})
	item := Item{ID: 7, Title: "Post", State: StatePending}

	require.NoError(t, queue.Approve(context.Background(), item, " bien "))
	require.NoError(t, queue.Reject(context.Background(), item, "falta imagen"))

	assert.Equal(t, []string{
		"PATCH /api/contenido/7/estado", "GET /api/contenido",
		"PATCH /api/contenido/7/estado", "GET /api/contenido",
	}, rec.paths)
	require.Len(t, rec.bodies, 2)
	assert.Equal(t, map[string]any{"estado": StateApproved, "comentario": "bien"}, rec.bodies[0])
	assert.Equal(t, map[string]any{"estado": StateRejected, "comentario": "falta imagen"}, rec.bodies[1])
}

func TestRejectRequiresComment(t *testing.T) {
	rec := &recorder{}
	queue := NewApprovalQueue(newAPI(t, rec.handler(t, nil)), pagestate.Options[Item]{})

	err := queue.Reject(context.Background(), Item{ID: 7, State: StatePending}, "  ")
	require.True(t, errors.Is(err, ErrRejectComment))
	assert.Empty(t, rec.paths)
	banner, ok := queue.Notifier().Current()
	require.True(t, ok)
	assert.Equal(t, "Indica el motivo del rechazo", banner.Message)
}

func TestReviewOutsideQueueRejected(t *testing.T) {
	rec := &recorder{}
	queue := NewApprovalQueue(newAPI(t, rec.handler(t, nil)), pagestate.Options[Item]{})

	err := queue.Approve(context.Background(), Item{ID: 7, State: StatePublished}, "")
	require.ErrorIs(t, err, ErrNotPending)
	assert.Empty(t, rec.paths)
}
