package pagestate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketops/console/internal/apiclient"
	"github.com/marketops/console/internal/form"
	"github.com/marketops/console/internal/notify"
	"github.com/marketops/console/internal/shared"
)

type widget struct {
	ID     int64
	Name   string
	Estado string
}

func (w widget) EntityID() int64 { return w.ID }
func (w widget) Label() string   { return w.Name }

type widgetDraft struct {
	Name string `json:"nombre" validate:"required,notblank"`
}

type fakeAPI struct {
	mu       sync.Mutex
	items    map[int64]widget
	nextID   int64
	calls    []string
	listErr  error
	saveErr  error
	overfill bool
	ownLimit int
	gate     map[int]chan struct{}
}

func newFakeAPI(n int) *fakeAPI {
	f := &fakeAPI{items: map[int64]widget{}, gate: map[int]chan struct{}{}}
	for i := 0; i < n; i++ {
		f.nextID++
		f.items[f.nextID] = widget{ID: f.nextID, Name: fmt.Sprintf("w%02d", f.nextID), Estado: "borrador"}
	}
	return f
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) List(ctx context.Context, params shared.ListParams) (shared.Page[widget], error) {
	f.record(fmt.Sprintf("list:%d", params.Page))
	f.mu.Lock()
	gate := f.gate[params.Page]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return shared.Page[widget]{}, f.listErr
	}
	var all []widget
	for _, w := range f.items {
		if estado := params.Filters["estado"]; estado != "" && w.Estado != estado {
			continue
		}
		all = append(all, w)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	page := shared.NewPage(all, params.Page, params.Limit)
	if f.overfill {
		page.Data = all
	}
	if f.ownLimit > 0 {
		page = shared.NewPage(all, 1, f.ownLimit)
	}
	return page, nil
}

func (f *fakeAPI) Create(ctx context.Context, d widgetDraft) (widget, error) {
	f.record("create")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return widget{}, f.saveErr
	}
	f.nextID++
	w := widget{ID: f.nextID, Name: d.Name, Estado: "borrador"}
	f.items[w.ID] = w
	return w, nil
}

func (f *fakeAPI) Update(ctx context.Context, id int64, d widgetDraft) (widget, error) {
	f.record(fmt.Sprintf("update:%d", id))
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return widget{}, f.saveErr
	}
	w := f.items[id]
	w.Name = d.Name
	f.items[id] = w
	return w, nil
}

func (f *fakeAPI) Delete(ctx context.Context, id int64) error {
	f.record(fmt.Sprintf("delete:%d", id))
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
	return nil
}

func (f *fakeAPI) ChangeState(ctx context.Context, id int64, change shared.StateChange) (widget, error) {
	f.record(fmt.Sprintf("state:%d:%s", id, change.State))
	f.mu.Lock()
	defer f.mu.Unlock()
	w := f.items[id]
	w.Estado = change.State
	f.items[id] = w
	return w, nil
}

func widgetSpec() form.Spec[widget, widgetDraft] {
	return form.Spec[widget, widgetDraft]{
		From: func(w widget) widgetDraft { return widgetDraft{Name: w.Name} },
	}
}

func newController(api *fakeAPI, opts Options[widget]) *Controller[widget, widgetDraft] {
	if opts.Notifier == nil {
		opts.Notifier = notify.New(0)
	}
	if opts.Confirmer == nil {
		opts.Confirmer = AlwaysConfirm
	}
	opts.Name = "widgets"
	return New[widget, widgetDraft](api, widgetSpec(), opts)
}

func TestFetchListPagination(t *testing.T) {
	api := newFakeAPI(25)
	c := newController(api, Options[widget]{Limit: 10})

	require.Equal(t, StatusIdle, c.State().Status)
	require.NoError(t, c.FetchList(context.Background(), 2))

	st := c.State()
	assert.Equal(t, StatusSuccess, st.Status)
	assert.Equal(t, 2, st.List.Page)
	assert.Equal(t, 3, st.List.Pages)
	assert.Equal(t, 25, st.List.Total)
	assert.LessOrEqual(t, len(st.List.Data), 10)
	assert.Equal(t, int64(11), st.List.Data[0].ID)
}

func TestFetchListTrimsOverfullPage(t *testing.T) {
	api := newFakeAPI(25)
	api.overfill = true
	c := newController(api, Options[widget]{Limit: 10})

	require.NoError(t, c.FetchList(context.Background(), 1))
	assert.Len(t, c.State().List.Data, 10)
}

func TestFetchListIgnoresServerPageSize(t *testing.T) {
	api := newFakeAPI(25)
	api.ownLimit = 25
	c := newController(api, Options[widget]{Limit: 10})

	require.NoError(t, c.FetchList(context.Background(), 1))
	st := c.State()
	assert.Equal(t, 10, st.Limit)
	assert.Equal(t, 10, st.List.Limit)
	assert.Len(t, st.List.Data, 10)
	assert.Equal(t, 25, st.List.Total)
	assert.Equal(t, 3, st.List.Pages)
}

func TestFetchListErrorKeepsPreviousList(t *testing.T) {
	api := newFakeAPI(3)
	c := newController(api, Options[widget]{})
	require.NoError(t, c.FetchList(context.Background(), 1))

	api.mu.Lock()
	api.listErr = &apiclient.RequestError{Status: 500, Message: "Servidor caído"}
	api.mu.Unlock()

	err := c.Refresh(context.Background())
	require.Error(t, err)

	st := c.State()
	assert.Equal(t, StatusError, st.Status)
	assert.Equal(t, "Servidor caído", st.Error)
	assert.Len(t, st.List.Data, 3)

	banner, ok := c.Notifier().Current()
	require.True(t, ok)
	assert.Equal(t, notify.KindError, banner.Kind)
}

func TestSetFilterResetsPage(t *testing.T) {
	api := newFakeAPI(25)
	c := newController(api, Options[widget]{Limit: 10})
	require.NoError(t, c.FetchList(context.Background(), 3))

	require.NoError(t, c.SetFilter(context.Background(), "estado", "borrador"))
	st := c.State()
	assert.Equal(t, 1, st.Page)
	assert.Equal(t, "borrador", st.Filters["estado"])

	require.NoError(t, c.SetFilter(context.Background(), "estado", ""))
	assert.NotContains(t, c.State().Filters, "estado")
}

func TestStaleResponseDiscarded(t *testing.T) {
	api := newFakeAPI(25)
	gate := make(chan struct{})
	api.gate[1] = gate
	c := newController(api, Options[widget]{Limit: 10})

	slow := make(chan error, 1)
	go func() { slow <- c.FetchList(context.Background(), 1) }()

	require.Eventually(t, func() bool {
		for _, call := range api.Calls() {
			if call == "list:1" {
				return true
			}
		}
		return false
	}, time.Second, time.Millisecond)

	require.NoError(t, c.FetchList(context.Background(), 2))
	close(gate)

	require.ErrorIs(t, <-slow, ErrStale)
	st := c.State()
	assert.Equal(t, 2, st.Page)
	assert.Equal(t, int64(11), st.List.Data[0].ID)
}

func TestSaveCreateClosesModalAndRefetches(t *testing.T) {
	api := newFakeAPI(2)
	c := newController(api, Options[widget]{})
	require.NoError(t, c.FetchList(context.Background(), 1))

	c.OpenCreate()
	require.True(t, c.State().Creating)
	c.Modal().Update(func(d *widgetDraft) { d.Name = "nuevo" })

	require.NoError(t, c.Submit(context.Background()))

	st := c.State()
	assert.False(t, st.ModalOpen())
	require.Len(t, st.List.Data, 3)
	assert.Equal(t, "nuevo", st.List.Data[2].Name)
	assert.Equal(t, []string{"list:1", "create", "list:1"}, api.Calls())

	banner, ok := c.Notifier().Current()
	require.True(t, ok)
	assert.Equal(t, notify.KindSuccess, banner.Kind)
}

func TestSaveUpdateUsesEditingTarget(t *testing.T) {
	api := newFakeAPI(2)
	c := newController(api, Options[widget]{})
	require.NoError(t, c.FetchList(context.Background(), 1))

	c.OpenEdit(c.State().List.Data[1])
	require.NotNil(t, c.State().Editing)
	require.NoError(t, c.Save(context.Background(), widgetDraft{Name: "renombrado"}))

	assert.Contains(t, api.Calls(), "update:2")
	assert.Equal(t, "renombrado", c.State().List.Data[1].Name)
	assert.Nil(t, c.State().Editing)
}

func TestSubmitWithEmptyRequiredFieldSkipsNetwork(t *testing.T) {
	api := newFakeAPI(0)
	c := newController(api, Options[widget]{})
	c.OpenCreate()

	err := c.Submit(context.Background())
	require.ErrorIs(t, err, form.ErrInvalid)
	assert.Empty(t, api.Calls())
	assert.Equal(t, "Este campo es obligatorio", c.Modal().Errors()["nombre"])
	assert.True(t, c.State().Creating)
}

func TestSaveFailureKeepsModalOpen(t *testing.T) {
	api := newFakeAPI(1)
	api.saveErr = &apiclient.RequestError{Status: 409, Message: "Nombre duplicado"}
	c := newController(api, Options[widget]{})
	c.OpenCreate()
	c.Modal().Update(func(d *widgetDraft) { d.Name = "dup" })

	err := c.Submit(context.Background())
	require.Error(t, err)

	st := c.State()
	assert.True(t, st.Creating)
	assert.False(t, st.Saving)
	assert.Equal(t, "Nombre duplicado", st.Error)
	assert.NotContains(t, api.Calls(), "list:1")
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	api := newFakeAPI(2)
	var prompt string
	c := newController(api, Options[widget]{Confirmer: ConfirmFunc(func(_ context.Context, p string) bool {
		prompt = p
		return false
	})})
	require.NoError(t, c.FetchList(context.Background(), 1))

	err := c.Delete(context.Background(), c.State().List.Data[0])
	require.ErrorIs(t, err, ErrNotConfirmed)
	assert.Equal(t, `¿Eliminar "w01"?`, prompt)
	assert.NotContains(t, api.Calls(), "delete:1")
}

func TestDeleteGuardRunsBeforeNetwork(t *testing.T) {
	api := newFakeAPI(2)
	guardErr := errors.New("protected")
	confirmed := false
	c := newController(api, Options[widget]{
		DeleteGuard: func(w widget) error {
			if w.ID == 1 {
				return guardErr
			}
			return nil
		},
		Confirmer: ConfirmFunc(func(context.Context, string) bool {
			confirmed = true
			return true
		}),
	})

	err := c.Delete(context.Background(), widget{ID: 1, Name: "w01"})
	require.ErrorIs(t, err, guardErr)
	assert.False(t, confirmed)
	assert.Empty(t, api.Calls())
}

func TestDeleteLastItemOnLastPageMovesBack(t *testing.T) {
	api := newFakeAPI(11)
	c := newController(api, Options[widget]{Limit: 10})
	require.NoError(t, c.FetchList(context.Background(), 2))
	require.Len(t, c.State().List.Data, 1)

	require.NoError(t, c.Delete(context.Background(), c.State().List.Data[0]))
	st := c.State()
	assert.Equal(t, 1, st.Page)
	assert.Len(t, st.List.Data, 10)
}

func TestChangeStateIsPessimistic(t *testing.T) {
	api := newFakeAPI(3)
	c := newController(api, Options[widget]{Filters: shared.Filters{"estado": "borrador"}})
	require.NoError(t, c.FetchList(context.Background(), 1))

	target := c.State().List.Data[0]
	require.NoError(t, c.ChangeState(context.Background(), target, shared.StateChange{State: "activa"}))

	calls := api.Calls()
	assert.Equal(t, []string{"list:1", "state:1:activa", "list:1"}, calls)
	assert.Len(t, c.State().List.Data, 2)
}

func TestChangeStateGuard(t *testing.T) {
	api := newFakeAPI(1)
	c := newController(api, Options[widget]{StateGuard: func(w widget, to string) error {
		return fmt.Errorf("no se puede pasar de %s a %s", w.Estado, to)
	}})

	err := c.ChangeState(context.Background(), widget{ID: 1, Estado: "borrador"}, shared.StateChange{State: "finalizada"})
	require.Error(t, err)
	assert.Empty(t, api.Calls())
}
