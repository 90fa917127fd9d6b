// Package pagestate implements the list/detail controller shared by every
// resource page: list loading with a filter set and pagination, a single
// editing target, create/update/delete and state changes followed by an
// authoritative refetch.
package pagestate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/marketops/console/internal/form"
	"github.com/marketops/console/internal/notify"
	"github.com/marketops/console/internal/shared"
)

var (
	// ErrStale is returned by FetchList when a newer fetch superseded it.
	ErrStale = errors.New("pagestate: response superseded by a newer request")
	// ErrNotConfirmed is returned when the user declines a deletion.
	ErrNotConfirmed = errors.New("pagestate: action not confirmed")
	// ErrBusy is returned when a save is already in flight.
	ErrBusy = errors.New("pagestate: save already in progress")
	// ErrUnsupported is returned by ChangeState when the resource has no
	// state endpoint.
	ErrUnsupported = errors.New("pagestate: operation not supported")
)

// Status is the list lifecycle state.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Entity is a server-owned record addressed by a numeric id.
type Entity interface {
	EntityID() int64
}

// Labeled entities describe themselves in confirmation prompts.
type Labeled interface {
	Label() string
}

// API is the resource module a controller drives.
type API[T Entity, D any] interface {
	List(ctx context.Context, params shared.ListParams) (shared.Page[T], error)
	Create(ctx context.Context, draft D) (T, error)
	Update(ctx context.Context, id int64, draft D) (T, error)
	Delete(ctx context.Context, id int64) error
}

// StateChanger is implemented by resources with a PATCH .../estado endpoint.
type StateChanger[T Entity] interface {
	ChangeState(ctx context.Context, id int64, change shared.StateChange) (T, error)
}

// Messages are the success banners shown after mutations.
type Messages struct {
	Created      string
	Updated      string
	Deleted      string
	StateChanged string
}

// Options configure a Controller.
type Options[T Entity] struct {
	// Name identifies the resource in logs.
	Name      string
	Limit     int
	Filters   shared.Filters
	Logger    *slog.Logger
	Notifier  *notify.Notifier
	Confirmer Confirmer
	// DeleteGuard rejects deletions client-side before any request.
	DeleteGuard func(T) error
	// StateGuard rejects state transitions client-side before any request.
	StateGuard func(T, string) error
	Messages   Messages
}

// State is an immutable snapshot of a controller.
type State[T any] struct {
	Status   Status
	List     shared.Page[T]
	Page     int
	Limit    int
	Filters  shared.Filters
	Editing  *T
	Creating bool
	Saving   bool
	Error    string
}

// ModalOpen reports whether a create or edit modal is showing.
func (s State[T]) ModalOpen() bool { return s.Creating || s.Editing != nil }

// Controller is the page state machine for one resource.
type Controller[T Entity, D any] struct {
	name        string
	api         API[T, D]
	modal       *form.Modal[T, D]
	logger      *slog.Logger
	notifier    *notify.Notifier
	confirmer   Confirmer
	deleteGuard func(T) error
	stateGuard  func(T, string) error
	messages    Messages

	mu      sync.Mutex
	seq     uint64
	status  Status
	list    shared.Page[T]
	page    int
	limit   int
	filters shared.Filters
	saving  bool
	errMsg  string
}

// New constructs a Controller in the idle state.
func New[T Entity, D any](api API[T, D], spec form.Spec[T, D], opts Options[T]) *Controller[T, D] {
	limit := opts.Limit
	if limit <= 0 {
		limit = shared.DefaultLimit
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.New(notify.DefaultTTL)
	}
	filters := opts.Filters.Clone()
	return &Controller[T, D]{
		name:        opts.Name,
		api:         api,
		modal:       form.NewModal(spec),
		logger:      logger,
		notifier:    notifier,
		confirmer:   opts.Confirmer,
		deleteGuard: opts.DeleteGuard,
		stateGuard:  opts.StateGuard,
		messages:    opts.Messages.withDefaults(),
		status:      StatusIdle,
		list:        shared.Page[T]{Data: []T{}},
		page:        1,
		limit:       limit,
		filters:     filters,
	}
}

// Notifier returns the controller's banner slot.
func (c *Controller[T, D]) Notifier() *notify.Notifier { return c.notifier }

// Modal returns the form controller backing create/edit.
func (c *Controller[T, D]) Modal() *form.Modal[T, D] { return c.modal }

// State returns a snapshot.
func (c *Controller[T, D]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	list := c.list
	list.Data = append([]T(nil), c.list.Data...)
	st := State[T]{
		Status:  c.status,
		List:    list,
		Page:    c.page,
		Limit:   c.limit,
		Filters: c.filters.Clone(),
		Saving:  c.saving,
		Error:   c.errMsg,
	}
	if c.modal.IsOpen() {
		st.Editing = c.modal.Target()
		st.Creating = st.Editing == nil
	}
	return st
}

// Refresh refetches the current page.
func (c *Controller[T, D]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	page := c.page
	c.mu.Unlock()
	return c.FetchList(ctx, page)
}

// FetchList loads page with the current limit and filters. On success the
// list and pagination are replaced wholesale; on failure the previous list
// stays visible and the error is recorded. Responses from superseded
// requests are discarded and yield ErrStale.
func (c *Controller[T, D]) FetchList(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.status = StatusLoading
	c.page = page
	params := shared.ListParams{Page: page, Limit: c.limit, Filters: c.filters.Clone()}
	c.mu.Unlock()

	result, err := c.api.List(ctx, params)

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		c.logger.Debug("discarding stale list response", slog.String("resource", c.name), slog.Uint64("seq", seq))
		return ErrStale
	}
	if err != nil {
		c.status = StatusError
		c.errMsg = shared.ErrorMessage(err)
		c.mu.Unlock()
		c.logger.Warn("list fetch failed", slog.String("resource", c.name), slog.Int("page", page), slog.Any("error", err))
		c.notifier.Error(err)
		return fmt.Errorf("pagestate: list %s: %w", c.name, err)
	}
	if len(result.Data) > params.Limit {
		c.logger.Warn("server returned more items than requested, trimming",
			slog.String("resource", c.name), slog.Int("limit", params.Limit), slog.Int("items", len(result.Data)))
	}
	result = result.Normalize(page, params.Limit)
	// A deletion can leave the current page past the end.
	if result.Empty() && page > 1 && result.Pages < page {
		c.mu.Unlock()
		last := result.Pages
		if last < 1 {
			last = 1
		}
		return c.FetchList(ctx, last)
	}
	c.list = result
	c.page = result.Page
	c.status = StatusSuccess
	c.errMsg = ""
	c.mu.Unlock()
	return nil
}

// SetPage moves to page and fetches it.
func (c *Controller[T, D]) SetPage(ctx context.Context, page int) error {
	return c.FetchList(ctx, page)
}

// SetFilter changes one filter and refetches from the first page. A blank
// value removes the filter.
func (c *Controller[T, D]) SetFilter(ctx context.Context, key, value string) error {
	c.mu.Lock()
	c.filters.Set(key, value)
	c.mu.Unlock()
	return c.FetchList(ctx, 1)
}

// SetFilters replaces the whole filter set and refetches from the first page.
func (c *Controller[T, D]) SetFilters(ctx context.Context, filters shared.Filters) error {
	next := shared.Filters{}
	for k, v := range filters {
		next.Set(k, v)
	}
	c.mu.Lock()
	c.filters = next
	c.mu.Unlock()
	return c.FetchList(ctx, 1)
}

// ClearFilters removes every filter and refetches from the first page.
func (c *Controller[T, D]) ClearFilters(ctx context.Context) error {
	return c.SetFilters(ctx, nil)
}

// OpenCreate opens the modal in create mode.
func (c *Controller[T, D]) OpenCreate() {
	c.modal.Open(nil)
}

// OpenEdit opens the modal with entity as the editing target.
func (c *Controller[T, D]) OpenEdit(entity T) {
	c.modal.Open(&entity)
}

// Close discards the modal without saving.
func (c *Controller[T, D]) Close() {
	c.modal.Close()
}

// Submit validates the modal's draft and saves it.
func (c *Controller[T, D]) Submit(ctx context.Context) error {
	err := c.modal.Submit(ctx, c.Save)
	var vErr *form.ValidationError
	if errors.As(err, &vErr) {
		c.notifier.Error(err)
	}
	return err
}

// Save creates or updates depending on whether an editing target is set.
// On success the modal closes and the current page is refetched; on
// failure the modal stays open and the error is shown.
func (c *Controller[T, D]) Save(ctx context.Context, draft D) error {
	c.mu.Lock()
	if c.saving {
		c.mu.Unlock()
		return ErrBusy
	}
	c.saving = true
	c.mu.Unlock()

	target := c.modal.Target()
	var err error
	msg := c.messages.Created
	if target == nil {
		_, err = c.api.Create(ctx, draft)
	} else {
		msg = c.messages.Updated
		_, err = c.api.Update(ctx, (*target).EntityID(), draft)
	}

	c.mu.Lock()
	c.saving = false
	if err != nil {
		c.errMsg = shared.ErrorMessage(err)
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("save failed", slog.String("resource", c.name), slog.Any("error", err))
		c.notifier.Error(err)
		return fmt.Errorf("pagestate: save %s: %w", c.name, err)
	}

	c.modal.Close()
	c.notifier.Success(msg)
	return c.refreshAfterMutation(ctx)
}

// Delete removes entity after the delete guard and the confirmer allow it.
func (c *Controller[T, D]) Delete(ctx context.Context, entity T) error {
	if c.deleteGuard != nil {
		if err := c.deleteGuard(entity); err != nil {
			c.notifier.Error(err)
			return err
		}
	}
	if c.confirmer == nil || !c.confirmer.Confirm(ctx, deletePrompt(entity)) {
		return ErrNotConfirmed
	}
	if err := c.api.Delete(ctx, entity.EntityID()); err != nil {
		c.mu.Lock()
		c.errMsg = shared.ErrorMessage(err)
		c.mu.Unlock()
		c.logger.Warn("delete failed", slog.String("resource", c.name), slog.Int64("id", entity.EntityID()), slog.Any("error", err))
		c.notifier.Error(err)
		return fmt.Errorf("pagestate: delete %s: %w", c.name, err)
	}
	c.notifier.Success(c.messages.Deleted)
	return c.refreshAfterMutation(ctx)
}

// ChangeState moves entity to state. The local list is never patched: the
// server is called first and the page is refetched afterwards.
func (c *Controller[T, D]) ChangeState(ctx context.Context, entity T, change shared.StateChange) error {
	changer, ok := c.api.(StateChanger[T])
	if !ok {
		return ErrUnsupported
	}
	if c.stateGuard != nil {
		if err := c.stateGuard(entity, change.State); err != nil {
			c.notifier.Error(err)
			return err
		}
	}
	if _, err := changer.ChangeState(ctx, entity.EntityID(), change); err != nil {
		c.mu.Lock()
		c.errMsg = shared.ErrorMessage(err)
		c.mu.Unlock()
		c.logger.Warn("state change failed", slog.String("resource", c.name), slog.String("state", change.State), slog.Any("error", err))
		c.notifier.Error(err)
		return fmt.Errorf("pagestate: change state %s: %w", c.name, err)
	}
	c.notifier.Success(c.messages.StateChanged)
	return c.refreshAfterMutation(ctx)
}

func (c *Controller[T, D]) refreshAfterMutation(ctx context.Context) error {
	err := c.Refresh(ctx)
	if err == nil || errors.Is(err, ErrStale) {
		return nil
	}
	return err
}

func (m Messages) withDefaults() Messages {
	if m.Created == "" {
		m.Created = "Registro creado"
	}
	if m.Updated == "" {
		m.Updated = "Cambios guardados"
	}
	if m.Deleted == "" {
		m.Deleted = "Registro eliminado"
	}
	if m.StateChanged == "" {
		m.StateChanged = "Estado actualizado"
	}
	return m
}

func deletePrompt(entity Entity) string {
	if l, ok := entity.(Labeled); ok && l.Label() != "" {
		return fmt.Sprintf("¿Eliminar %q?", l.Label())
	}
	return fmt.Sprintf("¿Eliminar el registro #%d?", entity.EntityID())
}
