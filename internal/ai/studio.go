// Package ai drives the backend's text and image generation endpoints.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/marketops/console/internal/form"
	"github.com/marketops/console/internal/notify"
	"github.com/marketops/console/internal/shared"
)

// ErrBusy is returned while another generation is running.
var ErrBusy = errors.New("ai: generation already in progress")

// Backend is the subset of API the studio uses.
type Backend interface {
	GenerateText(ctx context.Context, req TextRequest) (TextResult, error)
	GenerateImage(ctx context.Context, req ImageRequest) (ImageResult, error)
	History(ctx context.Context, params shared.ListParams) (shared.Page[HistoryEntry], error)
}

// StudioState is a snapshot of the studio.
type StudioState struct {
	Generating bool
	LastText   *TextResult
	LastImage  *ImageResult
	History    shared.Page[HistoryEntry]
	Errors     map[string]string
	Error      string
}

// Studio validates prompts, runs one generation at a time and keeps the
// latest result plus the first page of history.
type Studio struct {
	api      Backend
	notifier *notify.Notifier
	logger   *slog.Logger
	limit    int

	mu    sync.Mutex
	state StudioState
}

// NewStudio builds a studio. A nil notifier gets a private slot.
func NewStudio(api Backend, notifier *notify.Notifier, logger *slog.Logger) *Studio {
	if notifier == nil {
		notifier = notify.New(notify.DefaultTTL)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Studio{
		api:      api,
		notifier: notifier,
		logger:   logger,
		limit:    shared.DefaultLimit,
		state:    StudioState{History: shared.Page[HistoryEntry]{Data: []HistoryEntry{}}},
	}
}

// Notifier returns the studio's banner slot.
func (s *Studio) Notifier() *notify.Notifier { return s.notifier }

// State returns a snapshot.
func (s *Studio) State() StudioState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.History.Data = append([]HistoryEntry(nil), s.state.History.Data...)
	st.Errors = make(map[string]string, len(s.state.Errors))
	for k, v := range s.state.Errors {
		st.Errors[k] = v
	}
	return st
}

// GenerateText validates req, calls the backend and refreshes the history.
func (s *Studio) GenerateText(ctx context.Context, req TextRequest) (TextResult, error) {
	req.Prompt = strings.TrimSpace(req.Prompt)
	res, err := run(ctx, s, req, s.api.GenerateText)
	if err != nil {
		return res, err
	}
	s.mu.Lock()
	s.state.LastText = &res
	s.mu.Unlock()
	s.notifier.Success("Texto generado")
	s.refreshHistory(ctx)
	return res, nil
}

// GenerateImage validates req, calls the backend and refreshes the history.
func (s *Studio) GenerateImage(ctx context.Context, req ImageRequest) (ImageResult, error) {
	req.Prompt = strings.TrimSpace(req.Prompt)
	res, err := run(ctx, s, req, s.api.GenerateImage)
	if err != nil {
		return res, err
	}
	s.mu.Lock()
	s.state.LastImage = &res
	s.mu.Unlock()
	s.notifier.Success("Imagen generada")
	s.refreshHistory(ctx)
	return res, nil
}

// LoadHistory fetches page of the generation history.
func (s *Studio) LoadHistory(ctx context.Context, page int, kind string) error {
	f := shared.Filters{}
	f.Set("tipo", kind)
	hist, err := s.api.History(ctx, shared.ListParams{Page: page, Limit: s.limit, Filters: f})
	if err != nil {
		s.mu.Lock()
		s.state.Error = shared.ErrorMessage(err)
		s.mu.Unlock()
		s.notifier.Error(err)
		return fmt.Errorf("ai: history: %w", err)
	}
	s.mu.Lock()
	s.state.History = hist.Normalize(page, s.limit)
	s.mu.Unlock()
	return nil
}

func (s *Studio) refreshHistory(ctx context.Context) {
	if err := s.LoadHistory(ctx, 1, ""); err != nil {
		s.logger.Warn("history refresh failed", slog.Any("error", err))
	}
}

func run[R, Q any](ctx context.Context, s *Studio, req Q, call func(context.Context, Q) (R, error)) (R, error) {
	var zero R
	if errs := form.ValidateStruct(req); len(errs) > 0 {
		s.mu.Lock()
		s.state.Errors = errs
		s.mu.Unlock()
		vErr := &form.ValidationError{Fields: errs}
		s.notifier.Error(vErr)
		return zero, vErr
	}

	s.mu.Lock()
	if s.state.Generating {
		s.mu.Unlock()
		return zero, ErrBusy
	}
	s.state.Generating = true
	s.state.Errors = nil
	s.state.Error = ""
	s.mu.Unlock()

	res, err := call(ctx, req)

	s.mu.Lock()
	s.state.Generating = false
	if err != nil {
		s.state.Error = shared.ErrorMessage(err)
	}
	s.mu.Unlock()
	if err != nil {
		s.logger.Warn("generation failed", slog.Any("error", err))
		s.notifier.Error(err)
		return zero, fmt.Errorf("ai: generate: %w", err)
	}
	return res, nil
}
