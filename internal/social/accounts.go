// Package social manages the social network accounts the backend publishes
// through.
package social

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/marketops/console/internal/form"
	"github.com/marketops/console/internal/notify"
	"github.com/marketops/console/internal/pagestate"
	"github.com/marketops/console/internal/shared"
)

// Backend is the subset of API the accounts page uses.
type Backend interface {
	Accounts(ctx context.Context) ([]Account, error)
	Connect(ctx context.Context, req ConnectRequest) (Account, error)
	Disconnect(ctx context.Context, id int64) error
	Publish(ctx context.Context, req PublishRequest) (PublishResult, error)
}

// AccountsState is a snapshot of the accounts page.
type AccountsState struct {
	Status   pagestate.Status
	Accounts []Account
	Error    string
}

// Accounts lists, connects and disconnects accounts. Every mutation is
// followed by a reload from the server.
type Accounts struct {
	api       Backend
	notifier  *notify.Notifier
	confirmer pagestate.Confirmer
	logger    *slog.Logger

	mu       sync.Mutex
	seq      uint64
	status   pagestate.Status
	accounts []Account
	errMsg   string
}

// NewAccounts builds the page. Disconnecting requires confirmer approval.
func NewAccounts(api Backend, notifier *notify.Notifier, confirmer pagestate.Confirmer, logger *slog.Logger) *Accounts {
	if notifier == nil {
		notifier = notify.New(notify.DefaultTTL)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Accounts{api: api, notifier: notifier, confirmer: confirmer, logger: logger, status: pagestate.StatusIdle}
}

// Notifier returns the page's banner slot.
func (a *Accounts) Notifier() *notify.Notifier { return a.notifier }

// State returns a snapshot.
func (a *Accounts) State() AccountsState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return AccountsState{Status: a.status, Accounts: append([]Account(nil), a.accounts...), Error: a.errMsg}
}

// Load fetches the account list.
func (a *Accounts) Load(ctx context.Context) error {
	a.mu.Lock()
	a.seq++
	seq := a.seq
	a.status = pagestate.StatusLoading
	a.mu.Unlock()

	list, err := a.api.Accounts(ctx)

	a.mu.Lock()
	if seq != a.seq {
		a.mu.Unlock()
		return pagestate.ErrStale
	}
	if err != nil {
		a.status = pagestate.StatusError
		a.errMsg = shared.ErrorMessage(err)
		a.mu.Unlock()
		a.notifier.Error(err)
		return fmt.Errorf("social: accounts: %w", err)
	}
	if list == nil {
		list = []Account{}
	}
	a.accounts = list
	a.status = pagestate.StatusSuccess
	a.errMsg = ""
	a.mu.Unlock()
	return nil
}

// Connect validates req, links the account and reloads.
func (a *Accounts) Connect(ctx context.Context, req ConnectRequest) error {
	req.Network = strings.ToLower(strings.TrimSpace(req.Network))
	req.Handle = strings.TrimPrefix(strings.TrimSpace(req.Handle), "@")
	if errs := form.ValidateStruct(req); len(errs) > 0 {
		vErr := &form.ValidationError{Fields: errs}
		a.notifier.Error(vErr)
		return vErr
	}
	if _, err := a.api.Connect(ctx, req); err != nil {
		a.logger.Warn("connect account failed", slog.String("network", req.Network), slog.Any("error", err))
		a.notifier.Error(err)
		return fmt.Errorf("social: connect: %w", err)
	}
	a.notifier.Success("Cuenta conectada")
	return a.reload(ctx)
}

// Disconnect unlinks account after confirmation and reloads.
func (a *Accounts) Disconnect(ctx context.Context, account Account) error {
	prompt := fmt.Sprintf("¿Desconectar %s?", account.Label())
	if a.confirmer == nil || !a.confirmer.Confirm(ctx, prompt) {
		return pagestate.ErrNotConfirmed
	}
	if err := a.api.Disconnect(ctx, account.ID); err != nil {
		a.logger.Warn("disconnect account failed", slog.Int64("id", account.ID), slog.Any("error", err))
		a.notifier.Error(err)
		return fmt.Errorf("social: disconnect: %w", err)
	}
	a.notifier.Success("Cuenta desconectada")
	return a.reload(ctx)
}

// Publish pushes publicationID to its network now and reports the outcome.
func (a *Accounts) Publish(ctx context.Context, publicationID int64) (PublishResult, error) {
	req := PublishRequest{PublicationID: publicationID}
	if errs := form.ValidateStruct(req); len(errs) > 0 {
		vErr := &form.ValidationError{Fields: errs}
		a.notifier.Error(vErr)
		return PublishResult{}, vErr
	}
	res, err := a.api.Publish(ctx, req)
	if err != nil {
		a.notifier.Error(err)
		return res, fmt.Errorf("social: publish: %w", err)
	}
	if res.Message != "" {
		a.notifier.Show(notify.KindInfo, res.Message)
	} else {
		a.notifier.Success("Publicación enviada")
	}
	return res, nil
}

func (a *Accounts) reload(ctx context.Context) error {
	if err := a.Load(ctx); err != nil && !errors.Is(err, pagestate.ErrStale) {
		return err
	}
	return nil
}
