package social

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketops/console/internal/form"
	"github.com/marketops/console/internal/pagestate"
)

type fakeBackend struct {
	accounts     []Account
	loads        int
	connected    []ConnectRequest
	disconnected []int64
}

func (f *fakeBackend) Accounts(context.Context) ([]Account, error) {
	f.loads++
	return append([]Account(nil), f.accounts...), nil
}

func (f *fakeBackend) Connect(_ context.Context, req ConnectRequest) (Account, error) {
	f.connected = append(f.connected, req)
	acc := Account{ID: int64(len(f.accounts) + 1), Network: req.Network, Handle: req.Handle, Connected: true}
	f.accounts = append(f.accounts, acc)
	return acc, nil
}

func (f *fakeBackend) Disconnect(_ context.Context, id int64) error {
	f.disconnected = append(f.disconnected, id)
	return nil
}

func (f *fakeBackend) Publish(_ context.Context, req PublishRequest) (PublishResult, error) {
	return PublishResult{PublicationID: req.PublicationID, State: "publicada"}, nil
}

func TestConnectNormalizesAndReloads(t *testing.T) {
	api := &fakeBackend{}
	page := NewAccounts(api, nil, pagestate.AlwaysConfirm, nil)

	require.NoError(t, page.Connect(context.Background(), ConnectRequest{Network: " Instagram ", Handle: "@marketops", AccessToken: "tok"}))
	require.Len(t, api.connected, 1)
	assert.Equal(t, "instagram", api.connected[0].Network)
	assert.Equal(t, "marketops", api.connected[0].Handle)
	assert.Equal(t, 1, api.loads)
	assert.Len(t, page.State().Accounts, 1)
}

func TestConnectValidationSkipsRequest(t *testing.T) {
	api := &fakeBackend{}
	page := NewAccounts(api, nil, pagestate.AlwaysConfirm, nil)

	err := page.Connect(context.Background(), ConnectRequest{Network: "myspace", Handle: "x"})
	require.ErrorIs(t, err, form.ErrInvalid)
	assert.Empty(t, api.connected)
}

func TestDisconnectNeedsConfirmation(t *testing.T) {
	api := &fakeBackend{accounts: []Account{{ID: 4, Network: "linkedin", Handle: "acme"}}}
	page := NewAccounts(api, nil, pagestate.NeverConfirm, nil)

	err := page.Disconnect(context.Background(), api.accounts[0])
	require.ErrorIs(t, err, pagestate.ErrNotConfirmed)
	assert.Empty(t, api.disconnected)

	page = NewAccounts(api, nil, pagestate.AlwaysConfirm, nil)
	require.NoError(t, page.Disconnect(context.Background(), api.accounts[0]))
	assert.Equal(t, []int64{4}, api.disconnected)
}

func TestPublish(t *testing.T) {
	page := NewAccounts(&fakeBackend{}, nil, nil, nil)

	_, err := page.Publish(context.Background(), 0)
	require.ErrorIs(t, err, form.ErrInvalid)

	res, err := page.Publish(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, int64(12), res.PublicationID)
}
