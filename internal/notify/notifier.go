// Package notify holds the single banner slot each controller owns.
package notify

import (
	"sync"
	"time"

	"github.com/marketops/console/internal/shared"
)

// DefaultTTL is how long a banner stays visible.
const DefaultTTL = 3 * time.Second

// Kind classifies a banner.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Banner is a transient user notification.
type Banner struct {
	ID      uint64
	Kind    Kind
	Message string
	ShownAt time.Time
}

// Notifier owns one banner at a time. Showing a banner cancels the
// previous banner's expiry timer, so an old timer can never clear a newer
// message.
type Notifier struct {
	ttl time.Duration
	now func() time.Time

	mu        sync.Mutex
	seq       uint64
	current   *Banner
	timer     *time.Timer
	listeners []func(*Banner)
}

// New returns a Notifier whose banners expire after ttl. A ttl <= 0 keeps
// banners until they are dismissed or replaced.
func New(ttl time.Duration) *Notifier {
	return &Notifier{ttl: ttl, now: time.Now}
}

// Subscribe registers fn to be called with the current banner on every
// change; fn receives nil when the slot is cleared.
func (n *Notifier) Subscribe(fn func(*Banner)) {
	n.mu.Lock()
	n.listeners = append(n.listeners, fn)
	n.mu.Unlock()
}

// Show replaces the current banner.
func (n *Notifier) Show(kind Kind, message string) Banner {
	n.mu.Lock()
	n.seq++
	b := Banner{ID: n.seq, Kind: kind, Message: message, ShownAt: n.now()}
	n.current = &b
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	if n.ttl > 0 {
		id := b.ID
		n.timer = time.AfterFunc(n.ttl, func() { n.expire(id) })
	}
	listeners := n.snapshotListeners()
	n.mu.Unlock()

	n.publish(listeners, &b)
	return b
}

// Success shows a success banner.
func (n *Notifier) Success(message string) Banner {
	return n.Show(KindSuccess, message)
}

// Error shows err as an error banner.
func (n *Notifier) Error(err error) Banner {
	return n.Show(KindError, shared.ErrorMessage(err))
}

// Current returns the visible banner, if any.
func (n *Notifier) Current() (Banner, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Banner{}, false
	}
	return *n.current, true
}

// Dismiss clears the slot immediately.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	if n.current == nil {
		n.mu.Unlock()
		return
	}
	n.clearLocked()
	listeners := n.snapshotListeners()
	n.mu.Unlock()

	n.publish(listeners, nil)
}

// Close stops any pending timer without notifying listeners.
func (n *Notifier) Close() {
	n.mu.Lock()
	n.clearLocked()
	n.mu.Unlock()
}

func (n *Notifier) expire(id uint64) {
	n.mu.Lock()
	if n.current == nil || n.current.ID != id {
		n.mu.Unlock()
		return
	}
	n.current = nil
	n.timer = nil
	listeners := n.snapshotListeners()
	n.mu.Unlock()

	n.publish(listeners, nil)
}

func (n *Notifier) clearLocked() {
	n.current = nil
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

func (n *Notifier) snapshotListeners() []func(*Banner) {
	if len(n.listeners) == 0 {
		return nil
	}
	out := make([]func(*Banner), len(n.listeners))
	copy(out, n.listeners)
	return out
}

func (n *Notifier) publish(listeners []func(*Banner), b *Banner) {
	for _, fn := range listeners {
		fn(b)
	}
}
