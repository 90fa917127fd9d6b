// Package form implements the create/edit modal: a draft copy of an
// entity's editable fields, field-level validation and submission.
package form

import (
	"context"
	"strings"
	"sync"
)

// Spec describes how drafts of type D are made from entities of type T.
type Spec[T any, D any] struct {
	// New returns the defaults for create mode.
	New func() D
	// From seeds a draft from the entity being edited.
	From func(T) D
	// Normalize strips empty optional fields before submission.
	Normalize func(D, bool) D
	// Check adds validations that depend on the mode; editing is true when
	// a target is set.
	Check func(d D, editing bool) map[string]string
}

// SaveFunc persists a validated draft.
type SaveFunc[D any] func(ctx context.Context, draft D) error

// Modal holds the draft for at most one editing target.
type Modal[T any, D any] struct {
	spec Spec[T, D]

	mu     sync.Mutex
	open   bool
	target *T
	draft  D
	errors map[string]string
}

// NewModal returns a closed modal.
func NewModal[T any, D any](spec Spec[T, D]) *Modal[T, D] {
	return &Modal[T, D]{spec: spec, errors: map[string]string{}}
}

// Open seeds the draft from target, or from defaults when target is nil.
// Reopening always reseeds and clears field errors.
func (m *Modal[T, D]) Open(target *T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = true
	m.errors = map[string]string{}
	if target == nil {
		m.target = nil
		m.draft = m.defaults()
		return
	}
	t := *target
	m.target = &t
	if m.spec.From != nil {
		m.draft = m.spec.From(t)
	} else {
		m.draft = m.defaults()
	}
}

// Close discards the draft.
func (m *Modal[T, D]) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = false
	m.target = nil
	var zero D
	m.draft = zero
	m.errors = map[string]string{}
}

// IsOpen reports whether the modal is showing.
func (m *Modal[T, D]) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// Target returns the entity being edited; nil means create mode.
func (m *Modal[T, D]) Target() *T {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.target == nil {
		return nil
	}
	t := *m.target
	return &t
}

// Draft returns a copy of the working draft.
func (m *Modal[T, D]) Draft() D {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft
}

// SetDraft replaces the working draft.
func (m *Modal[T, D]) SetDraft(d D) {
	m.mu.Lock()
	m.draft = d
	m.mu.Unlock()
}

// Update mutates the working draft in place.
func (m *Modal[T, D]) Update(fn func(*D)) {
	m.mu.Lock()
	fn(&m.draft)
	m.mu.Unlock()
}

// Errors returns a copy of the field errors from the last validation.
func (m *Modal[T, D]) Errors() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.errors))
	for k, v := range m.errors {
		out[k] = v
	}
	return out
}

// Validate checks the draft field by field and records the errors.
func (m *Modal[T, D]) Validate() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = m.check(m.draft, m.target != nil)
	return len(m.errors) == 0
}

// Submit validates the draft and hands the normalized copy to save. When
// validation fails save is not called and a *ValidationError is returned.
// The modal stays open; the caller decides when to close it.
func (m *Modal[T, D]) Submit(ctx context.Context, save SaveFunc[D]) error {
	m.mu.Lock()
	editing := m.target != nil
	errs := m.check(m.draft, editing)
	m.errors = errs
	draft := m.draft
	m.mu.Unlock()

	if len(errs) > 0 {
		return &ValidationError{Fields: copyErrors(errs)}
	}
	if m.spec.Normalize != nil {
		draft = m.spec.Normalize(draft, editing)
	}
	return save(ctx, draft)
}

func (m *Modal[T, D]) check(d D, editing bool) map[string]string {
	errs := ValidateStruct(d)
	if m.spec.Check != nil {
		for k, v := range m.spec.Check(d, editing) {
			if _, exists := errs[k]; !exists {
				errs[k] = v
			}
		}
	}
	return errs
}

func (m *Modal[T, D]) defaults() D {
	if m.spec.New != nil {
		return m.spec.New()
	}
	var zero D
	return zero
}

func copyErrors(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Trim returns s without surrounding whitespace.
func Trim(s string) string { return strings.TrimSpace(s) }

// CompactStrings trims every element and drops the empty ones; the result
// is nil when nothing remains.
func CompactStrings(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
