package stubapi

import (
	"sort"
	"sync"

	"github.com/marketops/console/internal/platform/httpx"
)

// table is an in-memory collection keyed by sequential ids.
type table[T any] struct {
	mu   sync.RWMutex
	next int64
	rows map[int64]T
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: map[int64]T{}}
}

func (t *table[T]) insert(build func(id int64) T) T {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	row := build(t.next)
	t.rows[t.next] = row
	return row
}

func (t *table[T]) get(id int64) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	return row, ok
}

// update applies fn to a copy of row id and stores it when fn succeeds.
func (t *table[T]) update(id int64, fn func(*T) error) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, httpx.ErrNotFound
	}
	if err := fn(&row); err != nil {
		var zero T
		return zero, err
	}
	t.rows[id] = row
	return row, nil
}

func (t *table[T]) remove(id int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}

// list returns the rows keep accepts, ordered by id.
func (t *table[T]) list(keep func(T) bool) []T {
	t.mu.RLock()
	ids := make([]int64, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		row := t.rows[id]
		if keep == nil || keep(row) {
			out = append(out, row)
		}
	}
	t.mu.RUnlock()
	return out
}

func (t *table[T]) find(keep func(T) bool) (T, bool) {
	rows := t.list(keep)
	if len(rows) == 0 {
		var zero T
		return zero, false
	}
	return rows[0], true
}
