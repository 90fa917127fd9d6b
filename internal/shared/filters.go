package shared

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Filters maps a filter key to its selected value.
type Filters map[string]string

// Clone returns an independent copy.
func (f Filters) Clone() Filters {
	out := make(Filters, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Set stores value under key; a blank value removes the key.
func (f Filters) Set(key, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		delete(f, key)
		return
	}
	f[key] = value
}

// Keys returns the filter keys in sorted order.
func (f Filters) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ListParams carries pagination and filters for a list call.
type ListParams struct {
	Page    int
	Limit   int
	Filters Filters
}

// Query encodes page, limit and the filters whose key is in allowed.
// Unrecognised keys are dropped.
func (p ListParams) Query(allowed ...string) url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	for _, key := range allowed {
		if v, ok := p.Filters[key]; ok && v != "" {
			q.Set(key, v)
		}
	}
	return q
}

// StateChange is the body of every PATCH .../estado call.
type StateChange struct {
	State   string `json:"estado" validate:"required"`
	Comment string `json:"comentario,omitempty" validate:"max=500"`
}
