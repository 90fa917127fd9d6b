package shared

import "math"

// DefaultLimit is the page size used when a caller does not request one.
const DefaultLimit = 10

// MaxLimit caps page sizes accepted by the backend.
const MaxLimit = 100

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page       int
	PerPage    int
	Total      int
	TotalPages int
}

// NewPagination computes pagination metadata.
func NewPagination(page, perPage, total int) Pagination {
	if perPage <= 0 {
		perPage = DefaultLimit
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// Offset returns the zero-based index of the first item on the page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Page is the list envelope returned by every collection endpoint.
type Page[T any] struct {
	Data  []T `json:"data"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// NewPage slices items according to page and limit and fills the metadata.
func NewPage[T any](items []T, page, limit int) Page[T] {
	meta := NewPagination(page, limit, len(items))
	start := meta.Offset()
	if start > len(items) {
		start = len(items)
	}
	end := start + meta.PerPage
	if end > len(items) {
		end = len(items)
	}
	data := make([]T, end-start)
	copy(data, items[start:end])
	return Page[T]{
		Data:  data,
		Page:  meta.Page,
		Limit: meta.PerPage,
		Total: meta.Total,
		Pages: meta.TotalPages,
	}
}

// Normalize fills missing metadata from the requested page and limit and
// drops items beyond the requested limit. A requested limit wins over the
// one the server reports; page counts are then derived from it.
func (p Page[T]) Normalize(page, limit int) Page[T] {
	if p.Page <= 0 {
		p.Page = page
	}
	if limit > 0 && p.Limit != limit {
		p.Limit = limit
		p.Pages = 0
	}
	if p.Limit > 0 && len(p.Data) > p.Limit {
		p.Data = p.Data[:p.Limit]
	}
	if p.Pages <= 0 && p.Total > 0 && p.Limit > 0 {
		p.Pages = NewPagination(p.Page, p.Limit, p.Total).TotalPages
	}
	if p.Data == nil {
		p.Data = []T{}
	}
	return p
}

// Empty reports whether the page holds no items.
func (p Page[T]) Empty() bool {
	return len(p.Data) == 0
}
