package shared

// Filter represents query filter options for list operations.
// Search is a case-insensitive substring match; which columns it applies to
// is decided by each repository.
type Filter struct {
	Page     int
	PageSize int
	Search   string
}

// NewFilter returns a filter with the page clamped to a sane lower bound.
// Upper-bound clamping (past the last page) needs the total count and is
// done by ClampPage once the repository has counted matches.
func NewFilter(page, pageSize int, search string) Filter {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	return Filter{Page: page, PageSize: pageSize, Search: search}
}

// TotalPages returns the number of pages needed for total items.
// An empty result set still has one (empty) page.
func TotalPages(total int64, pageSize int) int {
	if pageSize < 1 {
		return 1
	}
	pages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		pages++
	}
	if pages < 1 {
		pages = 1
	}
	return pages
}

// ClampPage clamps the filter's page into [1, last page] for the given total.
// Out-of-range page requests resolve to the nearest valid page instead of
// erroring.
func (f Filter) ClampPage(total int64) Filter {
	last := TotalPages(total, f.PageSize)
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Page > last {
		f.Page = last
	}
	return f
}

// Offset returns the row offset for the current page
func (f Filter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: TotalPages(total, pageSize),
	}
}
