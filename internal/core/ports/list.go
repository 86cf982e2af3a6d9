package ports

// ListFilter carries the common list-endpoint parameters shared by every
// resource: pagination, a status filter, free-text search and sorting.
// Empty string fields mean "not set".
type ListFilter struct {
	Page    int
	Limit   int
	Status  string
	Search  string
	SortBy  string
	SortDir string // "asc" or "desc"; defaults to "desc"
}

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// Normalized returns a copy with pagination clamped to sane bounds.
func (f ListFilter) Normalized() ListFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = defaultPageLimit
	}
	if f.Limit > maxPageLimit {
		f.Limit = maxPageLimit
	}
	if f.SortDir != "asc" {
		f.SortDir = "desc"
	}
	return f
}

// PageInfo describes the pagination of a list response.
type PageInfo struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// NewPageInfo derives the page count from the total and limit.
func NewPageInfo(page, limit int, total int64) PageInfo {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return PageInfo{Page: page, Limit: limit, Total: total, Pages: pages}
}

// StatusCounts is the aggregate returned by every resource's stats endpoint.
type StatusCounts struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"byStatus"`
}
