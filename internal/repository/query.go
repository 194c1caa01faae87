package repository

// ListQuery represents common query parameters
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
	}
}

// Order builds an ORDER BY clause, accepting only whitelisted columns.
func (q *ListQuery) Order(fallback string, allowed map[string]bool) string {
	if q == nil || !allowed[q.SortBy] {
		return fallback
	}
	if q.SortDir == "desc" {
		return q.SortBy + " DESC"
	}
	return q.SortBy + " ASC"
}
