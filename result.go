package pagescope

// PaginationResult is a generic paginated result container.
type PaginationResult[T any] struct {
	// Items result elements.
	Items []T `json:"items"`
	// Total number of records matching the scope (groups under GROUP BY).
	Total int64 `json:"total"`
	// AppliedLimit effective per-page used for the query.
	AppliedLimit int `json:"appliedLimit"`
	// Info page metadata.
	Info PageInfo `json:"pageInfo"`
}
