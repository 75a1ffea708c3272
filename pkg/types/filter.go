package types

// Filter represents query parameters for filtering and pagination.
type Filter struct {
	Search string                 `json:"search,omitempty"`
	Sort   map[string]string      `json:"sort,omitempty"`
	Filter map[string]interface{} `json:"filter,omitempty"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
	Page   int                    `json:"page"`
}

// Pagination represents pagination metadata.
type Pagination struct {
	TotalRecords uint64 `json:"totalRecords"`
	CurrentPage  int    `json:"currentPage"`
	TotalPages   int    `json:"totalPages"`
}
