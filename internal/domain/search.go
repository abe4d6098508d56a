package domain

// Sort options for search results.
const (
	SortRelevance = "relevance"
	SortTitle     = "title"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

// ValidSortOptions returns the list of recognized sort options. Unrecognized
// tokens are not an error: the planner treats them as SortRelevance.
func ValidSortOptions() []string {
	return []string{SortRelevance, SortTitle, SortPriceAsc, SortPriceDesc}
}

// SearchQuery holds all parameters for a search request. Optional filters are
// pointers; nil means "not filtered".
type SearchQuery struct {
	Query    string   `json:"query"`
	Brand    *string  `json:"brand,omitempty"`
	Category *string  `json:"category,omitempty"`
	MinPrice *float64 `json:"minPrice,omitempty"`
	MaxPrice *float64 `json:"maxPrice,omitempty"`
	SortBy   string   `json:"sortBy"`
	Page     int      `json:"page"`
	PageSize int      `json:"pageSize"`
}

// Offset returns the number of documents skipped before the requested page.
func (q *SearchQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// SearchResult holds one page of matching products plus the price range of
// the full filtered result set (not just the page). MinPrice and MaxPrice are
// nil when the filtered set is empty.
type SearchResult struct {
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"pageSize"`
	MinPrice *float64  `json:"minPrice,omitempty"`
	MaxPrice *float64  `json:"maxPrice,omitempty"`
	Items    []Product `json:"items"`
}
