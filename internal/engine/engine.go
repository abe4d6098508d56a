package engine

import (
	"context"

	"github.com/enricorticelli/elasticsearch-ecommerce-demo/internal/domain"
)

// ProductIndex is the boundary to the document-search backend. Implementations
// may use Elasticsearch or in-memory storage; all operations are safe for
// concurrent use and honor context cancellation.
type ProductIndex interface {
	// IndexExists reports whether the product index has been created.
	IndexExists(ctx context.Context) (bool, error)

	// CreateIndex declares the product schema. Fails if the backend rejects it.
	CreateIndex(ctx context.Context) error

	// DeleteIndex removes the index and every document in it. Removing an
	// absent index is not an error.
	DeleteIndex(ctx context.Context) error

	// BulkInsert writes the given products in a single bulk round-trip.
	// Callers are responsible for batching; see service.BulkLoad.
	BulkInsert(ctx context.Context, products []domain.Product) error

	// Refresh makes recently written documents visible to subsequent reads
	// immediately, bypassing the backend's default visibility delay.
	Refresh(ctx context.Context) error

	// Search executes a query plan built from q and returns one page of
	// results with an exact total and the filtered set's price range.
	Search(ctx context.Context, q *domain.SearchQuery) (*domain.SearchResult, error)

	// Autocomplete returns up to size ranked prefix matches for text, each
	// carrying a highlighted fragment when the backend produced one.
	Autocomplete(ctx context.Context, text string, size int) ([]domain.AutocompleteHit, error)

	// GetByID fetches a product by identifier. Returns errors.ErrNotFound
	// (wrapped) when the document does not exist.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// Brands returns the distinct brand names across the catalog, sorted
	// ascending, without blanks or case-insensitive duplicates.
	Brands(ctx context.Context) ([]string, error)

	// Categories returns category names grouped by level, levels ascending,
	// names deduplicated and sorted within each group.
	Categories(ctx context.Context) ([]domain.CategoryGroup, error)
}
