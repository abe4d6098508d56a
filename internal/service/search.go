package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/enricorticelli/elasticsearch-ecommerce-demo/internal/catalog"
	"github.com/enricorticelli/elasticsearch-ecommerce-demo/internal/domain"
	"github.com/enricorticelli/elasticsearch-ecommerce-demo/internal/engine"
	apperrors "github.com/enricorticelli/elasticsearch-ecommerce-demo/pkg/errors"
)

// DefaultBatchSize bounds the payload of one bulk-write round-trip.
const DefaultBatchSize = 1000

// Autocomplete size bounds.
const (
	MinAutocompleteSize = 1
	MaxAutocompleteSize = 12
)

// SearchService composes the index lifecycle, query planning, and facet
// operations into the public surface consumed by the HTTP layer.
type SearchService struct {
	index     engine.ProductIndex
	generator *catalog.Generator
	batchSize int
	logger    *slog.Logger
}

// NewSearchService creates a search service. A batchSize < 1 falls back to
// DefaultBatchSize.
func NewSearchService(index engine.ProductIndex, generator *catalog.Generator, batchSize int, logger *slog.Logger) *SearchService {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	return &SearchService{
		index:     index,
		generator: generator,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Initialize destructively resets the index: if it exists it is deleted, then
// the schema is created fresh. This is a seed/demo workflow, not a migration.
func (s *SearchService) Initialize(ctx context.Context) error {
	exists, err := s.index.IndexExists(ctx)
	if err != nil {
		return fmt.Errorf("initialize index: %w", err)
	}

	if exists {
		if err := s.index.DeleteIndex(ctx); err != nil {
			return fmt.Errorf("initialize index: %w", err)
		}
	}

	if err := s.index.CreateIndex(ctx); err != nil {
		return fmt.Errorf("initialize index: %w", err)
	}

	s.logger.InfoContext(ctx, "index initialized")
	return nil
}

// Seed generates count synthetic products and bulk-loads them.
func (s *SearchService) Seed(ctx context.Context, count int) error {
	if count < 1 {
		return apperrors.InvalidInput("count must be at least 1")
	}

	products := s.generator.Generate(count)
	if err := s.BulkLoad(ctx, products); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}

	s.logger.InfoContext(ctx, "catalog seeded", slog.Int("count", count))
	return nil
}

// BulkLoad writes products in sequential fixed-size batches and refreshes the
// index once after the last batch so the load becomes immediately visible.
// A failing batch aborts the load: later batches are never issued, and
// documents from earlier batches remain indexed (at-least-once, non-atomic).
func (s *SearchService) BulkLoad(ctx context.Context, products []domain.Product) error {
	for start := 0; start < len(products); start += s.batchSize {
		end := start + s.batchSize
		if end > len(products) {
			end = len(products)
		}
		if err := s.index.BulkInsert(ctx, products[start:end]); err != nil {
			return fmt.Errorf("bulk load batch %d: %w", start/s.batchSize, err)
		}
	}

	if len(products) == 0 {
		return nil
	}

	if err := s.index.Refresh(ctx); err != nil {
		return fmt.Errorf("bulk load refresh: %w", err)
	}

	s.logger.InfoContext(ctx, "bulk load completed",
		slog.Int("count", len(products)),
		slog.Int("batch_size", s.batchSize),
	)
	return nil
}

// Search validates the request and executes the query plan. An unrecognized
// sort token is not an error; the planner treats it as relevance.
func (s *SearchService) Search(ctx context.Context, q *domain.SearchQuery) (*domain.SearchResult, error) {
	if q.Page < 1 {
		return nil, apperrors.InvalidInput("page must be at least 1")
	}
	if q.PageSize < 1 {
		return nil, apperrors.InvalidInput("pageSize must be at least 1")
	}
	if q.MinPrice != nil && *q.MinPrice < 0 {
		return nil, apperrors.InvalidInput("minPrice must not be negative")
	}
	if q.MaxPrice != nil && *q.MaxPrice < 0 {
		return nil, apperrors.InvalidInput("maxPrice must not be negative")
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return nil, apperrors.InvalidInput("minPrice must not exceed maxPrice")
	}
	if q.SortBy == "" {
		q.SortBy = domain.SortRelevance
	}

	result, err := s.index.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	s.logger.DebugContext(ctx, "search executed",
		slog.String("query", q.Query),
		slog.Int("total", result.Total),
	)
	return result, nil
}

// Autocomplete returns ranked prefix matches for text. Blank text
// short-circuits to an empty result without contacting the backend; size is
// clamped to [1, 12].
func (s *SearchService) Autocomplete(ctx context.Context, text string, size int) ([]domain.AutocompleteHit, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []domain.AutocompleteHit{}, nil
	}

	if size < MinAutocompleteSize {
		size = MinAutocompleteSize
	}
	if size > MaxAutocompleteSize {
		size = MaxAutocompleteSize
	}

	hits, err := s.index.Autocomplete(ctx, text, size)
	if err != nil {
		return nil, fmt.Errorf("autocomplete: %w", err)
	}
	return hits, nil
}

// GetProduct fetches a product by identifier.
func (s *SearchService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("id is required")
	}

	product, err := s.index.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

// Brands returns the brand facet over the whole catalog.
func (s *SearchService) Brands(ctx context.Context) ([]string, error) {
	brands, err := s.index.Brands(ctx)
	if err != nil {
		return nil, fmt.Errorf("brands: %w", err)
	}
	return brands, nil
}

// Categories returns the category facet over the whole catalog.
func (s *SearchService) Categories(ctx context.Context) ([]domain.CategoryGroup, error) {
	groups, err := s.index.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	return groups, nil
}
