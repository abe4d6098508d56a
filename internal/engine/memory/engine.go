// Package memory provides an in-memory ProductIndex used in tests and for
// running the service without an Elasticsearch cluster. Matching is naive
// substring matching; facet and aggregation semantics mirror the
// Elasticsearch engine.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/enricorticelli/elasticsearch-ecommerce-demo/internal/domain"
	apperrors "github.com/enricorticelli/elasticsearch-ecommerce-demo/pkg/errors"
)

// Engine is an in-memory implementation of engine.ProductIndex.
// Thread-safe via sync.RWMutex.
type Engine struct {
	mu       sync.RWMutex
	created  bool
	products map[string]domain.Product
}

// New creates a new in-memory engine with no index.
func New() *Engine {
	return &Engine{}
}

// IndexExists reports whether CreateIndex has been called.
func (e *Engine) IndexExists(_ context.Context) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.created, nil
}

// CreateIndex creates the in-memory index. Fails if it already exists,
// matching the backend's behavior.
func (e *Engine) CreateIndex(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.created {
		return fmt.Errorf("memory: index already exists")
	}
	e.created = true
	e.products = make(map[string]domain.Product)
	return nil
}

// DeleteIndex removes the index and all documents. Idempotent.
func (e *Engine) DeleteIndex(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.created = false
	e.products = nil
	return nil
}

// Refresh is a no-op: writes are immediately visible.
func (e *Engine) Refresh(_ context.Context) error {
	return nil
}

// BulkInsert stores the given products keyed by ID.
func (e *Engine) BulkInsert(_ context.Context, products []domain.Product) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.products == nil {
		e.products = make(map[string]domain.Product, len(products))
		e.created = true
	}
	for _, p := range products {
		e.products[p.ID] = p
	}
	return nil
}

// Search filters, sorts, and paginates the stored products, reporting the
// min/max price of the whole filtered set.
func (e *Engine) Search(_ context.Context, q *domain.SearchQuery) (*domain.SearchResult, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	text := strings.ToLower(q.Query)

	matched := make([]domain.Product, 0)
	for _, p := range e.products {
		if e.matches(p, q, text) {
			matched = append(matched, p)
		}
	}

	sortProducts(matched, q.SortBy, text)

	var minPrice, maxPrice *float64
	for i := range matched {
		price := matched[i].Price
		if minPrice == nil || price < *minPrice {
			v := price
			minPrice = &v
		}
		if maxPrice == nil || price > *maxPrice {
			v := price
			maxPrice = &v
		}
	}

	total := len(matched)
	start := q.Offset()
	if start > total {
		start = total
	}
	end := start + q.PageSize
	if end > total {
		end = total
	}

	return &domain.SearchResult{
		Total:    total,
		Page:     q.Page,
		PageSize: q.PageSize,
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Items:    matched[start:end],
	}, nil
}

func (e *Engine) matches(p domain.Product, q *domain.SearchQuery, text string) bool {
	if text != "" && !matchesText(p, text) {
		return false
	}
	if q.Brand != nil && p.Brand != *q.Brand {
		return false
	}
	if q.Category != nil && !hasCategory(p, *q.Category) {
		return false
	}
	if q.MinPrice != nil && p.Price < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && p.Price > *q.MaxPrice {
		return false
	}
	return true
}

func matchesText(p domain.Product, text string) bool {
	if strings.Contains(strings.ToLower(p.Name), text) ||
		strings.Contains(strings.ToLower(p.Description), text) ||
		strings.Contains(strings.ToLower(p.Brand), text) {
		return true
	}
	for _, node := range p.Categories {
		if strings.Contains(strings.ToLower(node.Name), text) {
			return true
		}
	}
	return false
}

func hasCategory(p domain.Product, name string) bool {
	for _, node := range p.Categories {
		if node.Name == name {
			return true
		}
	}
	return false
}

// sortProducts orders matched products. Relevance (and unknown tokens) rank
// by a naive match score with a name tie-break so results stay deterministic.
func sortProducts(products []domain.Product, sortBy, text string) {
	switch sortBy {
	case domain.SortTitle:
		sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	case domain.SortPriceAsc:
		sort.Slice(products, func(i, j int) bool { return products[i].Price < products[j].Price })
	case domain.SortPriceDesc:
		sort.Slice(products, func(i, j int) bool { return products[i].Price > products[j].Price })
	default:
		sort.Slice(products, func(i, j int) bool {
			si, sj := score(products[i], text), score(products[j], text)
			if si != sj {
				return si > sj
			}
			return products[i].Name < products[j].Name
		})
	}
}

func score(p domain.Product, text string) int {
	if text == "" {
		return 0
	}
	s := 0
	if strings.HasPrefix(strings.ToLower(p.Name), text) {
		s += 3
	} else if strings.Contains(strings.ToLower(p.Name), text) {
		s += 2
	}
	if strings.Contains(strings.ToLower(p.Brand), text) {
		s++
	}
	return s
}

// Autocomplete matches products whose name or brand contains the text and
// wraps the matched span of the preferred field in <em> tags, mirroring the
// backend's highlighter.
func (e *Engine) Autocomplete(_ context.Context, text string, size int) ([]domain.AutocompleteHit, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	lower := strings.ToLower(text)

	matched := make([]domain.Product, 0)
	for _, p := range e.products {
		if matchesText(p, lower) {
			matched = append(matched, p)
		}
	}
	sortProducts(matched, domain.SortRelevance, lower)

	if len(matched) > size {
		matched = matched[:size]
	}

	hits := make([]domain.AutocompleteHit, 0, len(matched))
	for _, p := range matched {
		highlight := emphasize(p.Name, lower)
		if highlight == "" {
			highlight = emphasize(p.Brand, lower)
		}
		hits = append(hits, domain.AutocompleteHit{Product: p, Highlight: highlight})
	}
	return hits, nil
}

// emphasize wraps the first case-insensitive occurrence of text in value
// with <em> tags, or returns "" when value does not contain it.
func emphasize(value, text string) string {
	idx := strings.Index(strings.ToLower(value), text)
	if idx < 0 {
		return ""
	}
	end := idx + len(text)
	return value[:idx] + "<em>" + value[idx:end] + "</em>" + value[end:]
}

// GetByID fetches a product by identifier.
func (e *Engine) GetByID(_ context.Context, id string) (*domain.Product, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	p, ok := e.products[id]
	if !ok {
		return nil, apperrors.NotFound("product", id)
	}
	return &p, nil
}

// Brands returns distinct brand names across the stored products, without
// blanks or case-insensitive duplicates, sorted ascending.
func (e *Engine) Brands(_ context.Context) ([]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	seen := make(map[string]struct{})
	brands := make([]string, 0)
	for _, p := range e.products {
		name := p.Brand
		if strings.TrimSpace(name) == "" {
			continue
		}
		folded := strings.ToLower(name)
		if _, dup := seen[folded]; dup {
			continue
		}
		seen[folded] = struct{}{}
		brands = append(brands, name)
	}
	sort.Strings(brands)
	return brands, nil
}

// Categories groups category names by level across the stored products.
func (e *Engine) Categories(_ context.Context) ([]domain.CategoryGroup, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	byLevel := make(map[int]map[string]string) // level → folded name → original
	for _, p := range e.products {
		for _, node := range p.Categories {
			if strings.TrimSpace(node.Name) == "" {
				continue
			}
			if byLevel[node.Level] == nil {
				byLevel[node.Level] = make(map[string]string)
			}
			folded := strings.ToLower(node.Name)
			if _, dup := byLevel[node.Level][folded]; !dup {
				byLevel[node.Level][folded] = node.Name
			}
		}
	}

	levels := make([]int, 0, len(byLevel))
	for level := range byLevel {
		levels = append(levels, level)
	}
	sort.Ints(levels)

	groups := make([]domain.CategoryGroup, 0, len(levels))
	for _, level := range levels {
		names := make([]string, 0, len(byLevel[level]))
		for _, original := range byLevel[level] {
			names = append(names, original)
		}
		sort.Strings(names)
		groups = append(groups, domain.CategoryGroup{Level: level, Categories: names})
	}
	return groups, nil
}
