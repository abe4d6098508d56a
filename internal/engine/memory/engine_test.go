package memory

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enricorticelli/elasticsearch-ecommerce-demo/internal/domain"
	apperrors "github.com/enricorticelli/elasticsearch-ecommerce-demo/pkg/errors"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func seedEngine(t *testing.T, products ...domain.Product) *Engine {
	t.Helper()
	e := New()
	require.NoError(t, e.CreateIndex(context.Background()))
	require.NoError(t, e.BulkInsert(context.Background(), products))
	return e
}

func product(id, name, brand string, price float64, categories ...domain.CategoryNode) domain.Product {
	return domain.Product{ID: id, Name: name, Brand: brand, Price: price, Categories: categories}
}

func TestIndexLifecycle(t *testing.T) {
	ctx := context.Background()
	e := New()

	exists, err := e.IndexExists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, e.CreateIndex(ctx))
	exists, err = e.IndexExists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)

	assert.Error(t, e.CreateIndex(ctx), "double create must fail")

	require.NoError(t, e.DeleteIndex(ctx))
	require.NoError(t, e.DeleteIndex(ctx), "delete is idempotent")
	exists, err = e.IndexExists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSearch_TextMatching(t *testing.T) {
	e := seedEngine(t,
		product("1", "Wireless Headphones", "Sony", 99),
		product("2", "Desk Lamp", "IKEA", 25),
	)

	res, err := e.Search(context.Background(), &domain.SearchQuery{Query: "wireless", Page: 1, PageSize: 20})

	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, "1", res.Items[0].ID)
}

func TestSearch_CategoryTextMatch(t *testing.T) {
	e := seedEngine(t,
		product("1", "Thing", "X", 10, domain.CategoryNode{Name: "Headphones", Level: 3}),
	)

	res, err := e.Search(context.Background(), &domain.SearchQuery{Query: "headphones", Page: 1, PageSize: 20})

	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
}

func TestSearch_BrandAndPriceFilter_FacetReflectsFilteredSet(t *testing.T) {
	e := seedEngine(t,
		product("1", "A", "Acme", 5),
		product("2", "B", "Acme", 20),
		product("3", "C", "Acme", 45),
		product("4", "D", "Other", 30),
	)

	res, err := e.Search(context.Background(), &domain.SearchQuery{
		Brand:    strPtr("Acme"),
		MinPrice: floatPtr(10),
		MaxPrice: floatPtr(50),
		Page:     1,
		PageSize: 20,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	require.NotNil(t, res.MinPrice)
	require.NotNil(t, res.MaxPrice)
	assert.Equal(t, 20.0, *res.MinPrice)
	assert.Equal(t, 45.0, *res.MaxPrice)
}

func TestSearch_EmptyFilteredSet_NoPriceRange(t *testing.T) {
	e := seedEngine(t, product("1", "A", "Acme", 5))

	res, err := e.Search(context.Background(), &domain.SearchQuery{Brand: strPtr("Nope"), Page: 1, PageSize: 20})

	require.NoError(t, err)
	assert.Equal(t, 0, res.Total)
	assert.Nil(t, res.MinPrice)
	assert.Nil(t, res.MaxPrice)
}

func TestSearch_SortPriceDesc(t *testing.T) {
	e := seedEngine(t,
		product("1", "A", "X", 5),
		product("2", "B", "X", 45),
		product("3", "C", "X", 20),
	)

	res, err := e.Search(context.Background(), &domain.SearchQuery{SortBy: domain.SortPriceDesc, Page: 1, PageSize: 20})

	require.NoError(t, err)
	require.Len(t, res.Items, 3)
	assert.Equal(t, []float64{45, 20, 5}, []float64{res.Items[0].Price, res.Items[1].Price, res.Items[2].Price})
}

func TestSearch_UnrecognizedSortBehavesLikeRelevance(t *testing.T) {
	e := seedEngine(t,
		product("1", "A", "X", 5),
		product("2", "B", "X", 45),
	)

	bogus, err := e.Search(context.Background(), &domain.SearchQuery{SortBy: "bogus", Page: 1, PageSize: 20})
	require.NoError(t, err)
	relevance, err := e.Search(context.Background(), &domain.SearchQuery{SortBy: domain.SortRelevance, Page: 1, PageSize: 20})
	require.NoError(t, err)

	assert.Equal(t, relevance.Items, bogus.Items)
}

func TestSearch_Pagination(t *testing.T) {
	products := make([]domain.Product, 0, 7)
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		products = append(products, product(id, id, "X", 10))
	}
	e := seedEngine(t, products...)

	page2, err := e.Search(context.Background(), &domain.SearchQuery{SortBy: domain.SortTitle, Page: 2, PageSize: 3})

	require.NoError(t, err)
	assert.Equal(t, 7, page2.Total)
	require.Len(t, page2.Items, 3)
	assert.Equal(t, "d", page2.Items[0].ID)

	page3, err := e.Search(context.Background(), &domain.SearchQuery{SortBy: domain.SortTitle, Page: 3, PageSize: 3})
	require.NoError(t, err)
	assert.Len(t, page3.Items, 1)

	beyond, err := e.Search(context.Background(), &domain.SearchQuery{SortBy: domain.SortTitle, Page: 9, PageSize: 3})
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
}

func TestAutocomplete_HighlightsMatch(t *testing.T) {
	e := seedEngine(t,
		product("1", "Wireless Headphones", "Sony", 99),
		product("2", "Wired Headphones", "Sony", 49),
		product("3", "Desk Lamp", "IKEA", 25),
	)

	hits, err := e.Autocomplete(context.Background(), "Wire", 6)

	require.NoError(t, err)
	require.Len(t, hits, 2)
	for _, hit := range hits {
		assert.Contains(t, hit.Highlight, "<em>Wire</em>")
	}
}

func TestAutocomplete_BrandFallbackHighlight(t *testing.T) {
	e := seedEngine(t, product("1", "Laptop", "Acme", 500))

	hits, err := e.Autocomplete(context.Background(), "acme", 6)

	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "<em>Acme</em>", hits[0].Highlight)
}

func TestAutocomplete_RespectsSize(t *testing.T) {
	e := seedEngine(t,
		product("1", "Mouse A", "X", 1),
		product("2", "Mouse B", "X", 2),
		product("3", "Mouse C", "X", 3),
	)

	hits, err := e.Autocomplete(context.Background(), "mouse", 2)

	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestGetByID(t *testing.T) {
	e := seedEngine(t, product("1", "Laptop", "Acme", 500))

	p, err := e.GetByID(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Laptop", p.Name)

	_, err = e.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestBrands_DedupedAndSorted(t *testing.T) {
	e := seedEngine(t,
		product("1", "A", "Sony", 1),
		product("2", "B", "sony", 2),
		product("3", "C", "Acme", 3),
		product("4", "D", " ", 4),
	)

	brands, err := e.Brands(context.Background())

	require.NoError(t, err)
	require.Len(t, brands, 2)
	assert.Equal(t, "Acme", brands[0])
	assert.Equal(t, "sony", strings.ToLower(brands[1]))
}

func TestCategories_GroupedByLevel(t *testing.T) {
	e := seedEngine(t,
		product("1", "A", "X", 1,
			domain.CategoryNode{Name: "Electronics", Level: 1},
			domain.CategoryNode{Name: "Audio", Level: 2},
			domain.CategoryNode{Name: "Headphones", Level: 3},
		),
		product("2", "B", "X", 2,
			domain.CategoryNode{Name: "Electronics", Level: 1},
			domain.CategoryNode{Name: "Computers", Level: 2},
		),
	)

	groups, err := e.Categories(context.Background())

	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Equal(t, domain.CategoryGroup{Level: 1, Categories: []string{"Electronics"}}, groups[0])
	assert.Equal(t, domain.CategoryGroup{Level: 2, Categories: []string{"Audio", "Computers"}}, groups[1])
	assert.Equal(t, domain.CategoryGroup{Level: 3, Categories: []string{"Headphones"}}, groups[2])
}
