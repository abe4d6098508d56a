package elasticsearch

import (
	"github.com/enricorticelli/elasticsearch-ecommerce-demo/internal/domain"
	"github.com/enricorticelli/elasticsearch-ecommerce-demo/internal/fields"
)

// Aggregation names shared between the query planner and the response
// resolvers.
const (
	aggMinPrice    = "min_price"
	aggMaxPrice    = "max_price"
	aggBrands      = "brands"
	aggCategories  = "categories_nested"
	aggLevels      = "levels"
	aggLevelNames  = "names"
	brandBucketCap = 100
	levelBucketCap = 10
	nameBucketCap  = 200
)

// buildSearchQuery constructs the full search request body: the boolean
// query, pagination, sort, and the min/max price aggregations scoped to the
// filtered result set so the caller can render an accurate slider range.
func buildSearchQuery(q *domain.SearchQuery) map[string]interface{} {
	body := map[string]interface{}{
		"query":            buildBoolQuery(q),
		"from":             q.Offset(),
		"size":             q.PageSize,
		"track_total_hits": true,
		"aggs": map[string]interface{}{
			aggMinPrice: map[string]interface{}{
				"min": map[string]interface{}{"field": fields.Price},
			},
			aggMaxPrice: map[string]interface{}{
				"max": map[string]interface{}{"field": fields.Price},
			},
		},
	}

	if sortClause := buildSort(q.SortBy); sortClause != nil {
		body["sort"] = sortClause
	}

	return body
}

// buildBoolQuery assembles the required clauses from the request's free-text
// query and filters. With no clauses it degrades to match_all: a full scan
// with ranking disabled, by contract not an error.
func buildBoolQuery(q *domain.SearchQuery) map[string]interface{} {
	var must []interface{}

	if q.Query != "" {
		// The free-text clause must satisfy at least one of: a multi-field
		// match over the text fields, or a nested match on category names.
		must = append(must, map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []interface{}{
					map[string]interface{}{
						"multi_match": map[string]interface{}{
							"query":  q.Query,
							"fields": []string{fields.Name, fields.Description, fields.Brand},
						},
					},
					nestedMatch(fields.CategoriesName, q.Query),
				},
				"minimum_should_match": 1,
			},
		})
	}

	if q.Brand != nil {
		must = append(must, term(fields.BrandKeyword, *q.Brand))
	}

	if q.Category != nil {
		must = append(must, map[string]interface{}{
			"nested": map[string]interface{}{
				"path":  fields.Categories,
				"query": term(fields.CategoriesNameKeyword, *q.Category),
			},
		})
	}

	if q.MinPrice != nil || q.MaxPrice != nil {
		bounds := map[string]interface{}{}
		if q.MinPrice != nil {
			bounds["gte"] = *q.MinPrice
		}
		if q.MaxPrice != nil {
			bounds["lte"] = *q.MaxPrice
		}
		must = append(must, map[string]interface{}{
			"range": map[string]interface{}{fields.Price: bounds},
		})
	}

	if len(must) == 0 {
		return map[string]interface{}{"match_all": map[string]interface{}{}}
	}

	return map[string]interface{}{
		"bool": map[string]interface{}{"must": must},
	}
}

// buildSort maps a sort token to an explicit sort clause. Relevance (and any
// unrecognized token) returns nil, leaving the backend's score ordering.
func buildSort(sortBy string) []interface{} {
	switch sortBy {
	case domain.SortTitle:
		return []interface{}{
			map[string]interface{}{fields.NameKeyword: "asc"},
		}
	case domain.SortPriceAsc:
		return []interface{}{
			map[string]interface{}{fields.Price: "asc"},
		}
	case domain.SortPriceDesc:
		return []interface{}{
			map[string]interface{}{fields.Price: "desc"},
		}
	default:
		return nil
	}
}

// buildAutocompleteQuery constructs the prefix/partial match plan: the edge
// n-gram sub-field does the search-as-you-type work, the plain text fields
// broaden the match, and highlighting is requested on name and brand without
// requiring the highlighted field to be the one that scored the hit.
func buildAutocompleteQuery(text string, size int) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []interface{}{
					map[string]interface{}{
						"match": map[string]interface{}{
							fields.NameAutocomplete: map[string]interface{}{
								"query": text,
								"boost": 3,
							},
						},
					},
					map[string]interface{}{
						"multi_match": map[string]interface{}{
							"query":  text,
							"fields": []string{fields.Name + "^2", fields.Description, fields.Brand},
						},
					},
				},
				"minimum_should_match": 1,
			},
		},
		"size": size,
		"highlight": map[string]interface{}{
			"require_field_match": false,
			"fields": map[string]interface{}{
				fields.Name:  map[string]interface{}{},
				fields.Brand: map[string]interface{}{},
			},
		},
	}
}

// buildBrandsAggQuery requests the brand facet: a terms aggregation over the
// brand keyword field, no hits returned.
func buildBrandsAggQuery() map[string]interface{} {
	return map[string]interface{}{
		"size": 0,
		"aggs": map[string]interface{}{
			aggBrands: map[string]interface{}{
				"terms": map[string]interface{}{
					"field": fields.BrandKeyword,
					"size":  brandBucketCap,
				},
			},
		},
	}
}

// buildCategoriesAggQuery requests the category facet: a nested aggregation
// over the categories path, bucketed by level, then by category name.
func buildCategoriesAggQuery() map[string]interface{} {
	return map[string]interface{}{
		"size": 0,
		"aggs": map[string]interface{}{
			aggCategories: map[string]interface{}{
				"nested": map[string]interface{}{"path": fields.Categories},
				"aggs": map[string]interface{}{
					aggLevels: map[string]interface{}{
						"terms": map[string]interface{}{
							"field": fields.CategoriesLevel,
							"size":  levelBucketCap,
						},
						"aggs": map[string]interface{}{
							aggLevelNames: map[string]interface{}{
								"terms": map[string]interface{}{
									"field": fields.CategoriesNameKeyword,
									"size":  nameBucketCap,
								},
							},
						},
					},
				},
			},
		},
	}
}

func term(field string, value string) map[string]interface{} {
	return map[string]interface{}{
		"term": map[string]interface{}{field: value},
	}
}

func nestedMatch(field, query string) map[string]interface{} {
	return map[string]interface{}{
		"nested": map[string]interface{}{
			"path": fields.Categories,
			"query": map[string]interface{}{
				"match": map[string]interface{}{field: query},
			},
		},
	}
}
