package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/enricorticelli/elasticsearch-ecommerce-demo/internal/domain"
)

// esBrandsResponse decodes the brand terms aggregation.
type esBrandsResponse struct {
	Aggregations struct {
		Brands struct {
			Buckets []struct {
				Key string `json:"key"`
			} `json:"buckets"`
		} `json:"brands"`
	} `json:"aggregations"`
}

// esCategoriesResponse decodes the nested level/name aggregation.
type esCategoriesResponse struct {
	Aggregations struct {
		CategoriesNested struct {
			Levels struct {
				Buckets []esLevelBucket `json:"buckets"`
			} `json:"levels"`
		} `json:"categories_nested"`
	} `json:"aggregations"`
}

type esLevelBucket struct {
	Key   int `json:"key"`
	Names struct {
		Buckets []struct {
			Key string `json:"key"`
		} `json:"buckets"`
	} `json:"names"`
}

// Brands returns the distinct brand names across the whole catalog.
func (e *Engine) Brands(ctx context.Context) ([]string, error) {
	body, err := json.Marshal(buildBrandsAggQuery())
	if err != nil {
		return nil, fmt.Errorf("elasticsearch brands: marshal query: %w", err)
	}

	res, err := e.client.Search(
		e.client.Search.WithIndex(e.indexName),
		e.client.Search.WithBody(bytes.NewReader(body)),
		e.client.Search.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch brands: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return nil, e.responseError("brands", res.Body, res.Status())
	}

	var esResp esBrandsResponse
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, fmt.Errorf("elasticsearch brands: decode response: %w", err)
	}

	keys := make([]string, 0, len(esResp.Aggregations.Brands.Buckets))
	for _, bucket := range esResp.Aggregations.Brands.Buckets {
		keys = append(keys, bucket.Key)
	}

	return resolveBrandKeys(keys), nil
}

// Categories returns category names grouped by level across the catalog.
func (e *Engine) Categories(ctx context.Context) ([]domain.CategoryGroup, error) {
	body, err := json.Marshal(buildCategoriesAggQuery())
	if err != nil {
		return nil, fmt.Errorf("elasticsearch categories: marshal query: %w", err)
	}

	res, err := e.client.Search(
		e.client.Search.WithIndex(e.indexName),
		e.client.Search.WithBody(bytes.NewReader(body)),
		e.client.Search.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch categories: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return nil, e.responseError("categories", res.Body, res.Status())
	}

	var esResp esCategoriesResponse
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, fmt.Errorf("elasticsearch categories: decode response: %w", err)
	}

	return resolveCategoryBuckets(esResp.Aggregations.CategoriesNested.Levels.Buckets), nil
}

// resolveBrandKeys drops blank bucket keys, deduplicates case-insensitively
// keeping the first occurrence, and sorts case-sensitively ascending.
func resolveBrandKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	brands := make([]string, 0, len(keys))
	for _, key := range keys {
		if strings.TrimSpace(key) == "" {
			continue
		}
		folded := strings.ToLower(key)
		if _, dup := seen[folded]; dup {
			continue
		}
		seen[folded] = struct{}{}
		brands = append(brands, key)
	}
	sort.Strings(brands)
	return brands
}

// resolveCategoryBuckets turns level buckets into CategoryGroups ordered
// ascending by level. Within a group names are deduplicated case-insensitively
// and sorted ascending; groups left with no names are dropped.
func resolveCategoryBuckets(buckets []esLevelBucket) []domain.CategoryGroup {
	sorted := make([]esLevelBucket, len(buckets))
	copy(sorted, buckets)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	groups := make([]domain.CategoryGroup, 0, len(sorted))
	for _, bucket := range sorted {
		keys := make([]string, 0, len(bucket.Names.Buckets))
		for _, name := range bucket.Names.Buckets {
			keys = append(keys, name.Key)
		}
		names := resolveBrandKeys(keys)
		if len(names) == 0 {
			continue
		}
		groups = append(groups, domain.CategoryGroup{Level: bucket.Key, Categories: names})
	}
	return groups
}
