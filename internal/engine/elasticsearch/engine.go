package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/enricorticelli/elasticsearch-ecommerce-demo/internal/domain"
	apperrors "github.com/enricorticelli/elasticsearch-ecommerce-demo/pkg/errors"
)

// Engine is an Elasticsearch-backed implementation of engine.ProductIndex.
type Engine struct {
	client    *elasticsearch.Client
	indexName string
	logger    *slog.Logger
}

// esErrorResponse is used to decode Elasticsearch error responses.
type esErrorResponse struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
	Status int `json:"status"`
}

// esSearchResponse decodes a search response with typed product sources and
// the min/max price aggregation pair. Aggregation values are pointers because
// the backend reports null over an empty filtered set.
type esSearchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source domain.Product `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
	Aggregations struct {
		MinPrice struct {
			Value *float64 `json:"value"`
		} `json:"min_price"`
		MaxPrice struct {
			Value *float64 `json:"value"`
		} `json:"max_price"`
	} `json:"aggregations"`
}

// esBulkResponse decodes a bulk response to surface per-item write errors.
type esBulkResponse struct {
	Errors bool `json:"errors"`
	Items  []struct {
		Index struct {
			ID     string `json:"_id"`
			Status int    `json:"status"`
			Error  struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"error"`
		} `json:"index"`
	} `json:"items"`
}

// esGetResponse decodes a get-by-identifier response.
type esGetResponse struct {
	Found  bool           `json:"found"`
	Source domain.Product `json:"_source"`
}

// New creates an Elasticsearch engine for the given URL and index name.
// If indexName is empty, DefaultIndexName ("products") is used.
func New(esURL, indexName string, logger *slog.Logger) (*Engine, error) {
	if indexName == "" {
		indexName = DefaultIndexName
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{esURL},
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: failed to create client: %w", err)
	}

	return &Engine{
		client:    client,
		indexName: indexName,
		logger:    logger,
	}, nil
}

// Ping checks whether the Elasticsearch cluster is reachable.
func (e *Engine) Ping(ctx context.Context) error {
	res, err := e.client.Ping(e.client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping: unexpected status %s", res.Status())
	}
	return nil
}

// IndexExists reports whether the product index exists.
func (e *Engine) IndexExists(ctx context.Context) (bool, error) {
	res, err := e.client.Indices.Exists(
		[]string{e.indexName},
		e.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return false, apperrors.Unavailable("elasticsearch", fmt.Errorf("index exists: %w", err))
	}
	defer func() { _ = res.Body.Close() }()

	return res.StatusCode == 200, nil
}

// CreateIndex declares the product schema.
func (e *Engine) CreateIndex(ctx context.Context) error {
	res, err := e.client.Indices.Create(
		e.indexName,
		e.client.Indices.Create.WithBody(strings.NewReader(buildIndexMapping())),
		e.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return apperrors.Unavailable("elasticsearch", fmt.Errorf("create index: %w", err))
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return e.responseError("create index", res.Body, res.Status())
	}

	e.logger.Info("elasticsearch index created", "index", e.indexName)
	return nil
}

// DeleteIndex removes the index. A 404 is treated as success.
func (e *Engine) DeleteIndex(ctx context.Context) error {
	res, err := e.client.Indices.Delete(
		[]string{e.indexName},
		e.client.Indices.Delete.WithContext(ctx),
	)
	if err != nil {
		return apperrors.Unavailable("elasticsearch", fmt.Errorf("delete index: %w", err))
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() && res.StatusCode != 404 {
		return e.responseError("delete index", res.Body, res.Status())
	}

	e.logger.Info("elasticsearch index deleted", "index", e.indexName)
	return nil
}

// Refresh forces freshly written documents to become visible to reads.
func (e *Engine) Refresh(ctx context.Context) error {
	res, err := e.client.Indices.Refresh(
		e.client.Indices.Refresh.WithIndex(e.indexName),
		e.client.Indices.Refresh.WithContext(ctx),
	)
	if err != nil {
		return apperrors.Unavailable("elasticsearch", fmt.Errorf("refresh: %w", err))
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return e.responseError("refresh", res.Body, res.Status())
	}
	return nil
}

// BulkInsert writes the given products in a single bulk NDJSON round-trip.
// Any item-level write error fails the whole call with the backend's reason.
func (e *Engine) BulkInsert(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for i := range products {
		action := map[string]interface{}{
			"index": map[string]interface{}{
				"_index": e.indexName,
				"_id":    products[i].ID,
			},
		}
		if err := json.NewEncoder(&buf).Encode(action); err != nil {
			return fmt.Errorf("elasticsearch bulk insert: encode action: %w", err)
		}
		if err := json.NewEncoder(&buf).Encode(products[i]); err != nil {
			return fmt.Errorf("elasticsearch bulk insert: encode document: %w", err)
		}
	}

	res, err := e.client.Bulk(
		bytes.NewReader(buf.Bytes()),
		e.client.Bulk.WithIndex(e.indexName),
		e.client.Bulk.WithContext(ctx),
	)
	if err != nil {
		return apperrors.Unavailable("elasticsearch", fmt.Errorf("bulk insert: %w", err))
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return e.responseError("bulk insert", res.Body, res.Status())
	}

	var bulkResp esBulkResponse
	if err := json.NewDecoder(res.Body).Decode(&bulkResp); err != nil {
		return fmt.Errorf("elasticsearch bulk insert: decode response: %w", err)
	}

	if bulkResp.Errors {
		var reasons []string
		for _, item := range bulkResp.Items {
			if item.Index.Error.Type != "" {
				reasons = append(reasons, fmt.Sprintf("id=%s: %s — %s", item.Index.ID, item.Index.Error.Type, item.Index.Error.Reason))
			}
		}
		return apperrors.Unavailable("elasticsearch", fmt.Errorf("bulk insert: item errors: %s", strings.Join(reasons, "; ")))
	}

	e.logger.Debug("bulk inserted products", "count", len(products))
	return nil
}

// Search executes the query plan built from q. Totals are tracked exactly
// because pagination correctness depends on them.
func (e *Engine) Search(ctx context.Context, q *domain.SearchQuery) (*domain.SearchResult, error) {
	body, err := json.Marshal(buildSearchQuery(q))
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search: marshal query: %w", err)
	}

	res, err := e.client.Search(
		e.client.Search.WithIndex(e.indexName),
		e.client.Search.WithBody(bytes.NewReader(body)),
		e.client.Search.WithContext(ctx),
		e.client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, apperrors.Unavailable("elasticsearch", fmt.Errorf("search: %w", err))
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return nil, e.responseError("search", res.Body, res.Status())
	}

	var esResp esSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, fmt.Errorf("elasticsearch search: decode response: %w", err)
	}

	items := make([]domain.Product, 0, len(esResp.Hits.Hits))
	for _, hit := range esResp.Hits.Hits {
		items = append(items, hit.Source)
	}

	return &domain.SearchResult{
		Total:    esResp.Hits.Total.Value,
		Page:     q.Page,
		PageSize: q.PageSize,
		MinPrice: esResp.Aggregations.MinPrice.Value,
		MaxPrice: esResp.Aggregations.MaxPrice.Value,
		Items:    items,
	}, nil
}

// GetByID fetches a product document by identifier.
func (e *Engine) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	res, err := e.client.Get(
		e.indexName,
		id,
		e.client.Get.WithContext(ctx),
	)
	if err != nil {
		return nil, apperrors.Unavailable("elasticsearch", fmt.Errorf("get: %w", err))
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode == 404 {
		return nil, apperrors.NotFound("product", id)
	}
	if res.IsError() {
		return nil, e.responseError("get", res.Body, res.Status())
	}

	var getResp esGetResponse
	if err := json.NewDecoder(res.Body).Decode(&getResp); err != nil {
		return nil, fmt.Errorf("elasticsearch get: decode response: %w", err)
	}
	if !getResp.Found {
		return nil, apperrors.NotFound("product", id)
	}

	return &getResp.Source, nil
}

// responseError decodes the backend's error payload into a 502 carrying the
// reported reason, falling back to the HTTP status.
func (e *Engine) responseError(op string, body io.Reader, status string) error {
	var errResp esErrorResponse
	if decErr := json.NewDecoder(body).Decode(&errResp); decErr == nil && errResp.Error.Type != "" {
		return apperrors.Unavailable("elasticsearch", fmt.Errorf("%s: %s — %s", op, errResp.Error.Type, errResp.Error.Reason))
	}
	return apperrors.Unavailable("elasticsearch", fmt.Errorf("%s: unexpected status %s", op, status))
}
