package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/enricorticelli/elasticsearch-ecommerce-demo/internal/domain"
	"github.com/enricorticelli/elasticsearch-ecommerce-demo/internal/fields"
)

// esAutocompleteResponse decodes autocomplete hits. Sources stay raw so one
// undeserializable document can be skipped without failing the whole call.
type esAutocompleteResponse struct {
	Hits struct {
		Hits []struct {
			Source    json.RawMessage     `json:"_source"`
			Highlight map[string][]string `json:"highlight"`
		} `json:"hits"`
	} `json:"hits"`
}

// Autocomplete returns up to size ranked prefix matches for text, each with
// the best highlighted fragment the backend produced.
func (e *Engine) Autocomplete(ctx context.Context, text string, size int) ([]domain.AutocompleteHit, error) {
	body, err := json.Marshal(buildAutocompleteQuery(text, size))
	if err != nil {
		return nil, fmt.Errorf("elasticsearch autocomplete: marshal query: %w", err)
	}

	res, err := e.client.Search(
		e.client.Search.WithIndex(e.indexName),
		e.client.Search.WithBody(bytes.NewReader(body)),
		e.client.Search.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch autocomplete: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return nil, e.responseError("autocomplete", res.Body, res.Status())
	}

	var esResp esAutocompleteResponse
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, fmt.Errorf("elasticsearch autocomplete: decode response: %w", err)
	}

	hits := make([]domain.AutocompleteHit, 0, len(esResp.Hits.Hits))
	for _, hit := range esResp.Hits.Hits {
		var product domain.Product
		if err := json.Unmarshal(hit.Source, &product); err != nil {
			// The index is the source of truth; a hit that no longer
			// deserializes is dropped rather than failing the request.
			e.logger.Warn("autocomplete hit dropped: undeserializable source", "error", err)
			continue
		}
		hits = append(hits, domain.AutocompleteHit{
			Product:   product,
			Highlight: extractHighlight(hit.Highlight),
		})
	}

	return hits, nil
}

// extractHighlight prefers a name fragment, falls back to a brand fragment,
// and returns "" when neither field produced one.
func extractHighlight(highlight map[string][]string) string {
	if frags := highlight[fields.Name]; len(frags) > 0 {
		return frags[0]
	}
	if frags := highlight[fields.Brand]; len(frags) > 0 {
		return frags[0]
	}
	return ""
}
