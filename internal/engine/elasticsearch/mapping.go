package elasticsearch

// DefaultIndexName is the default Elasticsearch index for product documents.
const DefaultIndexName = "products"

// buildIndexMapping returns the JSON schema for the product index.
//
// name carries two sub-fields: "keyword" (verbatim, used for title sorting)
// and "autocomplete" (edge n-gram, used for search-as-you-type matching).
// brand and categories.name carry a "keyword" sub-field for exact filters and
// facet bucketing. categories is a nested array so that name/level pairs are
// queried and aggregated as a unit rather than as flattened scalars.
func buildIndexMapping() string {
	return `{
  "settings": {
    "number_of_shards": 1,
    "number_of_replicas": 0,
    "analysis": {
      "analyzer": {
        "autocomplete_analyzer": {
          "type": "custom",
          "tokenizer": "autocomplete_tokenizer",
          "filter": ["lowercase"]
        },
        "autocomplete_search": {
          "type": "custom",
          "tokenizer": "standard",
          "filter": ["lowercase"]
        }
      },
      "tokenizer": {
        "autocomplete_tokenizer": {
          "type": "edge_ngram",
          "min_gram": 2,
          "max_gram": 20,
          "token_chars": ["letter", "digit"]
        }
      }
    }
  },
  "mappings": {
    "properties": {
      "id":          { "type": "keyword" },
      "name":        { "type": "text", "fields": { "keyword": { "type": "keyword", "ignore_above": 256 }, "autocomplete": { "type": "text", "analyzer": "autocomplete_analyzer", "search_analyzer": "autocomplete_search" } } },
      "description": { "type": "text" },
      "price":       { "type": "float" },
      "brand":       { "type": "text", "fields": { "keyword": { "type": "keyword" } } },
      "categories":  { "type": "nested", "properties": { "name": { "type": "text", "fields": { "keyword": { "type": "keyword" } } }, "level": { "type": "integer" } } },
      "stock":       { "type": "integer" },
      "imageUrl":    { "type": "keyword", "index": false },
      "createdAt":   { "type": "date" }
    }
  }
}`
}
