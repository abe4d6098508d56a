package domain

import (
	"time"
)

// Product is a catalog entity as stored in the search index. Products are
// written only through bulk seeding; search and lookup never mutate them.
type Product struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	Brand       string         `json:"brand"`
	Categories  []CategoryNode `json:"categories"`
	Stock       int            `json:"stock"`
	ImageURL    string         `json:"imageUrl"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// CategoryNode is one entry of a product's flat category list. Level 1 nodes
// are top-level categories; level 2 and 3 nodes are children of the node
// selected alongside them. Ancestry is implied by co-occurrence on the same
// product, not enforced by the index schema.
type CategoryNode struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// CategoryGroup is the derived facet grouping of category names by level.
// Never persisted; produced by aggregating the whole catalog.
type CategoryGroup struct {
	Level      int      `json:"level"`
	Categories []string `json:"categories"`
}

// AutocompleteHit pairs a matched product with the highlighted fragment that
// explains the match. Highlight is empty when the backend produced no
// fragment for the name or brand fields.
type AutocompleteHit struct {
	Product   Product `json:"product"`
	Highlight string  `json:"highlight,omitempty"`
}
