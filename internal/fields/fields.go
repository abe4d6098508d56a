// Package fields maps logical product attributes to the physical field
// identifiers used by the search backend. The mapping is a static table built
// once at package init; field names match the lower-camel JSON keys of the
// indexed documents.
package fields

// KeywordSuffix selects the non-tokenized sub-field of a text field. The
// backend matches it verbatim, which is what filters, sorts, and facet
// bucketing need.
const KeywordSuffix = ".keyword"

// productFields is the attribute → field identifier table for Product.
var productFields = map[string]string{
	"ID":          "id",
	"Name":        "name",
	"Description": "description",
	"Price":       "price",
	"Brand":       "brand",
	"Categories":  "categories",
	"Stock":       "stock",
	"ImageURL":    "imageUrl",
	"CreatedAt":   "createdAt",
}

// categoryFields is the attribute → field identifier table for CategoryNode.
var categoryFields = map[string]string{
	"Name":  "name",
	"Level": "level",
}

// Field returns the backend field identifier for a Product attribute, or ""
// for an unknown attribute.
func Field(attribute string) string {
	return productFields[attribute]
}

// Keyword returns the exact-match variant of a field identifier.
func Keyword(field string) string {
	return field + KeywordSuffix
}

// Nested returns the dot-joined path of a field inside a nested sub-document.
func Nested(parent, child string) string {
	return parent + "." + child
}

// NestedKeyword returns the exact-match variant of a nested field path.
func NestedKeyword(parent, child string) string {
	return Keyword(Nested(parent, child))
}

// Precomputed identifiers for every Product attribute, so query and
// aggregation builders never spell field names inline.
var (
	ID          = Field("ID")
	Name        = Field("Name")
	NameKeyword = Keyword(Name)
	// NameAutocomplete is the edge n-gram sub-field used for prefix matching.
	NameAutocomplete = Name + ".autocomplete"
	Description      = Field("Description")
	Price            = Field("Price")
	Brand            = Field("Brand")
	BrandKeyword     = Keyword(Brand)
	Stock            = Field("Stock")
	ImageURL         = Field("ImageURL")
	CreatedAt        = Field("CreatedAt")

	Categories            = Field("Categories")
	CategoriesName        = Nested(Categories, categoryFields["Name"])
	CategoriesNameKeyword = NestedKeyword(Categories, categoryFields["Name"])
	CategoriesLevel       = Nested(Categories, categoryFields["Level"])
)
