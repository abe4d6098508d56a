package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/enricorticelli/elasticsearch-ecommerce-demo/internal/domain"
	"github.com/enricorticelli/elasticsearch-ecommerce-demo/internal/service"
	"github.com/enricorticelli/elasticsearch-ecommerce-demo/pkg/httputil"
	"github.com/enricorticelli/elasticsearch-ecommerce-demo/pkg/pagination"
	"github.com/enricorticelli/elasticsearch-ecommerce-demo/pkg/validator"
)

// SearchHandler handles HTTP requests for the catalog search endpoints.
type SearchHandler struct {
	service          *service.SearchService
	seedDefaultCount int
	logger           *slog.Logger
}

// NewSearchHandler creates a new search HTTP handler.
func NewSearchHandler(svc *service.SearchService, seedDefaultCount int, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		service:          svc,
		seedDefaultCount: seedDefaultCount,
		logger:           logger,
	}
}

// --- Request DTOs ---

// SeedParams carries the validated query parameters of the seed endpoint.
type SeedParams struct {
	Count int `validate:"gte=1,lte=100000"`
}

// --- Response DTOs ---

// SuggestionResponse is one autocomplete entry: the matched product plus an
// HTML fragment with the matched term wrapped in <em> tags.
type SuggestionResponse struct {
	Product        domain.Product `json:"product"`
	SuggestionHTML string         `json:"suggestionHtml"`
}

// --- Handlers ---

// Search handles GET /api/products/search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	query := &domain.SearchQuery{
		Query:    strings.TrimSpace(r.URL.Query().Get("q")),
		SortBy:   r.URL.Query().Get("sort"),
		Page:     params.Page,
		PageSize: params.PageSize,
	}

	if v := r.URL.Query().Get("brand"); v != "" {
		query.Brand = &v
	}
	if v := r.URL.Query().Get("category"); v != "" {
		query.Category = &v
	}
	if v := r.URL.Query().Get("minPrice"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "minPrice must be a valid number"},
			})
			return
		}
		query.MinPrice = &price
	}
	if v := r.URL.Query().Get("maxPrice"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "maxPrice must be a valid number"},
			})
			return
		}
		query.MaxPrice = &price
	}

	result, err := h.service.Search(r.Context(), query)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// Autocomplete handles GET /api/products/autocomplete
func (h *SearchHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("q")

	size := 6
	if v := r.URL.Query().Get("size"); v != "" {
		s, err := strconv.Atoi(v)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "size must be a valid number"},
			})
			return
		}
		size = s
	}

	hits, err := h.service.Autocomplete(r.Context(), text, size)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	suggestions := make([]SuggestionResponse, 0, len(hits))
	for _, hit := range hits {
		suggestions = append(suggestions, SuggestionResponse{
			Product:        hit.Product,
			SuggestionHTML: hit.Highlight,
		})
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: suggestions})
}

// GetProduct handles GET /api/products/{id}
func (h *SearchHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// Brands handles GET /api/brands
func (h *SearchHandler) Brands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.service.Brands(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: brands})
}

// Categories handles GET /api/categories
func (h *SearchHandler) Categories(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.Categories(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: groups})
}

// Init handles POST /api/init
func (h *SearchHandler) Init(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Initialize(r.Context()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "initialized"}})
}

// Seed handles POST /api/seed
func (h *SearchHandler) Seed(w http.ResponseWriter, r *http.Request) {
	count := h.seedDefaultCount
	if v := r.URL.Query().Get("count"); v != "" {
		c, err := strconv.Atoi(v)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "count must be a valid number"},
			})
			return
		}
		count = c
	}

	if err := validator.Validate(SeedParams{Count: count}); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.service.Seed(r.Context(), count); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{"seeded": count, "status": "ok"}})
}
