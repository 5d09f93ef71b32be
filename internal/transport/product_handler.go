package transport

import (
	"net/http"
	"strconv"

	"seo-optimizer/internal/domain"
	"seo-optimizer/internal/middleware"
	"seo-optimizer/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxListLimit is the largest page the catalog API accepts
const maxListLimit = 250

// EmptyCatalogMessage is shown instead of an empty table
const EmptyCatalogMessage = "No products found. Add some products to Shopify to get started."

// ProductRow is one line of the dashboard table
type ProductRow struct {
	ID               string `json:"id"`
	LocalID          string `json:"localId"`
	Title            string `json:"title"`
	Status           string `json:"status"`
	StatusTone       string `json:"statusTone"`
	FeaturedImageURL string `json:"featuredImageUrl,omitempty"`
	OptimizeURL      string `json:"optimizeUrl"`
}

// ProductListResponse is the dashboard payload
type ProductListResponse struct {
	Products     []ProductRow `json:"products"`
	Empty        bool         `json:"empty"`
	EmptyMessage string       `json:"emptyMessage,omitempty"`
	Plan         string       `json:"plan"`
}

// ProductHandler serves the product lister
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers the dashboard route
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.ListProducts)
}

// ListProducts handles GET /
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	limit := service.DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxListLimit {
			middleware.RespondWithError(w, http.StatusBadRequest, "limit must be between 1 and 250")
			return
		}
		limit = n
	}

	list, err := h.productService.ListProducts(r.Context(), limit)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}

	response := ProductListResponse{
		Products: make([]ProductRow, 0, len(list.Products)),
		Empty:    list.Empty,
		Plan:     domain.CurrentPlan,
	}
	if list.Empty {
		response.EmptyMessage = EmptyCatalogMessage
	}
	for _, p := range list.Products {
		response.Products = append(response.Products, newProductRow(p))
	}

	middleware.RespondWithJSON(w, http.StatusOK, response)
}

func newProductRow(p *domain.Product) ProductRow {
	return ProductRow{
		ID:               p.ID.ExternalID(),
		LocalID:          p.ID.LocalID(),
		Title:            p.Title,
		Status:           string(p.Status),
		StatusTone:       statusTone(p.Status),
		FeaturedImageURL: p.FeaturedImageURL,
		OptimizeURL:      "/optimize/" + p.ID.LocalID(),
	}
}

func statusTone(status domain.ProductStatus) string {
	if status == domain.ProductStatusActive {
		return "success"
	}
	return "info"
}
