package handlers

import (
	"net/http"

	"github.com/foodgram/v2/internal/ports/inbound"
	"go.uber.org/zap"
)

// ProductHandler serves the ingredient typeahead query
type ProductHandler struct {
	catalog inbound.CatalogService
	logger  *zap.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(catalog inbound.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		logger:  logger.Named("product-handler"),
	}
}

// Search handles GET /ingredients?query=, returning a bare JSON array of
// matching {title, unit} catalog entries.
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.SearchProducts(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if products == nil {
		products = []inbound.ProductDTO{}
	}
	writeJSON(w, http.StatusOK, products)
}
