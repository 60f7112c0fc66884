package handlers

import (
	"net/http"

	"github.com/foodgram/v2/internal/infrastructure/http/middleware"
	"github.com/foodgram/v2/internal/infrastructure/monitoring"
	"github.com/foodgram/v2/internal/ports/inbound"
	"go.uber.org/zap"
)

// ShoppingHandler serves the shopping-list download
type ShoppingHandler struct {
	shopping inbound.ShoppingService
	metrics  *monitoring.Metrics
	logger   *zap.Logger
}

// NewShoppingHandler creates a new shopping handler
func NewShoppingHandler(shopping inbound.ShoppingService, metrics *monitoring.Metrics, logger *zap.Logger) *ShoppingHandler {
	return &ShoppingHandler{
		shopping: shopping,
		metrics:  metrics,
		logger:   logger.Named("shopping-handler"),
	}
}

// Download handles GET /purchases/download, serving the aggregated list as a
// plain-text attachment. An empty purchase set yields a 400, never an empty
// file.
func (h *ShoppingHandler) Download(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	text, err := h.shopping.BuildList(r.Context(), session.UserID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.metrics.ShoppingListBuilds.Inc()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}
