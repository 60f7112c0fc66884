package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/foodgram/v2/internal/infrastructure/http/middleware"
	"github.com/foodgram/v2/internal/infrastructure/monitoring"
	"github.com/foodgram/v2/internal/ports/inbound"
	apperrors "github.com/foodgram/v2/pkg/errors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// toggleRequest is the add body for every toggle relation
type toggleRequest struct {
	ID uuid.UUID `json:"id"`
}

// RelationHandler serves the toggle relations: favorites, purchases, and
// subscriptions. Add and remove always answer {"success": bool}; a repeated
// operation reports false with a 200, never an error.
type RelationHandler struct {
	relations inbound.RelationService
	metrics   *monitoring.Metrics
	logger    *zap.Logger
}

// NewRelationHandler creates a new relation handler
func NewRelationHandler(relations inbound.RelationService, metrics *monitoring.Metrics, logger *zap.Logger) *RelationHandler {
	return &RelationHandler{
		relations: relations,
		metrics:   metrics,
		logger:    logger.Named("relation-handler"),
	}
}

// AddFavorite handles POST /favorites
func (h *RelationHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	h.add(w, r, "favorite", h.relations.AddFavorite)
}

// RemoveFavorite handles DELETE /favorites/{id}
func (h *RelationHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, "favorite", h.relations.RemoveFavorite)
}

// AddPurchase handles POST /purchases
func (h *RelationHandler) AddPurchase(w http.ResponseWriter, r *http.Request) {
	h.add(w, r, "purchase", h.relations.AddPurchase)
}

// RemovePurchase handles DELETE /purchases/{id}
func (h *RelationHandler) RemovePurchase(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, "purchase", h.relations.RemovePurchase)
}

// AddSubscription handles POST /subscriptions
func (h *RelationHandler) AddSubscription(w http.ResponseWriter, r *http.Request) {
	h.add(w, r, "subscription", h.relations.Subscribe)
}

// RemoveSubscription handles DELETE /subscriptions/{id}
func (h *RelationHandler) RemoveSubscription(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, "subscription", h.relations.Unsubscribe)
}

// ListSubscriptions handles GET /subscriptions
func (h *RelationHandler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			page = parsed
		}
	}

	authors, err := h.relations.ListSubscriptions(r.Context(), session.UserID, page)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, authors)
}

func (h *RelationHandler) add(w http.ResponseWriter, r *http.Request, kind string, op func(context.Context, uuid.UUID, uuid.UUID) (bool, error)) {
	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == uuid.Nil {
		writeError(w, r, h.logger, apperrors.NewBadRequestError("invalid request body"))
		return
	}
	h.toggle(w, r, kind, "add", req.ID, op)
}

func (h *RelationHandler) remove(w http.ResponseWriter, r *http.Request, kind string, op func(context.Context, uuid.UUID, uuid.UUID) (bool, error)) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, apperrors.NewBadRequestError("invalid id"))
		return
	}
	h.toggle(w, r, kind, "remove", id, op)
}

func (h *RelationHandler) toggle(w http.ResponseWriter, r *http.Request, kind, direction string, targetID uuid.UUID, op func(context.Context, uuid.UUID, uuid.UUID) (bool, error)) {
	session := middleware.SessionFromContext(r.Context())

	changed, err := op(r.Context(), session.UserID, targetID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.metrics.RelationToggles.WithLabelValues(kind, direction, strconv.FormatBool(changed)).Inc()
	writeJSON(w, http.StatusOK, successResponse{Success: changed})
}
