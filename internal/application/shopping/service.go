// Package shopping provides the application layer for shopping-list downloads.
package shopping

import (
	"context"

	"github.com/foodgram/v2/internal/domain/shopping"
	"github.com/foodgram/v2/internal/ports/inbound"
	"github.com/foodgram/v2/internal/ports/outbound"
	"github.com/foodgram/v2/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements the shopping-list use case
type Service struct {
	memberships outbound.MembershipRepository
	logger      *zap.Logger
}

// NewService creates a new shopping service
func NewService(memberships outbound.MembershipRepository, logger *zap.Logger) inbound.ShoppingService {
	return &Service{
		memberships: memberships,
		logger:      logger.Named("shopping-service"),
	}
}

// BuildList aggregates the ingredient lines of every purchased recipe into
// the plain-text shopping list. An empty purchase set is a client error,
// never an empty attachment.
func (s *Service) BuildList(ctx context.Context, userID uuid.UUID) (string, error) {
	lines, err := s.memberships.PurchasedLines(ctx, userID)
	if err != nil {
		return "", errors.NewDatabaseError("load purchased ingredients", err)
	}

	list, err := shopping.Build(lines)
	if err != nil {
		return "", errors.NewEmptyShoppingListError()
	}

	s.logger.Info("Shopping list built",
		zap.String("user_id", userID.String()),
		zap.Int("entries", list.Len()),
	)

	return list.Render(), nil
}
