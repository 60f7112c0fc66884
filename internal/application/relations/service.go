// Package relations provides the application layer for the toggle relations:
// favorites, purchases, and author subscriptions.
package relations

import (
	"context"

	"github.com/foodgram/v2/internal/ports/inbound"
	"github.com/foodgram/v2/internal/ports/outbound"
	"github.com/foodgram/v2/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements the toggle relation use cases. Every add/remove reports
// whether state changed; repeating an operation is observed, not rejected.
type Service struct {
	memberships   outbound.MembershipRepository
	subscriptions outbound.SubscriptionRepository
	recipes       outbound.RecipeRepository
	users         outbound.UserRepository
	pageSize      int
	logger        *zap.Logger
}

// NewService creates a new relation service
func NewService(
	memberships outbound.MembershipRepository,
	subscriptions outbound.SubscriptionRepository,
	recipes outbound.RecipeRepository,
	users outbound.UserRepository,
	pageSize int,
	logger *zap.Logger,
) inbound.RelationService {
	return &Service{
		memberships:   memberships,
		subscriptions: subscriptions,
		recipes:       recipes,
		users:         users,
		pageSize:      pageSize,
		logger:        logger.Named("relation-service"),
	}
}

// AddFavorite adds a recipe to the user's favorites
func (s *Service) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	return s.addMembership(ctx, outbound.MembershipFavorite, userID, recipeID)
}

// RemoveFavorite removes a recipe from the user's favorites
func (s *Service) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	return s.removeMembership(ctx, outbound.MembershipFavorite, userID, recipeID)
}

// AddPurchase adds a recipe to the user's purchase set
func (s *Service) AddPurchase(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	return s.addMembership(ctx, outbound.MembershipPurchase, userID, recipeID)
}

// RemovePurchase removes a recipe from the user's purchase set
func (s *Service) RemovePurchase(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	return s.removeMembership(ctx, outbound.MembershipPurchase, userID, recipeID)
}

// PurchaseCount returns the size of the user's purchase set, for the
// navbar counter.
func (s *Service) PurchaseCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.memberships.Count(ctx, outbound.MembershipPurchase, userID)
	if err != nil {
		return 0, errors.NewDatabaseError("count purchases", err)
	}
	return count, nil
}

// Subscribe adds an author to the user's subscriptions. Subscribing to
// yourself is rejected.
func (s *Service) Subscribe(ctx context.Context, userID, authorID uuid.UUID) (bool, error) {
	if userID == authorID {
		return false, errors.NewSelfSubscriptionError()
	}

	exists, err := s.users.Exists(ctx, authorID)
	if err != nil {
		return false, errors.NewDatabaseError("check author existence", err)
	}
	if !exists {
		return false, errors.NewUserNotFoundError(authorID.String())
	}

	changed, err := s.subscriptions.Add(ctx, userID, authorID)
	if err != nil {
		return false, errors.NewDatabaseError("add subscription", err)
	}

	s.logger.Info("Subscription add",
		zap.String("user_id", userID.String()),
		zap.String("author_id", authorID.String()),
		zap.Bool("changed", changed),
	)

	return changed, nil
}

// Unsubscribe removes an author from the user's subscriptions
func (s *Service) Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) (bool, error) {
	changed, err := s.subscriptions.Remove(ctx, userID, authorID)
	if err != nil {
		return false, errors.NewDatabaseError("remove subscription", err)
	}

	s.logger.Info("Subscription remove",
		zap.String("user_id", userID.String()),
		zap.String("author_id", authorID.String()),
		zap.Bool("changed", changed),
	)

	return changed, nil
}

// ListSubscriptions returns one page of the user's subscribed authors,
// ordered by username, each with their recipe count.
func (s *Service) ListSubscriptions(ctx context.Context, userID uuid.UUID, page int) (*inbound.AuthorPage, error) {
	if page < 1 {
		page = 1
	}

	listings, total, err := s.subscriptions.Authors(ctx, userID, (page-1)*s.pageSize, s.pageSize)
	if err != nil {
		return nil, errors.NewDatabaseError("list subscriptions", err)
	}

	authors := make([]inbound.SubscribedAuthorDTO, 0, len(listings))
	for _, l := range listings {
		authors = append(authors, inbound.SubscribedAuthorDTO{
			ID:          l.Author.ID(),
			Username:    l.Author.Username(),
			RecipeCount: l.RecipeCount,
		})
	}

	return &inbound.AuthorPage{
		Authors:    authors,
		Total:      total,
		Page:       page,
		PageSize:   s.pageSize,
		TotalPages: (total + s.pageSize - 1) / s.pageSize,
	}, nil
}

func (s *Service) addMembership(ctx context.Context, kind outbound.MembershipKind, userID, recipeID uuid.UUID) (bool, error) {
	exists, err := s.recipes.Exists(ctx, recipeID)
	if err != nil {
		return false, errors.NewDatabaseError("check recipe existence", err)
	}
	if !exists {
		return false, errors.NewRecipeNotFoundError(recipeID.String())
	}

	changed, err := s.memberships.Add(ctx, kind, userID, recipeID)
	if err != nil {
		return false, errors.NewDatabaseError("add "+string(kind), err)
	}

	s.logger.Info("Membership add",
		zap.String("kind", string(kind)),
		zap.String("user_id", userID.String()),
		zap.String("recipe_id", recipeID.String()),
		zap.Bool("changed", changed),
	)

	return changed, nil
}

func (s *Service) removeMembership(ctx context.Context, kind outbound.MembershipKind, userID, recipeID uuid.UUID) (bool, error) {
	changed, err := s.memberships.Remove(ctx, kind, userID, recipeID)
	if err != nil {
		return false, errors.NewDatabaseError("remove "+string(kind), err)
	}

	s.logger.Info("Membership remove",
		zap.String("kind", string(kind)),
		zap.String("user_id", userID.String()),
		zap.String("recipe_id", recipeID.String()),
		zap.Bool("changed", changed),
	)

	return changed, nil
}
