package gorm

import (
	"context"
	"fmt"

	"github.com/foodgram/v2/internal/domain/shopping"
	"github.com/foodgram/v2/internal/ports/outbound"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MembershipRepository implements outbound.MembershipRepository over the
// favorites and purchases tables. Both rely on a composite primary key, so
// concurrent adds of the same pair collapse to one row: the insert runs with
// ON CONFLICT DO NOTHING and the affected-row count reports whether this
// call was the one that changed state.
type MembershipRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewMembershipRepository creates a new GORM membership repository
func NewMembershipRepository(db *gorm.DB, logger *zap.Logger) outbound.MembershipRepository {
	return &MembershipRepository{
		db:     db,
		logger: logger.Named("membership-repository"),
	}
}

// Add inserts the pair, reporting false when it already existed
func (r *MembershipRepository) Add(ctx context.Context, kind outbound.MembershipKind, userID, recipeID uuid.UUID) (bool, error) {
	var result *gorm.DB
	switch kind {
	case outbound.MembershipFavorite:
		result = r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
			Create(&FavoriteModel{UserID: userID, RecipeID: recipeID})
	case outbound.MembershipPurchase:
		result = r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
			Create(&PurchaseModel{UserID: userID, RecipeID: recipeID})
	default:
		return false, fmt.Errorf("unknown membership kind: %s", kind)
	}
	if result.Error != nil {
		return false, fmt.Errorf("failed to add %s: %w", kind, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Remove deletes the pair, reporting false when it did not exist
func (r *MembershipRepository) Remove(ctx context.Context, kind outbound.MembershipKind, userID, recipeID uuid.UUID) (bool, error) {
	var result *gorm.DB
	switch kind {
	case outbound.MembershipFavorite:
		result = r.db.WithContext(ctx).
			Where("user_id = ? AND recipe_id = ?", userID, recipeID).
			Delete(&FavoriteModel{})
	case outbound.MembershipPurchase:
		result = r.db.WithContext(ctx).
			Where("user_id = ? AND recipe_id = ?", userID, recipeID).
			Delete(&PurchaseModel{})
	default:
		return false, fmt.Errorf("unknown membership kind: %s", kind)
	}
	if result.Error != nil {
		return false, fmt.Errorf("failed to remove %s: %w", kind, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Contains reports whether the pair exists
func (r *MembershipRepository) Contains(ctx context.Context, kind outbound.MembershipKind, userID, recipeID uuid.UUID) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx)
	switch kind {
	case outbound.MembershipFavorite:
		q = q.Model(&FavoriteModel{})
	case outbound.MembershipPurchase:
		q = q.Model(&PurchaseModel{})
	default:
		return false, fmt.Errorf("unknown membership kind: %s", kind)
	}
	err := q.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", kind, err)
	}
	return count > 0, nil
}

// Count returns the size of the user's membership set
func (r *MembershipRepository) Count(ctx context.Context, kind outbound.MembershipKind, userID uuid.UUID) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx)
	switch kind {
	case outbound.MembershipFavorite:
		q = q.Model(&FavoriteModel{})
	case outbound.MembershipPurchase:
		q = q.Model(&PurchaseModel{})
	default:
		return 0, fmt.Errorf("unknown membership kind: %s", kind)
	}
	if err := q.Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", kind, err)
	}
	return count, nil
}

// PurchasedLines returns the raw ingredient lines of every purchased recipe.
// Aggregation happens in the domain layer so amounts stay decimal-exact.
func (r *MembershipRepository) PurchasedLines(ctx context.Context, userID uuid.UUID) ([]shopping.Line, error) {
	type row struct {
		Title  string
		Unit   string
		Amount decimal.Decimal
	}

	var rows []row
	err := r.db.WithContext(ctx).Raw(`
		SELECT products.title AS title, products.unit AS unit, ingredients.amount AS amount
		FROM purchases
		JOIN ingredients ON ingredients.recipe_id = purchases.recipe_id
		JOIN products ON products.id = ingredients.product_id
		WHERE purchases.user_id = ?`, userID).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load purchased lines: %w", err)
	}

	lines := make([]shopping.Line, 0, len(rows))
	for _, rw := range rows {
		lines = append(lines, shopping.Line{Title: rw.Title, Unit: rw.Unit, Amount: rw.Amount})
	}
	return lines, nil
}
