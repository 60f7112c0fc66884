package gorm

import (
	"context"
	"fmt"
	"time"

	"github.com/foodgram/v2/internal/domain/user"
	"github.com/foodgram/v2/internal/ports/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubscriptionRepository implements outbound.SubscriptionRepository using GORM
type SubscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new GORM subscription repository
func NewSubscriptionRepository(db *gorm.DB) outbound.SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Add inserts the follow pair, reporting false when it already existed
func (r *SubscriptionRepository) Add(ctx context.Context, userID, authorID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&SubscriptionModel{UserID: userID, AuthorID: authorID})
	if result.Error != nil {
		return false, fmt.Errorf("failed to add subscription: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Remove deletes the follow pair, reporting false when it did not exist
func (r *SubscriptionRepository) Remove(ctx context.Context, userID, authorID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&SubscriptionModel{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to remove subscription: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Exists reports whether the follow pair exists
func (r *SubscriptionRepository) Exists(ctx context.Context, userID, authorID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&SubscriptionModel{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check subscription: %w", err)
	}
	return count > 0, nil
}

// Authors lists the user's subscribed authors ordered by username, each with
// their recipe count, plus the total before pagination.
func (r *SubscriptionRepository) Authors(ctx context.Context, userID uuid.UUID, offset, limit int) ([]outbound.AuthorListing, int, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&SubscriptionModel{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	type row struct {
		ID           uuid.UUID
		Username     string
		Email        string
		PasswordHash string
		Superuser    bool
		CreatedAt    time.Time
		RecipeCount  int
	}

	q := r.db.WithContext(ctx).Table("subscriptions").
		Select(`users.id, users.username, users.email, users.password_hash, users.superuser, users.created_at,
			(SELECT COUNT(*) FROM recipes WHERE recipes.author_id = users.id) AS recipe_count`).
		Joins("JOIN users ON users.id = subscriptions.author_id").
		Where("subscriptions.user_id = ?", userID).
		Order("users.username ASC").
		Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []row
	if err := q.Scan(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list subscribed authors: %w", err)
	}

	listings := make([]outbound.AuthorListing, 0, len(rows))
	for _, rw := range rows {
		listings = append(listings, outbound.AuthorListing{
			Author:      user.Restore(rw.ID, rw.Username, rw.Email, rw.PasswordHash, rw.Superuser, rw.CreatedAt),
			RecipeCount: rw.RecipeCount,
		})
	}
	return listings, int(total), nil
}
