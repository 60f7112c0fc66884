package gorm

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/foodgram/v2/internal/domain/user"
	"github.com/foodgram/v2/internal/ports/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository implements outbound.UserRepository using GORM
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new GORM user repository
func NewUserRepository(db *gorm.DB) outbound.UserRepository {
	return &UserRepository{db: db}
}

// Create persists a new account
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	if err := r.db.WithContext(ctx).Create(userToModel(u)).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByID retrieves a user by ID, (nil, nil) when absent
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByUsername retrieves a user by username, (nil, nil) when absent
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

// FindByEmail retrieves a user by email, (nil, nil) when absent
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// Exists reports whether a user with the given ID exists
func (r *UserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&UserModel{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return count > 0, nil
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg interface{}) (*user.User, error) {
	var model UserModel
	err := r.db.WithContext(ctx).First(&model, query, arg).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return userFromModel(&model), nil
}
