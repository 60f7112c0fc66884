// Package outbound defines the interfaces for outbound ports (secondary/driven
// adapters): persistence and caching that the application layer depends on.
package outbound

import (
	"context"
	"time"

	"github.com/foodgram/v2/internal/domain/catalog"
	"github.com/foodgram/v2/internal/domain/shopping"
	"github.com/foodgram/v2/internal/domain/user"
	"github.com/google/uuid"
)

// ListFilter selects a recipe collection before pagination is applied.
// An empty TagSlugs set matches every recipe; a non-empty set matches recipes
// whose tag set intersects it (OR semantics), deduplicated. Implementations
// must return a stable, deterministic order so pagination is repeatable.
type ListFilter struct {
	TagSlugs    []string
	AuthorID    *uuid.UUID
	FavoritedBy *uuid.UUID
	PurchasedBy *uuid.UUID
	Offset      int
	Limit       int
}

// RecipeRepository defines the interface for recipe persistence.
// Find methods return (nil, nil) when the recipe does not exist.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *catalog.Recipe) error
	Update(ctx context.Context, recipe *catalog.Recipe) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*catalog.Recipe, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, filter ListFilter) ([]*catalog.Recipe, int, error)
}

// ProductRepository defines the interface for the ingredient master catalog
type ProductRepository interface {
	Create(ctx context.Context, product catalog.Product) error
	FindByTitle(ctx context.Context, title string) (*catalog.Product, error)
	SearchByPrefix(ctx context.Context, prefix string, limit int) ([]catalog.Product, error)
}

// TagRepository defines the interface for tag persistence
type TagRepository interface {
	Create(ctx context.Context, tag catalog.Tag) error
	All(ctx context.Context) ([]catalog.Tag, error)
	FindBySlugs(ctx context.Context, slugs []string) ([]catalog.Tag, error)
}

// UserRepository defines the interface for user persistence.
// Find methods return (nil, nil) when the user does not exist.
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	FindByUsername(ctx context.Context, username string) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// MembershipKind discriminates the two recipe membership sets
type MembershipKind string

// Membership kinds
const (
	MembershipFavorite MembershipKind = "favorite"
	MembershipPurchase MembershipKind = "purchase"
)

// MembershipRepository is the keyed set abstraction over favorites and
// purchases: membership is a (user, recipe) pair guarded by a storage-level
// uniqueness constraint. Add reports false when the pair already existed;
// Remove reports false when it did not exist. Neither is an error.
type MembershipRepository interface {
	Add(ctx context.Context, kind MembershipKind, userID, recipeID uuid.UUID) (bool, error)
	Remove(ctx context.Context, kind MembershipKind, userID, recipeID uuid.UUID) (bool, error)
	Contains(ctx context.Context, kind MembershipKind, userID, recipeID uuid.UUID) (bool, error)
	Count(ctx context.Context, kind MembershipKind, userID uuid.UUID) (int64, error)
	// PurchasedLines returns the raw ingredient lines of every recipe in the
	// user's purchase set, ready for shopping-list aggregation.
	PurchasedLines(ctx context.Context, userID uuid.UUID) ([]shopping.Line, error)
}

// AuthorListing pairs a subscribed author with their recipe count
type AuthorListing struct {
	Author      *user.User
	RecipeCount int
}

// SubscriptionRepository persists user-follows-author pairs with the same
// add/remove reporting semantics as MembershipRepository.
type SubscriptionRepository interface {
	Add(ctx context.Context, userID, authorID uuid.UUID) (bool, error)
	Remove(ctx context.Context, userID, authorID uuid.UUID) (bool, error)
	Exists(ctx context.Context, userID, authorID uuid.UUID) (bool, error)
	// Authors lists subscribed authors ordered by username with recipe counts
	Authors(ctx context.Context, userID uuid.UUID, offset, limit int) ([]AuthorListing, int, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
