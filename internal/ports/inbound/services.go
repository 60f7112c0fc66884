// Package inbound defines the interfaces for inbound ports (primary/driving
// adapters): the use cases the HTTP layer invokes, plus their commands and DTOs.
package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IngredientInput is one requested ingredient line on recipe create/edit.
// The title must resolve to an existing product in the master catalog.
type IngredientInput struct {
	Title  string          `json:"title" validate:"required"`
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

// CreateRecipeCommand contains the data to create a recipe
type CreateRecipeCommand struct {
	AuthorID    uuid.UUID
	Name        string            `json:"name" validate:"required,max=200"`
	Description string            `json:"description"`
	CookTime    int               `json:"cook_time" validate:"required,gt=0"`
	Image       string            `json:"image"`
	TagSlugs    []string          `json:"tags"`
	Ingredients []IngredientInput `json:"ingredients" validate:"required,min=1,dive"`
}

// UpdateRecipeCommand contains a partial recipe update. Nil fields are left
// unchanged. UserID/Superuser drive the ownership check.
type UpdateRecipeCommand struct {
	RecipeID    uuid.UUID
	UserID      uuid.UUID
	Superuser   bool
	Name        *string            `json:"name" validate:"omitempty,max=200"`
	Description *string            `json:"description"`
	CookTime    *int               `json:"cook_time" validate:"omitempty,gt=0"`
	Image       *string            `json:"image"`
	TagSlugs    *[]string          `json:"tags"`
	Ingredients *[]IngredientInput `json:"ingredients" validate:"omitempty,min=1,dive"`
}

// ListQuery selects a recipe listing page. An empty TagSlugs set means
// "no filter" (every recipe matches). Page is 1-based; values below 1 are
// clamped to 1.
type ListQuery struct {
	TagSlugs []string
	Page     int
}

// TagDTO represents a tag in responses
type TagDTO struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// IngredientDTO represents an ingredient line in responses
type IngredientDTO struct {
	Title  string          `json:"title"`
	Unit   string          `json:"unit"`
	Amount decimal.Decimal `json:"amount"`
}

// ProductDTO is a master catalog entry as returned by the prefix query
type ProductDTO struct {
	Title string `json:"title"`
	Unit  string `json:"unit"`
}

// AuthorDTO identifies a recipe author
type AuthorDTO struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// RecipeDTO represents recipe data in responses
type RecipeDTO struct {
	ID          uuid.UUID       `json:"id"`
	Author      AuthorDTO       `json:"author"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CookTime    int             `json:"cook_time"`
	Image       string          `json:"image,omitempty"`
	Slug        string          `json:"slug"`
	Tags        []TagDTO        `json:"tags"`
	Ingredients []IngredientDTO `json:"ingredients"`
	CreatedAt   time.Time       `json:"created_at"`
}

// RecipePage is one page of a filtered recipe listing. Tags echoes the
// applied filter so pagination links can preserve it.
type RecipePage struct {
	Recipes    []RecipeDTO `json:"recipes"`
	Tags       []string    `json:"tags,omitempty"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// SubscribedAuthorDTO is one entry of the subscriptions listing
type SubscribedAuthorDTO struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	RecipeCount int       `json:"recipe_count"`
}

// AuthorPage is one page of the subscriptions listing
type AuthorPage struct {
	Authors    []SubscribedAuthorDTO `json:"authors"`
	Total      int                   `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}

// CatalogService defines the recipe catalog use cases
type CatalogService interface {
	CreateRecipe(ctx context.Context, cmd CreateRecipeCommand) (*RecipeDTO, error)
	UpdateRecipe(ctx context.Context, cmd UpdateRecipeCommand) (*RecipeDTO, error)
	DeleteRecipe(ctx context.Context, recipeID, userID uuid.UUID, superuser bool) error
	GetRecipe(ctx context.Context, recipeID uuid.UUID) (*RecipeDTO, error)

	ListRecipes(ctx context.Context, q ListQuery) (*RecipePage, error)
	ListByAuthor(ctx context.Context, username string, q ListQuery) (*RecipePage, error)
	ListFavorites(ctx context.Context, userID uuid.UUID, q ListQuery) (*RecipePage, error)
	ListPurchases(ctx context.Context, userID uuid.UUID) ([]RecipeDTO, error)

	SearchProducts(ctx context.Context, prefix string) ([]ProductDTO, error)
	AllTags(ctx context.Context) ([]TagDTO, error)
}

// RelationService defines the toggle relation use cases. Every Add/Remove
// reports whether the membership changed: a repeated add or a remove of an
// absent membership yields false, never an error (idempotent-observe).
type RelationService interface {
	AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
	RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)

	AddPurchase(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
	RemovePurchase(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
	PurchaseCount(ctx context.Context, userID uuid.UUID) (int64, error)

	Subscribe(ctx context.Context, userID, authorID uuid.UUID) (bool, error)
	Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) (bool, error)
	ListSubscriptions(ctx context.Context, userID uuid.UUID, page int) (*AuthorPage, error)
}

// RegisterCommand contains the data to register an account
type RegisterCommand struct {
	Username string `json:"username" validate:"required,max=150"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// UserDTO represents account data in responses
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Superuser bool      `json:"superuser"`
}

// UserService defines the account use cases
type UserService interface {
	Register(ctx context.Context, cmd RegisterCommand) (*UserDTO, error)
	// Authenticate verifies credentials and returns the account, or an
	// invalid-credentials error that never reveals which part was wrong.
	Authenticate(ctx context.Context, username, password string) (*UserDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*UserDTO, error)
}

// ShoppingService defines the shopping-list use case
type ShoppingService interface {
	// BuildList aggregates the user's purchase set into the plain-text
	// shopping list. An empty purchase set yields an EmptyShoppingList error.
	BuildList(ctx context.Context, userID uuid.UUID) (string, error)
}
