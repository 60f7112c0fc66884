// Package catalog contains the core domain logic for the recipe catalog:
// recipes with ingredient line items, the product master list, and tags.
package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

// Product is a master ingredient catalog entry. Products are referenced by
// ingredient lines, never owned by them.
type Product struct {
	ID    uuid.UUID
	Title string
	Unit  string
}

// Validate checks product invariants
func (p Product) Validate() error {
	if p.Title == "" {
		return ErrProductTitleRequired
	}
	if p.Unit == "" {
		return ErrProductUnitRequired
	}
	return nil
}

// Tag categorizes recipes. Tags have an independent lifecycle and a unique slug.
type Tag struct {
	ID   uuid.UUID
	Name string
	Slug string
}

// NewTag creates a tag with a slug derived from its name
func NewTag(name string) (Tag, error) {
	if name == "" {
		return Tag{}, ErrTagNameRequired
	}
	return Tag{
		ID:   uuid.New(),
		Name: name,
		Slug: slug.Make(name),
	}, nil
}

// IngredientLine is a line item tying a recipe to a product with a quantity.
type IngredientLine struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	Title     string
	Unit      string
	Amount    decimal.Decimal
}

// Validate checks line invariants
func (l IngredientLine) Validate() error {
	if l.ProductID == uuid.Nil {
		return ErrProductRequired
	}
	if !l.Amount.IsPositive() {
		return ErrAmountNotPositive
	}
	return nil
}

// Recipe is the aggregate root of the catalog. It owns its ingredient lines
// and carries a tag set; the author owns the recipe exclusively.
type Recipe struct {
	id          uuid.UUID
	authorID    uuid.UUID
	name        string
	description string
	cookTime    int // minutes
	image       string
	slug        string
	ingredients []IngredientLine
	tags        []Tag
	createdAt   time.Time
	updatedAt   time.Time
}

// NewRecipe creates a new Recipe with validation. The slug is derived from
// the name; uniqueness against the store is the caller's concern.
func NewRecipe(name, description string, cookTime int, image string, authorID uuid.UUID) (*Recipe, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if cookTime <= 0 {
		return nil, ErrInvalidCookTime
	}
	if authorID == uuid.Nil {
		return nil, ErrAuthorRequired
	}

	now := time.Now()
	return &Recipe{
		id:          uuid.New(),
		authorID:    authorID,
		name:        name,
		description: description,
		cookTime:    cookTime,
		image:       image,
		slug:        slug.Make(name),
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Restore rebuilds a Recipe from persisted state. Used by repositories only.
func Restore(
	id, authorID uuid.UUID,
	name, description string,
	cookTime int,
	image, slugValue string,
	ingredients []IngredientLine,
	tags []Tag,
	createdAt, updatedAt time.Time,
) *Recipe {
	return &Recipe{
		id:          id,
		authorID:    authorID,
		name:        name,
		description: description,
		cookTime:    cookTime,
		image:       image,
		slug:        slugValue,
		ingredients: ingredients,
		tags:        tags,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// ID returns the recipe's unique identifier
func (r *Recipe) ID() uuid.UUID { return r.id }

// AuthorID returns the owning author's identifier
func (r *Recipe) AuthorID() uuid.UUID { return r.authorID }

// Name returns the recipe's name
func (r *Recipe) Name() string { return r.name }

// Description returns the recipe's description
func (r *Recipe) Description() string { return r.description }

// CookTime returns the cooking time in minutes
func (r *Recipe) CookTime() int { return r.cookTime }

// Image returns the recipe's image reference
func (r *Recipe) Image() string { return r.image }

// Slug returns the recipe's URL slug
func (r *Recipe) Slug() string { return r.slug }

// Ingredients returns the recipe's ingredient lines
func (r *Recipe) Ingredients() []IngredientLine { return r.ingredients }

// Tags returns the recipe's tag set
func (r *Recipe) Tags() []Tag { return r.tags }

// CreatedAt returns when the recipe was created
func (r *Recipe) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt returns when the recipe was last updated
func (r *Recipe) UpdatedAt() time.Time { return r.updatedAt }

// Rename updates the name and re-derives the slug
func (r *Recipe) Rename(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	r.name = name
	r.slug = slug.Make(name)
	r.updatedAt = time.Now()
	return nil
}

// SetSlug overrides the derived slug. Used to disambiguate against
// already-stored slugs ("pie", "pie-2", "pie-3", ...).
func (r *Recipe) SetSlug(s string) error {
	if s == "" {
		return ErrEmptySlug
	}
	r.slug = s
	return nil
}

// UpdateDescription replaces the description
func (r *Recipe) UpdateDescription(description string) {
	r.description = description
	r.updatedAt = time.Now()
}

// UpdateCookTime replaces the cooking time
func (r *Recipe) UpdateCookTime(minutes int) error {
	if minutes <= 0 {
		return ErrInvalidCookTime
	}
	r.cookTime = minutes
	r.updatedAt = time.Now()
	return nil
}

// UpdateImage replaces the image reference
func (r *Recipe) UpdateImage(image string) {
	r.image = image
	r.updatedAt = time.Now()
}

// AddIngredient appends a validated ingredient line
func (r *Recipe) AddIngredient(line IngredientLine) error {
	if err := line.Validate(); err != nil {
		return err
	}
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	r.ingredients = append(r.ingredients, line)
	r.updatedAt = time.Now()
	return nil
}

// ReplaceIngredients swaps the full ingredient line set
func (r *Recipe) ReplaceIngredients(lines []IngredientLine) error {
	for _, l := range lines {
		if err := l.Validate(); err != nil {
			return err
		}
	}
	r.ingredients = lines
	r.updatedAt = time.Now()
	return nil
}

// SetTags replaces the tag set
func (r *Recipe) SetTags(tags []Tag) {
	r.tags = tags
	r.updatedAt = time.Now()
}

// OwnedBy reports whether the given user may modify the recipe
func (r *Recipe) OwnedBy(userID uuid.UUID, superuser bool) bool {
	return superuser || r.authorID == userID
}

// validateName validates the recipe name
func validateName(name string) error {
	if name == "" {
		return ErrNameRequired
	}
	if len(name) > 200 {
		return ErrNameTooLong
	}
	return nil
}
