package gorm

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/foodgram/v2/internal/domain/catalog"
	"github.com/foodgram/v2/internal/ports/outbound"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RecipeRepository implements outbound.RecipeRepository using GORM
type RecipeRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewRecipeRepository creates a new GORM recipe repository
func NewRecipeRepository(db *gorm.DB, logger *zap.Logger) outbound.RecipeRepository {
	return &RecipeRepository{
		db:     db,
		logger: logger.Named("recipe-repository"),
	}
}

// Create persists a new recipe with its ingredient lines and tag links
func (r *RecipeRepository) Create(ctx context.Context, recipe *catalog.Recipe) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := recipeToModel(recipe)
		// Lines and tag links are written explicitly below
		if err := tx.Omit("Author", "Ingredients", "Tags").Create(model).Error; err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}
		if err := r.writeIngredients(tx, recipe); err != nil {
			return err
		}
		return r.writeTags(tx, model, recipe.Tags())
	})
}

// Update persists recipe changes, rewriting ingredient lines and tag links
func (r *RecipeRepository) Update(ctx context.Context, recipe *catalog.Recipe) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := recipeToModel(recipe)
		result := tx.Model(&RecipeModel{}).Where("id = ?", recipe.ID()).
			Select("Name", "Description", "CookTime", "Image", "Slug", "UpdatedAt").
			Updates(model)
		if result.Error != nil {
			return fmt.Errorf("failed to update recipe: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("recipe_id = ?", recipe.ID()).Delete(&IngredientModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear ingredients: %w", err)
		}
		if err := r.writeIngredients(tx, recipe); err != nil {
			return err
		}

		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", recipe.ID()).Error; err != nil {
			return fmt.Errorf("failed to clear tags: %w", err)
		}
		return r.writeTags(tx, model, recipe.Tags())
	})
}

// Delete removes a recipe together with its lines, tag links, and memberships
func (r *RecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&IngredientModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete ingredients: %w", err)
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete tag links: %w", err)
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&FavoriteModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete favorites: %w", err)
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&PurchaseModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete purchases: %w", err)
		}
		if err := tx.Where("id = ?", id).Delete(&RecipeModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete recipe: %w", err)
		}
		return nil
	})
}

// FindByID retrieves a recipe by ID, returning (nil, nil) when absent
func (r *RecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Recipe, error) {
	var model RecipeModel
	err := r.db.WithContext(ctx).
		Preload("Ingredients.Product").
		Preload("Tags").
		First(&model, "id = ?", id).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find recipe: %w", err)
	}
	return recipeFromModel(&model), nil
}

// Exists reports whether a recipe with the given ID exists
func (r *RecipeRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&RecipeModel{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check recipe existence: %w", err)
	}
	return count > 0, nil
}

// SlugExists reports whether a recipe with the given slug exists
func (r *RecipeRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&RecipeModel{}).Where("slug = ?", slug).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return count > 0, nil
}

// List returns a filtered recipe collection plus its total count before
// pagination. The tag filter uses a subquery so a recipe matching several
// requested tags still appears exactly once, and the count stays exact.
// Ordering is newest-first with the ID as tiebreaker so pages never overlap.
func (r *RecipeRepository) List(ctx context.Context, filter outbound.ListFilter) ([]*catalog.Recipe, int, error) {
	q := r.db.WithContext(ctx).Model(&RecipeModel{})

	if len(filter.TagSlugs) > 0 {
		sub := r.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		q = q.Where("recipes.id IN (?)", sub)
	}
	if filter.AuthorID != nil {
		q = q.Where("recipes.author_id = ?", *filter.AuthorID)
	}
	if filter.FavoritedBy != nil {
		sub := r.db.Table("favorites").Select("recipe_id").Where("user_id = ?", *filter.FavoritedBy)
		q = q.Where("recipes.id IN (?)", sub)
	}
	if filter.PurchasedBy != nil {
		sub := r.db.Table("purchases").Select("recipe_id").Where("user_id = ?", *filter.PurchasedBy)
		q = q.Where("recipes.id IN (?)", sub)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	q = q.Order("recipes.created_at DESC").Order("recipes.id ASC").Offset(filter.Offset)
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var models []RecipeModel
	if err := q.Preload("Ingredients.Product").Preload("Tags").Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}

	recipes := make([]*catalog.Recipe, 0, len(models))
	for i := range models {
		recipes = append(recipes, recipeFromModel(&models[i]))
	}
	return recipes, int(total), nil
}

func (r *RecipeRepository) writeIngredients(tx *gorm.DB, recipe *catalog.Recipe) error {
	for _, line := range recipe.Ingredients() {
		row := &IngredientModel{
			ID:        line.ID,
			RecipeID:  recipe.ID(),
			ProductID: line.ProductID,
			Amount:    line.Amount,
		}
		if err := tx.Omit("Product").Create(row).Error; err != nil {
			return fmt.Errorf("failed to create ingredient line: %w", err)
		}
	}
	return nil
}

func (r *RecipeRepository) writeTags(tx *gorm.DB, model *RecipeModel, tags []catalog.Tag) error {
	for _, t := range tags {
		err := tx.Exec(
			"INSERT INTO recipe_tags (recipe_id, tag_id) VALUES (?, ?)",
			model.ID, t.ID,
		).Error
		if err != nil {
			return fmt.Errorf("failed to link tag: %w", err)
		}
	}
	return nil
}
