package gorm

import (
	"github.com/foodgram/v2/internal/domain/catalog"
	"github.com/foodgram/v2/internal/domain/user"
)

// recipeToModel converts a domain recipe to its row representation.
// Associations are written explicitly by the repository, not via GORM's
// auto-save, so the model carries no Ingredients/Tags here.
func recipeToModel(r *catalog.Recipe) *RecipeModel {
	return &RecipeModel{
		ID:          r.ID(),
		AuthorID:    r.AuthorID(),
		Name:        r.Name(),
		Description: r.Description(),
		CookTime:    r.CookTime(),
		Image:       r.Image(),
		Slug:        r.Slug(),
		CreatedAt:   r.CreatedAt(),
		UpdatedAt:   r.UpdatedAt(),
	}
}

// recipeFromModel rehydrates a domain recipe from a row with preloaded
// ingredient lines (with products) and tags.
func recipeFromModel(m *RecipeModel) *catalog.Recipe {
	lines := make([]catalog.IngredientLine, 0, len(m.Ingredients))
	for _, ing := range m.Ingredients {
		lines = append(lines, catalog.IngredientLine{
			ID:        ing.ID,
			ProductID: ing.ProductID,
			Title:     ing.Product.Title,
			Unit:      ing.Product.Unit,
			Amount:    ing.Amount,
		})
	}

	tags := make([]catalog.Tag, 0, len(m.Tags))
	for _, t := range m.Tags {
		tags = append(tags, catalog.Tag{ID: t.ID, Name: t.Name, Slug: t.Slug})
	}

	return catalog.Restore(
		m.ID, m.AuthorID,
		m.Name, m.Description,
		m.CookTime,
		m.Image, m.Slug,
		lines, tags,
		m.CreatedAt, m.UpdatedAt,
	)
}

func userToModel(u *user.User) *UserModel {
	return &UserModel{
		ID:           u.ID(),
		Username:     u.Username(),
		Email:        u.Email(),
		PasswordHash: u.PasswordHash(),
		Superuser:    u.IsSuperuser(),
		CreatedAt:    u.CreatedAt(),
	}
}

func userFromModel(m *UserModel) *user.User {
	return user.Restore(m.ID, m.Username, m.Email, m.PasswordHash, m.Superuser, m.CreatedAt)
}
