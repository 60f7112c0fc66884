package testutils

import (
	"context"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/foodgram/v2/internal/domain/catalog"
	"github.com/foodgram/v2/internal/domain/user"
	"github.com/foodgram/v2/internal/ports/outbound"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// UserFactory creates users with realistic unique data
type UserFactory struct {
	repo outbound.UserRepository
	seq  int
}

// NewUserFactory creates a user factory over the given repository
func NewUserFactory(repo outbound.UserRepository) *UserFactory {
	return &UserFactory{repo: repo}
}

// Create persists a user with generated credentials
func (f *UserFactory) Create(t *testing.T) *user.User {
	t.Helper()
	f.seq++

	username := fmt.Sprintf("%s%d", gofakeit.Username(), f.seq)
	email := fmt.Sprintf("%d.%s", f.seq, gofakeit.Email())

	u, err := user.NewUser(username, email, "test-password-123")
	require.NoError(t, err)
	require.NoError(t, f.repo.Create(context.Background(), u))
	return u
}

// CatalogFactory seeds products, tags, and recipes
type CatalogFactory struct {
	recipes  outbound.RecipeRepository
	products outbound.ProductRepository
	tags     outbound.TagRepository
	seq      int
}

// NewCatalogFactory creates a catalog factory over the given repositories
func NewCatalogFactory(
	recipes outbound.RecipeRepository,
	products outbound.ProductRepository,
	tags outbound.TagRepository,
) *CatalogFactory {
	return &CatalogFactory{recipes: recipes, products: products, tags: tags}
}

// Product persists a master catalog entry
func (f *CatalogFactory) Product(t *testing.T, title, unit string) catalog.Product {
	t.Helper()

	p := catalog.Product{ID: uuid.New(), Title: title, Unit: unit}
	require.NoError(t, p.Validate())
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

// Tag persists a tag
func (f *CatalogFactory) Tag(t *testing.T, name string) catalog.Tag {
	t.Helper()

	tag, err := catalog.NewTag(name)
	require.NoError(t, err)
	require.NoError(t, f.tags.Create(context.Background(), tag))
	return tag
}

// RecipeSpec describes a recipe to seed
type RecipeSpec struct {
	Author      *user.User
	Name        string
	Tags        []catalog.Tag
	Ingredients []IngredientSpec
}

// IngredientSpec describes one seeded ingredient line
type IngredientSpec struct {
	Product catalog.Product
	Amount  string
}

// Recipe persists a recipe built from the spec, filling in defaults
func (f *CatalogFactory) Recipe(t *testing.T, spec RecipeSpec) *catalog.Recipe {
	t.Helper()
	f.seq++

	name := spec.Name
	if name == "" {
		name = fmt.Sprintf("%s %d", gofakeit.Dinner(), f.seq)
	}

	r, err := catalog.NewRecipe(name, gofakeit.Sentence(8), gofakeit.Number(5, 120), "", spec.Author.ID())
	require.NoError(t, err)
	// Keep seeded slugs unique without exercising the service-level suffixing
	require.NoError(t, r.SetSlug(fmt.Sprintf("%s-%d", r.Slug(), f.seq)))

	r.SetTags(spec.Tags)
	for _, ing := range spec.Ingredients {
		amount, err := decimal.NewFromString(ing.Amount)
		require.NoError(t, err)
		require.NoError(t, r.AddIngredient(catalog.IngredientLine{
			ProductID: ing.Product.ID,
			Title:     ing.Product.Title,
			Unit:      ing.Product.Unit,
			Amount:    amount,
		}))
	}

	require.NoError(t, f.recipes.Create(context.Background(), r))
	return r
}
