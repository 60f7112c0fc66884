// Package catalog provides the application layer for the recipe catalog:
// recipe CRUD, tag-filtered listings, and the product prefix query.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/foodgram/v2/internal/domain/catalog"
	"github.com/foodgram/v2/internal/ports/inbound"
	"github.com/foodgram/v2/internal/ports/outbound"
	"github.com/foodgram/v2/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	productSearchLimit    = 50
	productCacheTTL       = 5 * time.Minute
	productCacheKeyFormat = "products:prefix:%s"
)

// Service implements the catalog use cases
type Service struct {
	recipes  outbound.RecipeRepository
	products outbound.ProductRepository
	tags     outbound.TagRepository
	users    outbound.UserRepository
	cache    outbound.CacheRepository
	validate *validator.Validate
	pageSize int
	logger   *zap.Logger
}

// NewService creates a new catalog service
func NewService(
	recipes outbound.RecipeRepository,
	products outbound.ProductRepository,
	tags outbound.TagRepository,
	users outbound.UserRepository,
	cache outbound.CacheRepository,
	pageSize int,
	logger *zap.Logger,
) inbound.CatalogService {
	return &Service{
		recipes:  recipes,
		products: products,
		tags:     tags,
		users:    users,
		cache:    cache,
		validate: validator.New(),
		pageSize: pageSize,
		logger:   logger.Named("catalog-service"),
	}
}

// CreateRecipe creates a new recipe with resolved tags and ingredient lines
func (s *Service) CreateRecipe(ctx context.Context, cmd inbound.CreateRecipeCommand) (*inbound.RecipeDTO, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	exists, err := s.users.Exists(ctx, cmd.AuthorID)
	if err != nil {
		return nil, errors.NewDatabaseError("check author existence", err)
	}
	if !exists {
		return nil, errors.NewUserNotFoundError(cmd.AuthorID.String())
	}

	recipe, err := catalog.NewRecipe(cmd.Name, cmd.Description, cmd.CookTime, cmd.Image, cmd.AuthorID)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	tags, err := s.resolveTags(ctx, cmd.TagSlugs)
	if err != nil {
		return nil, err
	}
	recipe.SetTags(tags)

	for _, in := range cmd.Ingredients {
		line, err := s.resolveIngredient(ctx, in)
		if err != nil {
			return nil, err
		}
		if err := recipe.AddIngredient(line); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}

	if err := s.ensureUniqueSlug(ctx, recipe); err != nil {
		return nil, err
	}

	if err := s.recipes.Create(ctx, recipe); err != nil {
		return nil, errors.NewDatabaseError("create recipe", err)
	}

	s.logger.Info("Recipe created",
		zap.String("recipe_id", recipe.ID().String()),
		zap.String("author_id", cmd.AuthorID.String()),
		zap.String("slug", recipe.Slug()),
	)

	return s.entityToDTO(ctx, recipe)
}

// UpdateRecipe applies a partial update after the ownership check
func (s *Service) UpdateRecipe(ctx context.Context, cmd inbound.UpdateRecipeCommand) (*inbound.RecipeDTO, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	recipe, err := s.recipes.FindByID(ctx, cmd.RecipeID)
	if err != nil {
		return nil, errors.NewDatabaseError("find recipe", err)
	}
	if recipe == nil {
		return nil, errors.NewRecipeNotFoundError(cmd.RecipeID.String())
	}

	if !recipe.OwnedBy(cmd.UserID, cmd.Superuser) {
		return nil, errors.NewNotRecipeOwnerError(cmd.RecipeID.String())
	}

	if cmd.Name != nil {
		prevSlug := recipe.Slug()
		if err := recipe.Rename(*cmd.Name); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		// The recipe's own stored slug must not count as a collision
		if recipe.Slug() != prevSlug {
			if err := s.ensureUniqueSlug(ctx, recipe); err != nil {
				return nil, err
			}
		}
	}
	if cmd.Description != nil {
		recipe.UpdateDescription(*cmd.Description)
	}
	if cmd.CookTime != nil {
		if err := recipe.UpdateCookTime(*cmd.CookTime); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}
	if cmd.Image != nil {
		recipe.UpdateImage(*cmd.Image)
	}
	if cmd.TagSlugs != nil {
		tags, err := s.resolveTags(ctx, *cmd.TagSlugs)
		if err != nil {
			return nil, err
		}
		recipe.SetTags(tags)
	}
	if cmd.Ingredients != nil {
		lines := make([]catalog.IngredientLine, 0, len(*cmd.Ingredients))
		for _, in := range *cmd.Ingredients {
			line, err := s.resolveIngredient(ctx, in)
			if err != nil {
				return nil, err
			}
			line.ID = uuid.New()
			lines = append(lines, line)
		}
		if err := recipe.ReplaceIngredients(lines); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}

	if err := s.recipes.Update(ctx, recipe); err != nil {
		return nil, errors.NewDatabaseError("update recipe", err)
	}

	s.logger.Info("Recipe updated", zap.String("recipe_id", recipe.ID().String()))

	return s.entityToDTO(ctx, recipe)
}

// DeleteRecipe removes a recipe and its ingredient lines
func (s *Service) DeleteRecipe(ctx context.Context, recipeID, userID uuid.UUID, superuser bool) error {
	recipe, err := s.recipes.FindByID(ctx, recipeID)
	if err != nil {
		return errors.NewDatabaseError("find recipe", err)
	}
	if recipe == nil {
		return errors.NewRecipeNotFoundError(recipeID.String())
	}

	if !recipe.OwnedBy(userID, superuser) {
		return errors.NewNotRecipeOwnerError(recipeID.String())
	}

	if err := s.recipes.Delete(ctx, recipeID); err != nil {
		return errors.NewDatabaseError("delete recipe", err)
	}

	s.logger.Info("Recipe deleted",
		zap.String("recipe_id", recipeID.String()),
		zap.String("user_id", userID.String()),
	)

	return nil
}

// GetRecipe retrieves a single recipe
func (s *Service) GetRecipe(ctx context.Context, recipeID uuid.UUID) (*inbound.RecipeDTO, error) {
	recipe, err := s.recipes.FindByID(ctx, recipeID)
	if err != nil {
		return nil, errors.NewDatabaseError("find recipe", err)
	}
	if recipe == nil {
		return nil, errors.NewRecipeNotFoundError(recipeID.String())
	}
	return s.entityToDTO(ctx, recipe)
}

// ListRecipes returns the tag-filtered home page listing
func (s *Service) ListRecipes(ctx context.Context, q inbound.ListQuery) (*inbound.RecipePage, error) {
	return s.listPage(ctx, outbound.ListFilter{TagSlugs: q.TagSlugs}, q)
}

// ListByAuthor returns the tag-filtered author profile listing
func (s *Service) ListByAuthor(ctx context.Context, username string, q inbound.ListQuery) (*inbound.RecipePage, error) {
	author, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, errors.NewDatabaseError("find author", err)
	}
	if author == nil {
		return nil, errors.NewUserNotFoundError(username)
	}
	id := author.ID()
	return s.listPage(ctx, outbound.ListFilter{TagSlugs: q.TagSlugs, AuthorID: &id}, q)
}

// ListFavorites returns the tag-filtered favorites listing for a user
func (s *Service) ListFavorites(ctx context.Context, userID uuid.UUID, q inbound.ListQuery) (*inbound.RecipePage, error) {
	return s.listPage(ctx, outbound.ListFilter{TagSlugs: q.TagSlugs, FavoritedBy: &userID}, q)
}

// ListPurchases returns every recipe in the user's purchase set, unpaginated
func (s *Service) ListPurchases(ctx context.Context, userID uuid.UUID) ([]inbound.RecipeDTO, error) {
	recipes, _, err := s.recipes.List(ctx, outbound.ListFilter{PurchasedBy: &userID})
	if err != nil {
		return nil, errors.NewDatabaseError("list purchases", err)
	}
	dtos := make([]inbound.RecipeDTO, 0, len(recipes))
	for _, r := range recipes {
		dto, err := s.entityToDTO(ctx, r)
		if err != nil {
			return nil, err
		}
		dtos = append(dtos, *dto)
	}
	return dtos, nil
}

// SearchProducts returns master catalog entries whose title starts with the
// prefix. Results are cached briefly; the prefix query backs a typeahead.
func (s *Service) SearchProducts(ctx context.Context, prefix string) ([]inbound.ProductDTO, error) {
	key := fmt.Sprintf(productCacheKeyFormat, prefix)
	if raw, err := s.cache.Get(ctx, key); err == nil && raw != nil {
		var cached []inbound.ProductDTO
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	products, err := s.products.SearchByPrefix(ctx, prefix, productSearchLimit)
	if err != nil {
		return nil, errors.NewDatabaseError("search products", err)
	}

	dtos := make([]inbound.ProductDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, inbound.ProductDTO{Title: p.Title, Unit: p.Unit})
	}

	if raw, err := json.Marshal(dtos); err == nil {
		if err := s.cache.Set(ctx, key, raw, productCacheTTL); err != nil {
			s.logger.Warn("Failed to cache product search", zap.Error(err))
		}
	}

	return dtos, nil
}

// AllTags returns every tag for filter rendering
func (s *Service) AllTags(ctx context.Context) ([]inbound.TagDTO, error) {
	tags, err := s.tags.All(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("list tags", err)
	}
	dtos := make([]inbound.TagDTO, 0, len(tags))
	for _, t := range tags {
		dtos = append(dtos, inbound.TagDTO{Name: t.Name, Slug: t.Slug})
	}
	return dtos, nil
}

// listPage runs a filtered listing through pagination
func (s *Service) listPage(ctx context.Context, filter outbound.ListFilter, q inbound.ListQuery) (*inbound.RecipePage, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	filter.Offset = (page - 1) * s.pageSize
	filter.Limit = s.pageSize

	recipes, total, err := s.recipes.List(ctx, filter)
	if err != nil {
		return nil, errors.NewDatabaseError("list recipes", err)
	}

	dtos := make([]inbound.RecipeDTO, 0, len(recipes))
	for _, r := range recipes {
		dto, err := s.entityToDTO(ctx, r)
		if err != nil {
			return nil, err
		}
		dtos = append(dtos, *dto)
	}

	return &inbound.RecipePage{
		Recipes:    dtos,
		Tags:       q.TagSlugs,
		Total:      total,
		Page:       page,
		PageSize:   s.pageSize,
		TotalPages: (total + s.pageSize - 1) / s.pageSize,
	}, nil
}

// resolveTags maps requested slugs to stored tags; unknown slugs are rejected
func (s *Service) resolveTags(ctx context.Context, slugs []string) ([]catalog.Tag, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	tags, err := s.tags.FindBySlugs(ctx, slugs)
	if err != nil {
		return nil, errors.NewDatabaseError("find tags", err)
	}
	if len(tags) != len(slugs) {
		return nil, errors.NewValidationError("one or more tags do not exist")
	}
	return tags, nil
}

// resolveIngredient maps an ingredient input to a line against the master catalog
func (s *Service) resolveIngredient(ctx context.Context, in inbound.IngredientInput) (catalog.IngredientLine, error) {
	product, err := s.products.FindByTitle(ctx, in.Title)
	if err != nil {
		return catalog.IngredientLine{}, errors.NewDatabaseError("find product", err)
	}
	if product == nil {
		return catalog.IngredientLine{}, errors.NewAppError(
			errors.CodeProductNotFound,
			"Product not found",
			fmt.Sprintf("No product titled %q in the catalog", in.Title),
		)
	}
	return catalog.IngredientLine{
		ProductID: product.ID,
		Title:     product.Title,
		Unit:      product.Unit,
		Amount:    in.Amount,
	}, nil
}

// ensureUniqueSlug suffixes the derived slug until it is free in the store
func (s *Service) ensureUniqueSlug(ctx context.Context, recipe *catalog.Recipe) error {
	base := recipe.Slug()
	candidate := base
	for i := 2; ; i++ {
		taken, err := s.recipes.SlugExists(ctx, candidate)
		if err != nil {
			return errors.NewDatabaseError("check slug", err)
		}
		if !taken {
			break
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	if candidate != base {
		if err := recipe.SetSlug(candidate); err != nil {
			return errors.NewValidationError(err.Error())
		}
	}
	return nil
}

// entityToDTO converts a domain recipe to its response shape
func (s *Service) entityToDTO(ctx context.Context, recipe *catalog.Recipe) (*inbound.RecipeDTO, error) {
	author, err := s.users.FindByID(ctx, recipe.AuthorID())
	if err != nil {
		return nil, errors.NewDatabaseError("find author", err)
	}

	dto := &inbound.RecipeDTO{
		ID:          recipe.ID(),
		Name:        recipe.Name(),
		Description: recipe.Description(),
		CookTime:    recipe.CookTime(),
		Image:       recipe.Image(),
		Slug:        recipe.Slug(),
		CreatedAt:   recipe.CreatedAt(),
		Tags:        make([]inbound.TagDTO, 0, len(recipe.Tags())),
		Ingredients: make([]inbound.IngredientDTO, 0, len(recipe.Ingredients())),
	}
	if author != nil {
		dto.Author = inbound.AuthorDTO{ID: author.ID(), Username: author.Username()}
	}
	for _, t := range recipe.Tags() {
		dto.Tags = append(dto.Tags, inbound.TagDTO{Name: t.Name, Slug: t.Slug})
	}
	for _, l := range recipe.Ingredients() {
		dto.Ingredients = append(dto.Ingredients, inbound.IngredientDTO{
			Title:  l.Title,
			Unit:   l.Unit,
			Amount: l.Amount,
		})
	}
	return dto, nil
}
