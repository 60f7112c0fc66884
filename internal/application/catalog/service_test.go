package catalog

import (
	"context"
	"testing"

	"github.com/foodgram/v2/internal/domain/catalog"
	"github.com/foodgram/v2/internal/domain/user"
	"github.com/foodgram/v2/internal/infrastructure/cache"
	gormrepo "github.com/foodgram/v2/internal/infrastructure/persistence/gorm"
	"github.com/foodgram/v2/internal/ports/inbound"
	apperrors "github.com/foodgram/v2/pkg/errors"
	"github.com/foodgram/v2/test/testutils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

const testPageSize = 2

type CatalogServiceSuite struct {
	suite.Suite
	ctx     context.Context
	service inbound.CatalogService
	users   *testutils.UserFactory
	catalog *testutils.CatalogFactory

	author *user.User
	flour  catalog.Product
}

func TestCatalogServiceSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceSuite))
}

func (s *CatalogServiceSuite) SetupTest() {
	db := testutils.NewTestDB(s.T())
	logger := zap.NewNop()

	recipeRepo := gormrepo.NewRecipeRepository(db, logger)
	productRepo := gormrepo.NewProductRepository(db)
	tagRepo := gormrepo.NewTagRepository(db)
	userRepo := gormrepo.NewUserRepository(db)

	s.ctx = context.Background()
	s.service = NewService(recipeRepo, productRepo, tagRepo, userRepo, cache.NewMemoryCache(), testPageSize, logger)
	s.users = testutils.NewUserFactory(userRepo)
	s.catalog = testutils.NewCatalogFactory(recipeRepo, productRepo, tagRepo)

	s.author = s.users.Create(s.T())
	s.flour = s.catalog.Product(s.T(), "flour", "g")
}

func (s *CatalogServiceSuite) createCommand(name string) inbound.CreateRecipeCommand {
	return inbound.CreateRecipeCommand{
		AuthorID:    s.author.ID(),
		Name:        name,
		Description: "test recipe",
		CookTime:    30,
		Ingredients: []inbound.IngredientInput{
			{Title: "flour", Amount: decimal.NewFromInt(200)},
		},
	}
}

func (s *CatalogServiceSuite) TestCreateRecipe() {
	dto, err := s.service.CreateRecipe(s.ctx, s.createCommand("Apple Pie"))
	s.Require().NoError(err)

	s.Equal("Apple Pie", dto.Name)
	s.Equal("apple-pie", dto.Slug)
	s.Equal(s.author.ID(), dto.Author.ID)
	s.Require().Len(dto.Ingredients, 1)
	s.Equal("g", dto.Ingredients[0].Unit, "unit comes from the master catalog")
}

func (s *CatalogServiceSuite) TestCreateRecipe_SlugCollisionSuffixed() {
	first, err := s.service.CreateRecipe(s.ctx, s.createCommand("Pie"))
	s.Require().NoError(err)
	second, err := s.service.CreateRecipe(s.ctx, s.createCommand("Pie"))
	s.Require().NoError(err)
	third, err := s.service.CreateRecipe(s.ctx, s.createCommand("Pie"))
	s.Require().NoError(err)

	s.Equal("pie", first.Slug)
	s.Equal("pie-2", second.Slug)
	s.Equal("pie-3", third.Slug)
}

func (s *CatalogServiceSuite) TestCreateRecipe_UnknownProduct() {
	cmd := s.createCommand("Mystery Soup")
	cmd.Ingredients = []inbound.IngredientInput{
		{Title: "unobtainium", Amount: decimal.NewFromInt(1)},
	}

	_, err := s.service.CreateRecipe(s.ctx, cmd)
	s.Require().Error(err)
	s.Equal(apperrors.CodeProductNotFound, apperrors.GetCode(err))
}

func (s *CatalogServiceSuite) TestCreateRecipe_UnknownTag() {
	cmd := s.createCommand("Tagged Dish")
	cmd.TagSlugs = []string{"no-such-tag"}

	_, err := s.service.CreateRecipe(s.ctx, cmd)
	s.Require().Error(err)
	s.Equal(apperrors.CodeValidationFailed, apperrors.GetCode(err))
}

func (s *CatalogServiceSuite) TestUpdateRecipe_NonOwnerRejected() {
	created, err := s.service.CreateRecipe(s.ctx, s.createCommand("Pie"))
	s.Require().NoError(err)

	stranger := s.users.Create(s.T())
	name := "Stolen Pie"
	_, err = s.service.UpdateRecipe(s.ctx, inbound.UpdateRecipeCommand{
		RecipeID: created.ID,
		UserID:   stranger.ID(),
		Name:     &name,
	})
	s.Require().Error(err)
	s.Equal(apperrors.CodeNotRecipeOwner, apperrors.GetCode(err))
}

func (s *CatalogServiceSuite) TestUpdateRecipe_SuperuserBypassesOwnership() {
	created, err := s.service.CreateRecipe(s.ctx, s.createCommand("Pie"))
	s.Require().NoError(err)

	admin := s.users.Create(s.T())
	name := "Moderated Pie"
	updated, err := s.service.UpdateRecipe(s.ctx, inbound.UpdateRecipeCommand{
		RecipeID:  created.ID,
		UserID:    admin.ID(),
		Superuser: true,
		Name:      &name,
	})
	s.Require().NoError(err)
	s.Equal("Moderated Pie", updated.Name)
	s.Equal("moderated-pie", updated.Slug)
}

func (s *CatalogServiceSuite) TestDeleteRecipe_NonOwnerRejected() {
	created, err := s.service.CreateRecipe(s.ctx, s.createCommand("Pie"))
	s.Require().NoError(err)

	stranger := s.users.Create(s.T())
	err = s.service.DeleteRecipe(s.ctx, created.ID, stranger.ID(), false)
	s.Require().Error(err)
	s.Equal(apperrors.CodeNotRecipeOwner, apperrors.GetCode(err))

	// Still there
	_, err = s.service.GetRecipe(s.ctx, created.ID)
	s.NoError(err)
}

func (s *CatalogServiceSuite) TestDeleteRecipe_ByOwner() {
	created, err := s.service.CreateRecipe(s.ctx, s.createCommand("Pie"))
	s.Require().NoError(err)

	s.Require().NoError(s.service.DeleteRecipe(s.ctx, created.ID, s.author.ID(), false))

	_, err = s.service.GetRecipe(s.ctx, created.ID)
	s.Equal(apperrors.CodeRecipeNotFound, apperrors.GetCode(err))
}

func (s *CatalogServiceSuite) TestGetRecipe_Unknown() {
	_, err := s.service.GetRecipe(s.ctx, uuid.New())
	s.Require().Error(err)
	s.Equal(apperrors.CodeRecipeNotFound, apperrors.GetCode(err))
}

func (s *CatalogServiceSuite) TestListRecipes_EmptyTagSetMatchesAll() {
	breakfast := s.catalog.Tag(s.T(), "breakfast")
	s.catalog.Recipe(s.T(), testutils.RecipeSpec{Author: s.author, Tags: []catalog.Tag{breakfast}})
	s.catalog.Recipe(s.T(), testutils.RecipeSpec{Author: s.author})

	page, err := s.service.ListRecipes(s.ctx, inbound.ListQuery{Page: 1})
	s.Require().NoError(err)
	s.Equal(2, page.Total, "no tag filter matches every recipe")
}

func (s *CatalogServiceSuite) TestListRecipes_TagFilterAcrossPages() {
	breakfast := s.catalog.Tag(s.T(), "breakfast")
	dinner := s.catalog.Tag(s.T(), "dinner")

	// Five tagged, two untagged; page size is 2, so the filtered set spans
	// three pages.
	taggedIDs := make(map[uuid.UUID]bool)
	for i := 0; i < 5; i++ {
		r := s.catalog.Recipe(s.T(), testutils.RecipeSpec{Author: s.author, Tags: []catalog.Tag{breakfast}})
		taggedIDs[r.ID()] = true
	}
	s.catalog.Recipe(s.T(), testutils.RecipeSpec{Author: s.author, Tags: []catalog.Tag{dinner}})
	s.catalog.Recipe(s.T(), testutils.RecipeSpec{Author: s.author})

	seen := make(map[uuid.UUID]bool)
	for pageNum := 1; pageNum <= 3; pageNum++ {
		page, err := s.service.ListRecipes(s.ctx, inbound.ListQuery{
			TagSlugs: []string{"breakfast"},
			Page:     pageNum,
		})
		s.Require().NoError(err)
		s.Equal(5, page.Total, "filter must hold on every page")
		s.Equal(3, page.TotalPages)

		for _, dto := range page.Recipes {
			s.True(taggedIDs[dto.ID], "recipe %s lacks the requested tag", dto.ID)
			s.False(seen[dto.ID], "recipe %s appeared on two pages", dto.ID)
			seen[dto.ID] = true
		}
	}
	s.Len(seen, 5, "every tagged recipe appears exactly once across pages")
}

func (s *CatalogServiceSuite) TestListRecipes_MultiTagRecipeNotDuplicated() {
	breakfast := s.catalog.Tag(s.T(), "breakfast")
	dinner := s.catalog.Tag(s.T(), "dinner")
	s.catalog.Recipe(s.T(), testutils.RecipeSpec{
		Author: s.author,
		Tags:   []catalog.Tag{breakfast, dinner},
	})

	page, err := s.service.ListRecipes(s.ctx, inbound.ListQuery{
		TagSlugs: []string{"breakfast", "dinner"},
		Page:     1,
	})
	s.Require().NoError(err)
	s.Equal(1, page.Total, "recipe matching both tags counts once")
	s.Len(page.Recipes, 1)
}

func (s *CatalogServiceSuite) TestListByAuthor_UnknownUser() {
	_, err := s.service.ListByAuthor(s.ctx, "nobody", inbound.ListQuery{Page: 1})
	s.Require().Error(err)
	s.Equal(apperrors.CodeUserNotFound, apperrors.GetCode(err))
}

func (s *CatalogServiceSuite) TestSearchProducts_Prefix() {
	s.catalog.Product(s.T(), "potato", "kg")
	s.catalog.Product(s.T(), "pork", "g")
	s.catalog.Product(s.T(), "milk", "l")

	results, err := s.service.SearchProducts(s.ctx, "po")
	s.Require().NoError(err)
	s.Require().Len(results, 2)
	s.Equal("pork", results[0].Title)
	s.Equal("potato", results[1].Title)
}

func (s *CatalogServiceSuite) TestSearchProducts_NoMatch() {
	results, err := s.service.SearchProducts(s.ctx, "zzz")
	s.Require().NoError(err)
	s.Empty(results)
}
