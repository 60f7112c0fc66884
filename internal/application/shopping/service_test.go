package shopping

import (
	"context"
	"testing"

	"github.com/foodgram/v2/internal/domain/user"
	gormrepo "github.com/foodgram/v2/internal/infrastructure/persistence/gorm"
	"github.com/foodgram/v2/internal/ports/inbound"
	"github.com/foodgram/v2/internal/ports/outbound"
	apperrors "github.com/foodgram/v2/pkg/errors"
	"github.com/foodgram/v2/test/testutils"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type ShoppingServiceSuite struct {
	suite.Suite
	ctx         context.Context
	service     inbound.ShoppingService
	memberships outbound.MembershipRepository
	users       *testutils.UserFactory
	catalog     *testutils.CatalogFactory

	buyer  *user.User
	author *user.User
}

func TestShoppingServiceSuite(t *testing.T) {
	suite.Run(t, new(ShoppingServiceSuite))
}

func (s *ShoppingServiceSuite) SetupTest() {
	db := testutils.NewTestDB(s.T())
	logger := zap.NewNop()

	recipeRepo := gormrepo.NewRecipeRepository(db, logger)
	productRepo := gormrepo.NewProductRepository(db)
	tagRepo := gormrepo.NewTagRepository(db)
	userRepo := gormrepo.NewUserRepository(db)
	s.memberships = gormrepo.NewMembershipRepository(db, logger)

	s.ctx = context.Background()
	s.service = NewService(s.memberships, logger)
	s.users = testutils.NewUserFactory(userRepo)
	s.catalog = testutils.NewCatalogFactory(recipeRepo, productRepo, tagRepo)

	s.buyer = s.users.Create(s.T())
	s.author = s.users.Create(s.T())
}

func (s *ShoppingServiceSuite) TestBuildList_MergesAcrossRecipes() {
	flour := s.catalog.Product(s.T(), "flour", "g")
	milk := s.catalog.Product(s.T(), "milk", "l")

	pancakes := s.catalog.Recipe(s.T(), testutils.RecipeSpec{
		Author: s.author,
		Ingredients: []testutils.IngredientSpec{
			{Product: flour, Amount: "200"},
			{Product: milk, Amount: "0.5"},
		},
	})
	bread := s.catalog.Recipe(s.T(), testutils.RecipeSpec{
		Author: s.author,
		Ingredients: []testutils.IngredientSpec{
			{Product: flour, Amount: "300"},
		},
	})

	_, err := s.memberships.Add(s.ctx, outbound.MembershipPurchase, s.buyer.ID(), pancakes.ID())
	s.Require().NoError(err)
	_, err = s.memberships.Add(s.ctx, outbound.MembershipPurchase, s.buyer.ID(), bread.ID())
	s.Require().NoError(err)

	text, err := s.service.BuildList(s.ctx, s.buyer.ID())
	s.Require().NoError(err)

	s.Contains(text, "Shopping list:\n\n")
	s.Contains(text, "1) flour - 500 g")
	s.Contains(text, "2) milk - 0.5 l")
}

func (s *ShoppingServiceSuite) TestBuildList_EmptyPurchaseSet() {
	_, err := s.service.BuildList(s.ctx, s.buyer.ID())
	s.Require().Error(err)
	s.Equal(apperrors.CodeEmptyShoppingList, apperrors.GetCode(err))
}

func (s *ShoppingServiceSuite) TestBuildList_UnaffectedByFavorites() {
	flour := s.catalog.Product(s.T(), "flour", "g")
	recipe := s.catalog.Recipe(s.T(), testutils.RecipeSpec{
		Author:      s.author,
		Ingredients: []testutils.IngredientSpec{{Product: flour, Amount: "100"}},
	})

	_, err := s.memberships.Add(s.ctx, outbound.MembershipFavorite, s.buyer.ID(), recipe.ID())
	s.Require().NoError(err)

	_, err = s.service.BuildList(s.ctx, s.buyer.ID())
	s.Require().Error(err)
	s.Equal(apperrors.CodeEmptyShoppingList, apperrors.GetCode(err), "favorites do not feed the shopping list")
}
