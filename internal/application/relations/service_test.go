package relations

import (
	"context"
	"testing"

	"github.com/foodgram/v2/internal/domain/catalog"
	"github.com/foodgram/v2/internal/domain/user"
	gormrepo "github.com/foodgram/v2/internal/infrastructure/persistence/gorm"
	"github.com/foodgram/v2/internal/ports/inbound"
	apperrors "github.com/foodgram/v2/pkg/errors"
	"github.com/foodgram/v2/test/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type RelationServiceSuite struct {
	suite.Suite
	ctx     context.Context
	service inbound.RelationService
	users   *testutils.UserFactory
	recipes *testutils.CatalogFactory

	reader *user.User
	author *user.User
	recipe *catalog.Recipe
}

func TestRelationServiceSuite(t *testing.T) {
	suite.Run(t, new(RelationServiceSuite))
}

func (s *RelationServiceSuite) SetupTest() {
	db := testutils.NewTestDB(s.T())
	logger := zap.NewNop()

	recipeRepo := gormrepo.NewRecipeRepository(db, logger)
	productRepo := gormrepo.NewProductRepository(db)
	tagRepo := gormrepo.NewTagRepository(db)
	userRepo := gormrepo.NewUserRepository(db)
	membershipRepo := gormrepo.NewMembershipRepository(db, logger)
	subscriptionRepo := gormrepo.NewSubscriptionRepository(db)

	s.ctx = context.Background()
	s.service = NewService(membershipRepo, subscriptionRepo, recipeRepo, userRepo, 6, logger)
	s.users = testutils.NewUserFactory(userRepo)
	s.recipes = testutils.NewCatalogFactory(recipeRepo, productRepo, tagRepo)

	s.reader = s.users.Create(s.T())
	s.author = s.users.Create(s.T())
	s.recipe = s.recipes.Recipe(s.T(), testutils.RecipeSpec{Author: s.author})
}

func (s *RelationServiceSuite) TestAddFavorite_FirstAddChangesState() {
	changed, err := s.service.AddFavorite(s.ctx, s.reader.ID(), s.recipe.ID())
	s.Require().NoError(err)
	s.True(changed)
}

func (s *RelationServiceSuite) TestAddFavorite_RepeatReportsFalseWithoutError() {
	_, err := s.service.AddFavorite(s.ctx, s.reader.ID(), s.recipe.ID())
	s.Require().NoError(err)

	changed, err := s.service.AddFavorite(s.ctx, s.reader.ID(), s.recipe.ID())
	s.Require().NoError(err)
	s.False(changed, "second add must be observed, not rejected")
}

func (s *RelationServiceSuite) TestRemoveFavorite_Sequence() {
	_, err := s.service.AddFavorite(s.ctx, s.reader.ID(), s.recipe.ID())
	s.Require().NoError(err)

	changed, err := s.service.RemoveFavorite(s.ctx, s.reader.ID(), s.recipe.ID())
	s.Require().NoError(err)
	s.True(changed)

	changed, err = s.service.RemoveFavorite(s.ctx, s.reader.ID(), s.recipe.ID())
	s.Require().NoError(err)
	s.False(changed, "removing an absent membership reports false")
}

func (s *RelationServiceSuite) TestRemoveFavorite_WithoutAdd() {
	changed, err := s.service.RemoveFavorite(s.ctx, s.reader.ID(), s.recipe.ID())
	s.Require().NoError(err)
	s.False(changed)
}

func (s *RelationServiceSuite) TestAddFavorite_UnknownRecipe() {
	_, err := s.service.AddFavorite(s.ctx, s.reader.ID(), uuid.New())
	s.Require().Error(err)
	s.Equal(apperrors.CodeRecipeNotFound, apperrors.GetCode(err))
}

func (s *RelationServiceSuite) TestPurchaseToggleIsIndependentOfFavorites() {
	_, err := s.service.AddFavorite(s.ctx, s.reader.ID(), s.recipe.ID())
	s.Require().NoError(err)

	changed, err := s.service.AddPurchase(s.ctx, s.reader.ID(), s.recipe.ID())
	s.Require().NoError(err)
	s.True(changed, "purchase set is separate from favorites")

	count, err := s.service.PurchaseCount(s.ctx, s.reader.ID())
	s.Require().NoError(err)
	s.Equal(int64(1), count)
}

func (s *RelationServiceSuite) TestSubscribe_Sequence() {
	changed, err := s.service.Subscribe(s.ctx, s.reader.ID(), s.author.ID())
	s.Require().NoError(err)
	s.True(changed)

	changed, err = s.service.Subscribe(s.ctx, s.reader.ID(), s.author.ID())
	s.Require().NoError(err)
	s.False(changed)

	changed, err = s.service.Unsubscribe(s.ctx, s.reader.ID(), s.author.ID())
	s.Require().NoError(err)
	s.True(changed)
}

func (s *RelationServiceSuite) TestSubscribe_ToSelfRejected() {
	_, err := s.service.Subscribe(s.ctx, s.reader.ID(), s.reader.ID())
	s.Require().Error(err)
	s.Equal(apperrors.CodeSelfSubscription, apperrors.GetCode(err))
}

func (s *RelationServiceSuite) TestSubscribe_UnknownAuthor() {
	_, err := s.service.Subscribe(s.ctx, s.reader.ID(), uuid.New())
	s.Require().Error(err)
	s.Equal(apperrors.CodeUserNotFound, apperrors.GetCode(err))
}

func (s *RelationServiceSuite) TestListSubscriptions_CountsAndOrder() {
	second := s.users.Create(s.T())
	s.recipes.Recipe(s.T(), testutils.RecipeSpec{Author: s.author})

	_, err := s.service.Subscribe(s.ctx, s.reader.ID(), s.author.ID())
	s.Require().NoError(err)
	_, err = s.service.Subscribe(s.ctx, s.reader.ID(), second.ID())
	s.Require().NoError(err)

	page, err := s.service.ListSubscriptions(s.ctx, s.reader.ID(), 1)
	s.Require().NoError(err)
	s.Equal(2, page.Total)
	s.Require().Len(page.Authors, 2)

	s.True(page.Authors[0].Username < page.Authors[1].Username, "authors ordered by username")
	for _, a := range page.Authors {
		if a.ID == s.author.ID() {
			s.Equal(2, a.RecipeCount)
		} else {
			s.Equal(0, a.RecipeCount)
		}
	}
}
