package integration

import (
	"context"
	"testing"

	"github.com/foodgram/v2/internal/domain/catalog"
	gormrepo "github.com/foodgram/v2/internal/infrastructure/persistence/gorm"
	"github.com/foodgram/v2/internal/ports/outbound"
	"github.com/foodgram/v2/test/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type RecipeRepositorySuite struct {
	suite.Suite
	ctx     context.Context
	repo    outbound.RecipeRepository
	users   *testutils.UserFactory
	catalog *testutils.CatalogFactory
}

func TestRecipeRepositorySuite(t *testing.T) {
	suite.Run(t, new(RecipeRepositorySuite))
}

func (s *RecipeRepositorySuite) SetupTest() {
	db := testutils.NewTestDB(s.T())
	logger := zap.NewNop()

	s.ctx = context.Background()
	s.repo = gormrepo.NewRecipeRepository(db, logger)
	s.users = testutils.NewUserFactory(gormrepo.NewUserRepository(db))
	s.catalog = testutils.NewCatalogFactory(s.repo, gormrepo.NewProductRepository(db), gormrepo.NewTagRepository(db))
}

func (s *RecipeRepositorySuite) TestRoundTrip() {
	author := s.users.Create(s.T())
	flour := s.catalog.Product(s.T(), "flour", "g")
	tag := s.catalog.Tag(s.T(), "baking")

	created := s.catalog.Recipe(s.T(), testutils.RecipeSpec{
		Author:      author,
		Name:        "Bread",
		Tags:        []catalog.Tag{tag},
		Ingredients: []testutils.IngredientSpec{{Product: flour, Amount: "500"}},
	})

	found, err := s.repo.FindByID(s.ctx, created.ID())
	s.Require().NoError(err)
	s.Require().NotNil(found)

	s.Equal("Bread", found.Name())
	s.Equal(author.ID(), found.AuthorID())
	s.Require().Len(found.Ingredients(), 1)
	s.Equal("flour", found.Ingredients()[0].Title)
	s.Equal("g", found.Ingredients()[0].Unit)
	s.Require().Len(found.Tags(), 1)
	s.Equal("baking", found.Tags()[0].Slug)
}

func (s *RecipeRepositorySuite) TestFindByID_AbsentReturnsNilNil() {
	found, err := s.repo.FindByID(s.ctx, uuid.New())
	s.Require().NoError(err)
	s.Nil(found)
}

func (s *RecipeRepositorySuite) TestSlugExists() {
	author := s.users.Create(s.T())
	created := s.catalog.Recipe(s.T(), testutils.RecipeSpec{Author: author})

	exists, err := s.repo.SlugExists(s.ctx, created.Slug())
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.repo.SlugExists(s.ctx, "never-used-slug")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *RecipeRepositorySuite) TestDelete_CascadesToLines() {
	author := s.users.Create(s.T())
	flour := s.catalog.Product(s.T(), "flour", "g")
	created := s.catalog.Recipe(s.T(), testutils.RecipeSpec{
		Author:      author,
		Ingredients: []testutils.IngredientSpec{{Product: flour, Amount: "100"}},
	})

	require.NoError(s.T(), s.repo.Delete(s.ctx, created.ID()))

	found, err := s.repo.FindByID(s.ctx, created.ID())
	s.Require().NoError(err)
	s.Nil(found)
}

func (s *RecipeRepositorySuite) TestList_FilterByAuthorAndOrdering() {
	alice := s.users.Create(s.T())
	bob := s.users.Create(s.T())

	for i := 0; i < 3; i++ {
		s.catalog.Recipe(s.T(), testutils.RecipeSpec{Author: alice})
	}
	s.catalog.Recipe(s.T(), testutils.RecipeSpec{Author: bob})

	aliceID := alice.ID()
	recipes, total, err := s.repo.List(s.ctx, outbound.ListFilter{AuthorID: &aliceID, Limit: 10})
	s.Require().NoError(err)
	s.Equal(3, total)
	s.Len(recipes, 3)
	for _, r := range recipes {
		s.Equal(alice.ID(), r.AuthorID())
	}

	// Same filter, same order on a repeated call
	again, _, err := s.repo.List(s.ctx, outbound.ListFilter{AuthorID: &aliceID, Limit: 10})
	s.Require().NoError(err)
	for i := range recipes {
		s.Equal(recipes[i].ID(), again[i].ID(), "ordering must be deterministic")
	}
}
