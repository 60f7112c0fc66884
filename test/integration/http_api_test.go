package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	appcatalog "github.com/foodgram/v2/internal/application/catalog"
	apprelations "github.com/foodgram/v2/internal/application/relations"
	appshopping "github.com/foodgram/v2/internal/application/shopping"
	appuser "github.com/foodgram/v2/internal/application/user"
	"github.com/foodgram/v2/internal/domain/catalog"
	"github.com/foodgram/v2/internal/domain/user"
	"github.com/foodgram/v2/internal/infrastructure/cache"
	"github.com/foodgram/v2/internal/infrastructure/config"
	"github.com/foodgram/v2/internal/infrastructure/http/handlers"
	"github.com/foodgram/v2/internal/infrastructure/http/server"
	"github.com/foodgram/v2/internal/infrastructure/monitoring"
	gormrepo "github.com/foodgram/v2/internal/infrastructure/persistence/gorm"
	"github.com/foodgram/v2/internal/infrastructure/security"
	"github.com/foodgram/v2/pkg/healthcheck"
	"github.com/foodgram/v2/test/testutils"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

// APISuite exercises the assembled router end to end over an in-memory store
type APISuite struct {
	suite.Suite
	router   http.Handler
	sessions *security.SessionManager
	users    *testutils.UserFactory
	catalog  *testutils.CatalogFactory

	reader *user.User
	author *user.User
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	db := testutils.NewTestDB(s.T())
	logger := zap.NewNop()

	cfg := &config.Config{
		App: config.AppConfig{Name: "foodgram", Environment: "development", LogLevel: "info", LogFormat: "json"},
		Server: config.ServerConfig{
			Host: "127.0.0.1", Port: 0,
			RateLimitRPS: 1000, RateLimitBurst: 1000,
		},
		Auth: config.AuthConfig{
			JWTSecret:     "integration-test-secret-0123456789abcdef",
			SessionTTL:    time.Hour,
			CookieName:    "foodgram_session",
			LoginRedirect: "/auth/login",
		},
		Pagination: config.PaginationConfig{PageSize: 6},
		Monitoring: config.MonitoringConfig{MetricsEnabled: false},
	}

	recipeRepo := gormrepo.NewRecipeRepository(db, logger)
	productRepo := gormrepo.NewProductRepository(db)
	tagRepo := gormrepo.NewTagRepository(db)
	userRepo := gormrepo.NewUserRepository(db)
	membershipRepo := gormrepo.NewMembershipRepository(db, logger)
	subscriptionRepo := gormrepo.NewSubscriptionRepository(db)
	cacheRepo := cache.NewMemoryCache()

	catalogSvc := appcatalog.NewService(recipeRepo, productRepo, tagRepo, userRepo, cacheRepo, cfg.Pagination.PageSize, logger)
	relationSvc := apprelations.NewService(membershipRepo, subscriptionRepo, recipeRepo, userRepo, cfg.Pagination.PageSize, logger)
	shoppingSvc := appshopping.NewService(membershipRepo, logger)
	userSvc := appuser.NewService(userRepo, logger)

	s.sessions = security.NewSessionManager(cfg.Auth)
	registry := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(registry)
	checker := healthcheck.NewChecker(time.Second)

	srv := server.New(cfg, server.Handlers{
		Recipes:   handlers.NewRecipeHandler(catalogSvc, logger),
		Relations: handlers.NewRelationHandler(relationSvc, metrics, logger),
		Shopping:  handlers.NewShoppingHandler(shoppingSvc, metrics, logger),
		Products:  handlers.NewProductHandler(catalogSvc, logger),
		Auth:      handlers.NewAuthHandler(userSvc, s.sessions, logger),
		Health:    handlers.NewHealthHandler(checker, logger),
	}, s.sessions, metrics, registry, logger)
	s.router = srv.Router()

	s.users = testutils.NewUserFactory(userRepo)
	s.catalog = testutils.NewCatalogFactory(recipeRepo, productRepo, tagRepo)
	s.reader = s.users.Create(s.T())
	s.author = s.users.Create(s.T())
}

// do performs a request, optionally authenticated as the given user
func (s *APISuite) do(method, target string, body interface{}, as *user.User) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	if as != nil {
		token, err := s.sessions.IssueToken(as.ID(), as.Username(), as.IsSuperuser())
		s.Require().NoError(err)
		req.AddCookie(&http.Cookie{Name: s.sessions.CookieName(), Value: token})
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *APISuite) TestProtectedRoute_RedirectsToLoginPreservingNext() {
	rec := s.do(http.MethodGet, "/favorites?page=2", nil, nil)

	s.Equal(http.StatusFound, rec.Code)
	location, err := url.Parse(rec.Header().Get("Location"))
	s.Require().NoError(err)
	s.Equal("/auth/login", location.Path)
	s.Equal("/favorites?page=2", location.Query().Get("next"))
}

func (s *APISuite) TestFavoriteToggle_SuccessFlag() {
	recipe := s.catalog.Recipe(s.T(), testutils.RecipeSpec{Author: s.author})

	rec := s.do(http.MethodPost, "/favorites", map[string]string{"id": recipe.ID().String()}, s.reader)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"success": true}`, rec.Body.String())

	rec = s.do(http.MethodPost, "/favorites", map[string]string{"id": recipe.ID().String()}, s.reader)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"success": false}`, rec.Body.String(), "duplicate add reports false with 200")

	rec = s.do(http.MethodDelete, "/favorites/"+recipe.ID().String(), nil, s.reader)
	s.JSONEq(`{"success": true}`, rec.Body.String())

	rec = s.do(http.MethodDelete, "/favorites/"+recipe.ID().String(), nil, s.reader)
	s.JSONEq(`{"success": false}`, rec.Body.String())
}

func (s *APISuite) TestFavoriteAdd_UnknownRecipe() {
	rec := s.do(http.MethodPost, "/favorites", map[string]string{"id": uuid.NewString()}, s.reader)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *APISuite) TestSubscriptionToggle_SelfRejected() {
	rec := s.do(http.MethodPost, "/subscriptions", map[string]string{"id": s.reader.ID().String()}, s.reader)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APISuite) TestShoppingListDownload() {
	flour := s.catalog.Product(s.T(), "flour", "g")
	recipe := s.catalog.Recipe(s.T(), testutils.RecipeSpec{
		Author:      s.author,
		Ingredients: []testutils.IngredientSpec{{Product: flour, Amount: "300"}},
	})

	rec := s.do(http.MethodPost, "/purchases", map[string]string{"id": recipe.ID().String()}, s.reader)
	s.Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/purchases/download", nil, s.reader)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	s.Equal(`attachment; filename="shopping_list.txt"`, rec.Header().Get("Content-Disposition"))
	s.Contains(rec.Body.String(), "Shopping list:\n\n1) flour - 300 g")
}

func (s *APISuite) TestShoppingListDownload_EmptyIs400() {
	rec := s.do(http.MethodGet, "/purchases/download", nil, s.reader)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APISuite) TestRecipeRedirect_CanonicalURL() {
	recipe := s.catalog.Recipe(s.T(), testutils.RecipeSpec{Author: s.author})

	rec := s.do(http.MethodGet, "/recipes/"+recipe.ID().String(), nil, nil)
	s.Equal(http.StatusFound, rec.Code)
	s.Equal(fmt.Sprintf("/recipes/%s/%s", recipe.ID(), recipe.Slug()), rec.Header().Get("Location"))
}

func (s *APISuite) TestRecipeEdit_NonOwnerRedirectedToView() {
	recipe := s.catalog.Recipe(s.T(), testutils.RecipeSpec{Author: s.author})
	target := fmt.Sprintf("/recipes/%s/%s/edit", recipe.ID(), recipe.Slug())

	rec := s.do(http.MethodGet, target, nil, s.reader)
	s.Equal(http.StatusFound, rec.Code)
	s.Equal(fmt.Sprintf("/recipes/%s/%s", recipe.ID(), recipe.Slug()), rec.Header().Get("Location"))
}

func (s *APISuite) TestIngredientQuery() {
	s.catalog.Product(s.T(), "potato", "kg")
	s.catalog.Product(s.T(), "pork", "g")
	s.catalog.Product(s.T(), "milk", "l")

	rec := s.do(http.MethodGet, "/ingredients?query=po", nil, s.reader)
	s.Equal(http.StatusOK, rec.Code)

	var products []map[string]string
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &products))
	s.Require().Len(products, 2)
	s.Equal("pork", products[0]["title"])
	s.Equal("potato", products[1]["title"])
}

func (s *APISuite) TestIngredientQuery_RequiresAuth() {
	rec := s.do(http.MethodGet, "/ingredients?query=po", nil, nil)
	s.Equal(http.StatusFound, rec.Code)
}

func (s *APISuite) TestTagFilter_ComposesWithListing() {
	breakfast := s.catalog.Tag(s.T(), "breakfast")
	s.catalog.Recipe(s.T(), testutils.RecipeSpec{Author: s.author, Tags: []catalog.Tag{breakfast}})
	s.catalog.Recipe(s.T(), testutils.RecipeSpec{Author: s.author})

	rec := s.do(http.MethodGet, "/?tag=breakfast", nil, nil)
	s.Equal(http.StatusOK, rec.Code)

	var page struct {
		Total int `json:"total"`
		Tags  []string
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &page))
	s.Equal(1, page.Total)

	rec = s.do(http.MethodGet, "/", nil, nil)
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &page))
	s.Equal(2, page.Total, "no tag filter matches everything")
}

func (s *APISuite) TestAuthFlow_RegisterLoginLogout() {
	rec := s.do(http.MethodPost, "/auth/register", map[string]string{
		"username": "carol",
		"email":    "carol@example.com",
		"password": "password123",
	}, nil)
	s.Equal(http.StatusCreated, rec.Code)

	rec = s.do(http.MethodPost, "/auth/login", map[string]string{
		"username": "carol",
		"password": "password123",
		"next":     "/favorites",
	}, nil)
	s.Equal(http.StatusOK, rec.Code)

	var body struct {
		Redirect string `json:"redirect"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal("/favorites", body.Redirect)

	cookies := rec.Result().Cookies()
	s.Require().NotEmpty(cookies)
	s.Equal(s.sessions.CookieName(), cookies[0].Name)
	s.NotEmpty(cookies[0].Value)

	rec = s.do(http.MethodPost, "/auth/login", map[string]string{
		"username": "carol",
		"password": "wrong-password",
	}, nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *APISuite) TestHealth() {
	rec := s.do(http.MethodGet, "/health", nil, nil)
	s.Equal(http.StatusOK, rec.Code)
}
