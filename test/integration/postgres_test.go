//go:build integration
// +build integration

// Package integration runs the repositories and services against a real
// PostgreSQL instance started with testcontainers.
package integration

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	ingredientapp "github.com/pantrymatch/v1/internal/application/ingredient"
	pantryapp "github.com/pantrymatch/v1/internal/application/pantry"
	recipeapp "github.com/pantrymatch/v1/internal/application/recipe"
	userapp "github.com/pantrymatch/v1/internal/application/user"
	"github.com/pantrymatch/v1/internal/domain/ingredient"
	"github.com/pantrymatch/v1/internal/domain/recipe"
	"github.com/pantrymatch/v1/internal/domain/shared"
	repo "github.com/pantrymatch/v1/internal/infrastructure/persistence/gorm"
	"github.com/pantrymatch/v1/internal/infrastructure/persistence/migrations"
	"github.com/pantrymatch/v1/internal/ports/inbound"
	apperrors "github.com/pantrymatch/v1/pkg/errors"
	"github.com/pantrymatch/v1/test/testutils"
)

type PostgresIntegrationTestSuite struct {
	suite.Suite
	ctx      context.Context
	testDB   *testutils.TestDatabase
	fixtures *testutils.Fixtures
	resolver *ingredientapp.Service
	pantry   *pantryapp.Service
	users    *userapp.UserService
	recipes  *recipeapp.RecipeService
}

func (s *PostgresIntegrationTestSuite) SetupSuite() {
	s.ctx = context.Background()
	s.testDB = testutils.SetupTestDatabase(s.T())
	s.Require().NoError(s.testDB.RunMigrations())

	db := s.testDB.GormDB
	pantries := repo.NewPantryRepository(db)
	userRepo := repo.NewUserRepository(db)
	tx := repo.NewTransactor(db)

	s.resolver = ingredientapp.NewService(repo.NewIngredientRepository(db), ingredient.DefaultThresholds(), zap.NewNop())
	s.users = userapp.NewUserService(userRepo, pantries, s.resolver, tx, zap.NewNop())
	s.pantry = pantryapp.NewService(pantries, s.users, s.resolver, tx, zap.NewNop())
	s.recipes = recipeapp.NewRecipeService(repo.NewRecipeRepository(db), pantries, s.users, recipe.DefaultLimit, nil, zap.NewNop())
}

func (s *PostgresIntegrationTestSuite) SetupTest() {
	s.Require().NoError(s.testDB.TruncateAllTables(s.ctx))
	s.fixtures = testutils.NewFixtures(s.T(), s.testDB.GormDB, 99)
}

func (s *PostgresIntegrationTestSuite) count(table string) int64 {
	n, err := s.testDB.CountRows(s.ctx, table, "")
	s.Require().NoError(err)
	return n
}

func (s *PostgresIntegrationTestSuite) TestResolve_ConcurrentCallsCreateOneRow() {
	// Arrange
	const workers = 8
	ids := make([]int64, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup

	// Act
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], errs[i] = s.resolver.Resolve(s.ctx, "Saffron")
		}(i)
	}
	wg.Wait()

	// Assert
	for i := range errs {
		s.Require().NoError(errs[i])
		s.Equal(ids[0], ids[i])
	}
	s.Equal(int64(1), s.count("ingredients"))
}

func (s *PostgresIntegrationTestSuite) TestResolve_MatchesExistingSpelling() {
	oil := s.fixtures.Ingredient("olive oil")

	id, err := s.resolver.Resolve(s.ctx, "Olive Oils")

	s.Require().NoError(err)
	s.Equal(oil, id)
	s.Equal(int64(1), s.count("ingredients"))
}

func (s *PostgresIntegrationTestSuite) TestSimilar_PrefiltersWithTrigramIndex() {
	ids := s.fixtures.Ingredients("olive oil", "olives", "salt", "brown sugar")
	ingredients := repo.NewIngredientRepository(s.testDB.GormDB)

	narrowed, err := ingredients.Similar(s.ctx, "olive oils", ingredient.DefaultMatchThreshold)
	s.Require().NoError(err)
	everything, err := ingredients.Similar(s.ctx, "olive oils", 0.1)
	s.Require().NoError(err)

	var got []int64
	for _, ing := range narrowed {
		got = append(got, ing.ID)
	}
	s.Contains(got, ids["olive oil"])
	s.NotContains(got, ids["salt"])
	s.NotContains(got, ids["brown sugar"])
	s.Len(everything, 4, "below pg_trgm's limit the whole catalog is scored")
}

func (s *PostgresIntegrationTestSuite) TestAddIngredients_UnknownIDIs404() {
	user := s.fixtures.User()

	err := s.pantry.AddPantryIngredients(s.ctx, inbound.AddPantryIngredientsCommand{
		UserID:        user,
		IngredientIDs: []int64{424242},
	})

	testutils.AssertAppError(s.T(), err, apperrors.CodeIngredientNotFound)
	s.Equal(int64(0), s.count("user_ingredients"))
}

func (s *PostgresIntegrationTestSuite) TestCreateUser_DuplicateRollsBack() {
	// Arrange
	_, err := s.users.CreateUser(s.ctx, inbound.CreateUserCommand{
		Email:           "cook@example.com",
		IngredientNames: []string{"basil"},
	})
	s.Require().NoError(err)

	// Act
	_, err = s.users.CreateUser(s.ctx, inbound.CreateUserCommand{
		Email:           "cook@example.com",
		IngredientNames: []string{"thyme"},
	})

	// Assert
	testutils.AssertAppError(s.T(), err, apperrors.CodeEmailAlreadyExists)
	s.Equal(int64(1), s.count("users"))
	s.Equal(int64(1), s.count("ingredients"), "thyme is not left behind")
	s.Equal(int64(1), s.count("user_ingredients"))
}

func (s *PostgresIntegrationTestSuite) TestRecommendations_RankAndDetail() {
	// Arrange
	ids := s.fixtures.Ingredients("salt", "pepper", "flour", "eggs")
	user, err := s.users.CreateUser(s.ctx, inbound.CreateUserCommand{
		Email:         "baker@example.com",
		IngredientIDs: []int64{ids["salt"], ids["pepper"], ids["eggs"]},
	})
	s.Require().NoError(err)

	omelette := s.fixtures.Recipe().Named("Omelette").WithIngredients(ids["eggs"], ids["salt"], ids["pepper"]).Create()
	bread := s.fixtures.Recipe().Named("Bread").WithIngredients(ids["flour"], ids["salt"]).Create()
	s.fixtures.Recipe().Named("Pastry").WithIngredients(ids["flour"]).Create()

	// Act
	got, err := s.recipes.RecommendRecipes(s.ctx, inbound.RecommendationQuery{UserID: user.ID})
	s.Require().NoError(err)
	detail, detailErr := s.recipes.GetRecipeDetail(s.ctx, user.ID, bread)

	// Assert
	s.Require().Len(got, 2)
	s.Equal(omelette, got[0].ID)
	s.Equal(bread, got[1].ID)
	s.Require().NoError(detailErr)
	s.Equal([]string{"flour"}, detail.MissingIngredients)
}

func (s *PostgresIntegrationTestSuite) TestPantry_ReplaceAndRemove() {
	user := s.fixtures.User()
	salt := s.fixtures.Ingredient("salt")
	s.fixtures.Hold(user, salt, salt)

	list, err := s.pantry.ListPantryIngredients(s.ctx, user, inbound.PaginationParams{PageSize: 10})
	s.Require().NoError(err)
	s.Require().Len(list.Ingredients, 2)

	err = s.pantry.ReplacePantryIngredient(s.ctx, inbound.ReplacePantryIngredientCommand{
		UserID:         user,
		MembershipID:   list.Ingredients[0].ID,
		IngredientName: "Sea Salt",
	})
	s.Require().NoError(err)

	err = s.pantry.RemovePantryIngredients(s.ctx, inbound.RemovePantryIngredientsCommand{
		UserID:        user,
		MembershipIDs: []int64{list.Ingredients[1].ID},
	})
	s.Require().NoError(err)

	after, err := s.pantry.ListPantryIngredients(s.ctx, user, inbound.PaginationParams{PageSize: 10})
	s.Require().NoError(err)
	s.Require().Len(after.Ingredients, 1)
	s.Equal("Sea Salt", after.Ingredients[0].Ingredient.Name)
}

func (s *PostgresIntegrationTestSuite) TestCatalog_CategorySearchIsCaseInsensitive() {
	s.fixtures.Category("Dessert")
	s.fixtures.Category("Main Course")

	categories, total, err := repo.NewCatalogRepository(s.testDB.GormDB).
		ListCategories(s.ctx, "DESS", shared.PageRequest{Limit: 10})

	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(categories, 1)
	s.Equal("Dessert", categories[0].Name)
}

func (s *PostgresIntegrationTestSuite) TestMigrations_RollBackAndReapply() {
	m, err := migrations.NewFromURL(s.testDB.DSN, zap.NewNop())
	s.Require().NoError(err)
	defer func() { _ = m.Close() }()

	version, dirty, err := m.Version()
	s.Require().NoError(err)
	s.Equal(uint(1), version)
	s.False(dirty)

	s.Require().NoError(m.Down(1))
	version, _, err = m.Version()
	s.Require().NoError(err)
	s.Equal(uint(0), version)

	s.Require().NoError(m.Up())
	version, _, err = m.Version()
	s.Require().NoError(err)
	s.Equal(uint(1), version)
}

func TestPostgresIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(PostgresIntegrationTestSuite))
}
