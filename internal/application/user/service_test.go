package user_test

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/gorm"

	ingredientapp "github.com/pantrymatch/v1/internal/application/ingredient"
	"github.com/pantrymatch/v1/internal/application/user"
	"github.com/pantrymatch/v1/internal/domain/ingredient"
	repo "github.com/pantrymatch/v1/internal/infrastructure/persistence/gorm"
	"github.com/pantrymatch/v1/internal/ports/inbound"
	apperrors "github.com/pantrymatch/v1/pkg/errors"
	"github.com/pantrymatch/v1/test/testutils"
)

type UserServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	db       *gorm.DB
	fixtures *testutils.Fixtures
	service  *user.UserService
}

func (s *UserServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = testutils.NewSQLiteDB(s.T())
	s.fixtures = testutils.NewFixtures(s.T(), s.db, 11)

	resolver := ingredientapp.NewService(repo.NewIngredientRepository(s.db), ingredient.DefaultThresholds(), zap.NewNop())
	s.service = user.NewUserService(
		repo.NewUserRepository(s.db),
		repo.NewPantryRepository(s.db),
		resolver,
		repo.NewTransactor(s.db),
		zap.NewNop(),
	)
}

func (s *UserServiceTestSuite) TestCreateUser_WithInitialPantry() {
	// Arrange
	salt := s.fixtures.Ingredient("salt")
	email := gofakeit.Email()

	// Act
	created, err := s.service.CreateUser(s.ctx, inbound.CreateUserCommand{
		Email:           email,
		IngredientIDs:   []int64{salt},
		IngredientNames: []string{"Rosemary"},
	})

	// Assert
	s.Require().NoError(err)
	s.NotZero(created.ID)
	s.Equal(email, created.Email)
	testutils.AssertRowCount(s.T(), s.db, "user_ingredients", 2)
	testutils.AssertRowCount(s.T(), s.db, "ingredients", 2)
}

func (s *UserServiceTestSuite) TestCreateUser_DuplicateEmail() {
	email := gofakeit.Email()
	_, err := s.service.CreateUser(s.ctx, inbound.CreateUserCommand{Email: email, IngredientNames: []string{"salt"}})
	s.Require().NoError(err)

	_, err = s.service.CreateUser(s.ctx, inbound.CreateUserCommand{Email: email, IngredientNames: []string{"pepper"}})

	appErr := testutils.AssertAppError(s.T(), err, apperrors.CodeEmailAlreadyExists)
	s.Equal("This email already exists", appErr.Message)
	s.Equal(400, appErr.StatusCode())
	testutils.AssertRowCount(s.T(), s.db, "users", 1)
	testutils.AssertRowCount(s.T(), s.db, "ingredients", 1, "pepper was never resolved")
}

func (s *UserServiceTestSuite) TestCreateUser_FailureRollsBackUser() {
	_, err := s.service.CreateUser(s.ctx, inbound.CreateUserCommand{
		Email:           gofakeit.Email(),
		IngredientNames: []string{"basil", "  "},
	})

	testutils.AssertAppError(s.T(), err, apperrors.CodeValidationFailed)
	testutils.AssertRowCount(s.T(), s.db, "users", 0)
}

func (s *UserServiceTestSuite) TestCreateUser_UnknownIngredientIDRollsBack() {
	_, err := s.service.CreateUser(s.ctx, inbound.CreateUserCommand{
		Email:         gofakeit.Email(),
		IngredientIDs: []int64{321},
	})

	appErr := testutils.AssertAppError(s.T(), err, apperrors.CodeIngredientNotFound)
	s.Equal(404, appErr.StatusCode())
	testutils.AssertRowCount(s.T(), s.db, "users", 0)
}

func (s *UserServiceTestSuite) TestCreateUser_Validation() {
	tests := []struct {
		name string
		cmd  inbound.CreateUserCommand
	}{
		{"blank email", inbound.CreateUserCommand{Email: "  ", IngredientNames: []string{"salt"}}},
		{"no ingredients", inbound.CreateUserCommand{Email: gofakeit.Email()}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.CreateUser(s.ctx, tt.cmd)

			testutils.AssertAppError(s.T(), err, apperrors.CodeValidationFailed)
		})
	}
}

func (s *UserServiceTestSuite) TestGetUserByEmail() {
	email := gofakeit.Email()
	created, err := s.service.CreateUser(s.ctx, inbound.CreateUserCommand{Email: email, IngredientNames: []string{"salt"}})
	s.Require().NoError(err)

	found, err := s.service.GetUserByEmail(s.ctx, email)
	s.Require().NoError(err)
	s.Equal(created.ID, found.ID)

	_, err = s.service.GetUserByEmail(s.ctx, "missing@example.com")
	appErr := testutils.AssertAppError(s.T(), err, apperrors.CodeUserNotFound)
	s.Equal("User not found", appErr.Message)
}

func (s *UserServiceTestSuite) TestEnsureExists() {
	id := s.fixtures.User()

	s.NoError(s.service.EnsureExists(s.ctx, id))
	testutils.AssertAppError(s.T(), s.service.EnsureExists(s.ctx, id+100), apperrors.CodeUserNotFound)
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
