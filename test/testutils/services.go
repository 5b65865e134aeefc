package testutils

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	ingredientapp "github.com/pantrymatch/v1/internal/application/ingredient"
	userapp "github.com/pantrymatch/v1/internal/application/user"
	"github.com/pantrymatch/v1/internal/domain/ingredient"
	repo "github.com/pantrymatch/v1/internal/infrastructure/persistence/gorm"
	"github.com/pantrymatch/v1/internal/ports/inbound"
)

// NewUserChecker returns a user service over db for tests that only need
// the existence check.
func NewUserChecker(db *gorm.DB) inbound.UserChecker {
	resolver := ingredientapp.NewService(repo.NewIngredientRepository(db), ingredient.DefaultThresholds(), zap.NewNop())
	return userapp.NewUserService(
		repo.NewUserRepository(db),
		repo.NewPantryRepository(db),
		resolver,
		repo.NewTransactor(db),
		zap.NewNop(),
	)
}
