// Package user provides the application layer for user registration
package user

import (
	"context"
	stderrors "errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/pantrymatch/v1/internal/application/pantry"
	domainpantry "github.com/pantrymatch/v1/internal/domain/pantry"
	"github.com/pantrymatch/v1/internal/domain/user"
	"github.com/pantrymatch/v1/internal/ports/inbound"
	"github.com/pantrymatch/v1/internal/ports/outbound"
	"github.com/pantrymatch/v1/pkg/errors"
)

// UserService registers pantry owners
type UserService struct {
	userRepo   outbound.UserRepository
	pantryRepo outbound.PantryRepository
	resolver   pantry.Resolver
	tx         outbound.Transactor
	logger     *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo outbound.UserRepository,
	pantryRepo outbound.PantryRepository,
	resolver pantry.Resolver,
	tx outbound.Transactor,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		pantryRepo: pantryRepo,
		resolver:   resolver,
		tx:         tx,
		logger:     logger.Named("user-service"),
	}
}

var _ inbound.UserService = (*UserService)(nil)

// CreateUser registers email together with its initial pantry. Nothing is
// written unless every step succeeds.
func (s *UserService) CreateUser(ctx context.Context, cmd inbound.CreateUserCommand) (*inbound.UserDTO, error) {
	u, err := user.NewUser(cmd.Email)
	if err != nil {
		return nil, errors.NewValidationError(err.Error()).WithCause(err)
	}
	if len(cmd.IngredientIDs) == 0 && len(cmd.IngredientNames) == 0 {
		return nil, errors.NewValidationError(domainpantry.ErrEmptyAddition.Error()).WithCause(domainpantry.ErrEmptyAddition)
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.userRepo.FindByEmail(ctx, u.Email); err == nil {
			return errors.NewEmailAlreadyExistsError(u.Email)
		} else if !stderrors.Is(err, user.ErrUserNotFound) {
			return errors.NewDatabaseError("look up user", err)
		}

		if err := s.userRepo.Create(ctx, u); err != nil {
			if stderrors.Is(err, user.ErrEmailTaken) {
				return errors.NewEmailAlreadyExistsError(u.Email).WithCause(err)
			}
			return errors.NewDatabaseError("create user", err)
		}

		_, err := pantry.AddIngredients(ctx, s.pantryRepo, s.resolver, u.ID, cmd.IngredientIDs, cmd.IngredientNames)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User created",
		zap.Int64("user_id", u.ID),
		zap.Int("ingredient_ids", len(cmd.IngredientIDs)),
		zap.Int("ingredient_names", len(cmd.IngredientNames)),
	)

	return &inbound.UserDTO{ID: u.ID, Email: u.Email}, nil
}

// GetUserByEmail looks a user up by exact email
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*inbound.UserDTO, error) {
	u, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if stderrors.Is(err, user.ErrUserNotFound) {
			return nil, errors.NewUserNotFoundError(email).WithCause(err)
		}
		return nil, errors.NewDatabaseError("find user by email", err)
	}
	return &inbound.UserDTO{ID: u.ID, Email: u.Email}, nil
}

// EnsureExists fails with USER_NOT_FOUND for unknown ids
func (s *UserService) EnsureExists(ctx context.Context, userID int64) error {
	ok, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return errors.NewDatabaseError("check user existence", err)
	}
	if !ok {
		return errors.NewUserNotFoundError(strconv.FormatInt(userID, 10))
	}
	return nil
}
