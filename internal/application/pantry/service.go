// Package pantry implements the pantry membership use cases
package pantry

import (
	"context"
	stderrors "errors"

	"go.uber.org/zap"

	"github.com/pantrymatch/v1/internal/domain/pantry"
	"github.com/pantrymatch/v1/internal/domain/shared"
	"github.com/pantrymatch/v1/internal/ports/inbound"
	"github.com/pantrymatch/v1/internal/ports/outbound"
	"github.com/pantrymatch/v1/pkg/errors"
)

// Resolver maps free-text ingredient names to catalog ids and vouches for
// ids supplied directly by clients.
type Resolver interface {
	ResolveAll(ctx context.Context, rawNames []string) ([]int64, error)
	EnsureKnown(ctx context.Context, ids []int64) error
}

// Service implements inbound.PantryService
type Service struct {
	pantries outbound.PantryRepository
	users    inbound.UserChecker
	resolver Resolver
	tx       outbound.Transactor
	logger   *zap.Logger
}

// NewService creates a new pantry service
func NewService(
	pantries outbound.PantryRepository,
	users inbound.UserChecker,
	resolver Resolver,
	tx outbound.Transactor,
	logger *zap.Logger,
) *Service {
	return &Service{
		pantries: pantries,
		users:    users,
		resolver: resolver,
		tx:       tx,
		logger:   logger.Named("pantry-service"),
	}
}

var _ inbound.PantryService = (*Service)(nil)

// AddPantryIngredients adds one membership per explicit id followed by one per
// resolved name. Resolution and inserts share a transaction.
func (s *Service) AddPantryIngredients(ctx context.Context, cmd inbound.AddPantryIngredientsCommand) error {
	if len(cmd.IngredientIDs) == 0 && len(cmd.IngredientNames) == 0 {
		return errors.NewValidationError(pantry.ErrEmptyAddition.Error()).WithCause(pantry.ErrEmptyAddition)
	}
	if err := s.users.EnsureExists(ctx, cmd.UserID); err != nil {
		return err
	}

	var added int
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		n, err := AddIngredients(ctx, s.pantries, s.resolver, cmd.UserID, cmd.IngredientIDs, cmd.IngredientNames)
		added = n
		return err
	})
	if err != nil {
		return err
	}

	s.logger.Info("Pantry ingredients added",
		zap.Int64("user_id", cmd.UserID),
		zap.Int("count", added),
	)
	return nil
}

// AddIngredients rejects unknown ids, resolves names and inserts memberships
// for userID. It runs on whatever transaction ctx carries and reports how
// many rows it wrote.
func AddIngredients(
	ctx context.Context,
	pantries outbound.PantryRepository,
	resolver Resolver,
	userID int64,
	ids []int64,
	names []string,
) (int, error) {
	if err := resolver.EnsureKnown(ctx, ids); err != nil {
		return 0, err
	}
	resolved, err := resolver.ResolveAll(ctx, names)
	if err != nil {
		return 0, err
	}

	all := pantry.MergeIngredientIDs(ids, resolved)
	if len(all) == 0 {
		return 0, nil
	}
	if err := pantries.AddItems(ctx, userID, all); err != nil {
		return 0, errors.NewDatabaseError("add pantry ingredients", err)
	}
	return len(all), nil
}

// ReplacePantryIngredient points one of the user's memberships at another
// ingredient, given by id or resolved from its name.
func (s *Service) ReplacePantryIngredient(ctx context.Context, cmd inbound.ReplacePantryIngredientCommand) error {
	if cmd.IngredientID == nil && cmd.IngredientName == "" {
		return errors.NewValidationError("ingredient name is required")
	}
	if err := s.users.EnsureExists(ctx, cmd.UserID); err != nil {
		return err
	}

	var ingredientID int64
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.pantries.FindItem(ctx, cmd.UserID, cmd.MembershipID); err != nil {
			return s.itemError(cmd.MembershipID, err)
		}

		if cmd.IngredientID != nil {
			if err := s.resolver.EnsureKnown(ctx, []int64{*cmd.IngredientID}); err != nil {
				return err
			}
			ingredientID = *cmd.IngredientID
		} else {
			ids, err := s.resolver.ResolveAll(ctx, []string{cmd.IngredientName})
			if err != nil {
				return err
			}
			ingredientID = ids[0]
		}

		if err := s.pantries.UpdateIngredient(ctx, cmd.MembershipID, ingredientID); err != nil {
			return s.itemError(cmd.MembershipID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Pantry ingredient replaced",
		zap.Int64("user_id", cmd.UserID),
		zap.Int64("membership_id", cmd.MembershipID),
		zap.Int64("ingredient_id", ingredientID),
	)
	return nil
}

// RemovePantryIngredients deletes the user's memberships with the given ids.
// Unknown ids are ignored and an empty list is a no-op.
func (s *Service) RemovePantryIngredients(ctx context.Context, cmd inbound.RemovePantryIngredientsCommand) error {
	ids := pantry.UniqueIDs(cmd.MembershipIDs)
	if len(ids) == 0 {
		return nil
	}
	if err := s.users.EnsureExists(ctx, cmd.UserID); err != nil {
		return err
	}

	var removed int64
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		n, err := s.pantries.DeleteItems(ctx, cmd.UserID, ids)
		removed = n
		return err
	})
	if err != nil {
		return errors.NewDatabaseError("remove pantry ingredients", err)
	}

	s.logger.Info("Pantry ingredients removed",
		zap.Int64("user_id", cmd.UserID),
		zap.Int64("count", removed),
	)
	return nil
}

// ListPantryIngredients returns one page of memberships ordered by id
func (s *Service) ListPantryIngredients(ctx context.Context, userID int64, params inbound.PaginationParams) (*inbound.PantryList, error) {
	page, err := shared.NewPageRequest(params.Offset, params.PageSize)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := s.users.EnsureExists(ctx, userID); err != nil {
		return nil, err
	}

	items, total, err := s.pantries.ListItems(ctx, userID, page)
	if err != nil {
		return nil, errors.NewDatabaseError("list pantry ingredients", err)
	}

	list := &inbound.PantryList{
		Ingredients: make([]inbound.PantryItemDTO, 0, len(items)),
		PageDTO:     inbound.NewPageDTO(shared.NewPage(page, total)),
	}
	for _, item := range items {
		list.Ingredients = append(list.Ingredients, inbound.PantryItemDTO{
			ID:           item.ID,
			IngredientID: item.IngredientID,
			Ingredient: inbound.IngredientDTO{
				ID:   item.Ingredient.ID,
				Name: item.Ingredient.Name,
			},
		})
	}
	return list, nil
}

func (s *Service) itemError(itemID int64, err error) error {
	if stderrors.Is(err, pantry.ErrItemNotFound) {
		return errors.NewPantryItemNotFoundError(itemID).WithCause(err)
	}
	if _, ok := errors.As(err); ok {
		return err
	}
	return errors.NewDatabaseError("update pantry ingredient", err)
}
