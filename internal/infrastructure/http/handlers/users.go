package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/pantrymatch/v1/internal/ports/inbound"
	"github.com/pantrymatch/v1/pkg/errors"
)

const emptyAdditionMessage = "either ingredientsInDB or ingredientsNotInDB must contain at least one value"

// IngredientsPayload names existing catalog ids and free-text names
type IngredientsPayload struct {
	InDB    []int64  `json:"ingredientsInDB"`
	NotInDB []string `json:"ingredientsNotInDB" validate:"dive,notblank"`
}

func (p IngredientsPayload) empty() bool {
	return len(p.InDB) == 0 && len(p.NotInDB) == 0
}

// CreateUserRequest is the body of POST /users
type CreateUserRequest struct {
	UserEmail   string              `json:"userEmail" validate:"required,email"`
	Ingredients *IngredientsPayload `json:"ingredients" validate:"required"`
}

type userByEmailQuery struct {
	Email string `query:"email" validate:"required,email"`
}

// UserHandlers serves user registration and lookup
type UserHandlers struct {
	users  inbound.UserService
	logger *zap.Logger
}

// NewUserHandlers creates a new user handlers instance
func NewUserHandlers(users inbound.UserService, logger *zap.Logger) *UserHandlers {
	return &UserHandlers{users: users, logger: logger.Named("user-handlers")}
}

// CreateUser handles POST /users
func (h *UserHandlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if req.Ingredients.empty() {
		writeError(w, r, h.logger, errors.NewBadRequestError(emptyAdditionMessage))
		return
	}

	created, err := h.users.CreateUser(r.Context(), inbound.CreateUserCommand{
		Email:           req.UserEmail,
		IngredientIDs:   req.Ingredients.InDB,
		IngredientNames: req.Ingredients.NotInDB,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]int64{"id": created.ID})
}

// GetUserByEmail handles GET /users?email=
func (h *UserHandlers) GetUserByEmail(w http.ResponseWriter, r *http.Request) {
	q := userByEmailQuery{Email: r.URL.Query().Get("email")}
	if err := validateStruct(q); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	found, err := h.users.GetUserByEmail(r.Context(), q.Email)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, found)
}
