package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/pantrymatch/v1/internal/ports/inbound"
	"github.com/pantrymatch/v1/pkg/errors"
)

// ReplaceIngredientRequest is the body of PUT /users/{user_id}/ingredients/{id}
type ReplaceIngredientRequest struct {
	Ingredient *struct {
		ID   *int64 `json:"id"`
		Name string `json:"name" validate:"required,notblank"`
	} `json:"ingredient" validate:"required"`
}

// RemoveIngredientsRequest is the body of DELETE /users/{user_id}/ingredients
type RemoveIngredientsRequest struct {
	IDs []int64 `json:"ids" validate:"required"`
}

// PantryHandlers serves a user's ingredient memberships
type PantryHandlers struct {
	pantry inbound.PantryService
	logger *zap.Logger
}

// NewPantryHandlers creates a new pantry handlers instance
func NewPantryHandlers(pantry inbound.PantryService, logger *zap.Logger) *PantryHandlers {
	return &PantryHandlers{pantry: pantry, logger: logger.Named("pantry-handlers")}
}

// AddIngredients handles POST /users/{user_id}/ingredients
func (h *PantryHandlers) AddIngredients(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req IngredientsPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if req.empty() {
		writeError(w, r, h.logger, errors.NewBadRequestError(emptyAdditionMessage))
		return
	}

	err = h.pantry.AddPantryIngredients(r.Context(), inbound.AddPantryIngredientsCommand{
		UserID:          userID,
		IngredientIDs:   req.InDB,
		IngredientNames: req.NotInDB,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeOK(w)
}

// ListIngredients handles GET /users/{user_id}/ingredients
func (h *PantryHandlers) ListIngredients(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	fields := errors.FieldErrors{}
	params := pagination(r.URL.Query(), fields)
	if err := fieldErr(fields); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	list, err := h.pantry.ListPantryIngredients(r.Context(), userID, params)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, list)
}

// ReplaceIngredient handles PUT /users/{user_id}/ingredients/{id}
func (h *PantryHandlers) ReplaceIngredient(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	membershipID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req ReplaceIngredientRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	err = h.pantry.ReplacePantryIngredient(r.Context(), inbound.ReplacePantryIngredientCommand{
		UserID:         userID,
		MembershipID:   membershipID,
		IngredientID:   req.Ingredient.ID,
		IngredientName: req.Ingredient.Name,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeOK(w)
}

// RemoveIngredients handles DELETE /users/{user_id}/ingredients
func (h *PantryHandlers) RemoveIngredients(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req RemoveIngredientsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	err = h.pantry.RemovePantryIngredients(r.Context(), inbound.RemovePantryIngredientsCommand{
		UserID:        userID,
		MembershipIDs: req.IDs,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeOK(w)
}
