package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/pantrymatch/v1/internal/ports/inbound"
	"github.com/pantrymatch/v1/pkg/errors"
)

// CatalogHandlers serves ingredient search and reference data
type CatalogHandlers struct {
	ingredients inbound.IngredientService
	catalog     inbound.CatalogService
	logger      *zap.Logger
}

// NewCatalogHandlers creates a new catalog handlers instance
func NewCatalogHandlers(ingredients inbound.IngredientService, catalog inbound.CatalogService, logger *zap.Logger) *CatalogHandlers {
	return &CatalogHandlers{
		ingredients: ingredients,
		catalog:     catalog,
		logger:      logger.Named("catalog-handlers"),
	}
}

func searchQuery(r *http.Request) (inbound.SearchQuery, error) {
	q := r.URL.Query()
	fields := errors.FieldErrors{}
	query := inbound.SearchQuery{
		Query:            strings.TrimSpace(q.Get("query")),
		PaginationParams: pagination(q, fields),
	}
	return query, fieldErr(fields)
}

// Ingredients handles GET /ingredients
func (h *CatalogHandlers) Ingredients(w http.ResponseWriter, r *http.Request) {
	query, err := searchQuery(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	list, err := h.ingredients.SearchIngredients(r.Context(), query)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, list)
}

// Categories handles GET /categories
func (h *CatalogHandlers) Categories(w http.ResponseWriter, r *http.Request) {
	query, err := searchQuery(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	list, err := h.catalog.ListCategories(r.Context(), query)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, list)
}

// Cuisines handles GET /cuisines
func (h *CatalogHandlers) Cuisines(w http.ResponseWriter, r *http.Request) {
	cuisines, err := h.catalog.ListCuisines(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]interface{}{"cuisines": cuisines})
}
