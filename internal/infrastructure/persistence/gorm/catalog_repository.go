package gorm

import (
	"context"
	"strings"

	"github.com/pantrymatch/v1/internal/domain/catalog"
	"github.com/pantrymatch/v1/internal/domain/shared"
	"github.com/pantrymatch/v1/internal/ports/outbound"
	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// CatalogRepository reads categories and cuisines
type CatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *gorm.DB) outbound.CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListCategories filters by case-insensitive substring and orders by id
func (r *CatalogRepository) ListCategories(ctx context.Context, query string, page shared.PageRequest) ([]catalog.Category, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Model(&CategoryModel{})
		if q := strings.TrimSpace(query); q != "" {
			pattern := "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
			db = db.Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern)
		}
		return db
	}

	var total int64
	if err := conn(ctx, r.db).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []CategoryModel
	err := conn(ctx, r.db).
		Scopes(scope).
		Order("id").
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	categories := make([]catalog.Category, len(models))
	for i := range models {
		categories[i] = modelToCategory(&models[i])
	}
	return categories, total, nil
}

// ListCuisines returns every cuisine ordered by name
func (r *CatalogRepository) ListCuisines(ctx context.Context) ([]catalog.Cuisine, error) {
	var models []CuisineModel
	if err := conn(ctx, r.db).Order("name").Find(&models).Error; err != nil {
		return nil, err
	}

	cuisines := make([]catalog.Cuisine, len(models))
	for i := range models {
		cuisines[i] = modelToCuisine(&models[i])
	}
	return cuisines, nil
}
