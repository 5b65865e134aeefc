package testutils

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/pantrymatch/v1/internal/domain/catalog"
	"github.com/pantrymatch/v1/internal/domain/ingredient"
	"github.com/pantrymatch/v1/internal/domain/shared"
	"github.com/pantrymatch/v1/internal/ports/inbound"
	"github.com/pantrymatch/v1/internal/ports/outbound"
)

// MockIngredientRepository is a testify mock of outbound.IngredientRepository
type MockIngredientRepository struct {
	mock.Mock
}

var _ outbound.IngredientRepository = (*MockIngredientRepository)(nil)

func (m *MockIngredientRepository) Similar(ctx context.Context, name string, threshold float64) ([]ingredient.Ingredient, error) {
	args := m.Called(ctx, name, threshold)
	items, _ := args.Get(0).([]ingredient.Ingredient)
	return items, args.Error(1)
}

func (m *MockIngredientRepository) ListPage(ctx context.Context, page shared.PageRequest) ([]ingredient.Ingredient, int64, error) {
	args := m.Called(ctx, page)
	items, _ := args.Get(0).([]ingredient.Ingredient)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *MockIngredientRepository) FindByIDs(ctx context.Context, ids []int64) ([]ingredient.Ingredient, error) {
	args := m.Called(ctx, ids)
	items, _ := args.Get(0).([]ingredient.Ingredient)
	return items, args.Error(1)
}

func (m *MockIngredientRepository) CreateOrGet(ctx context.Context, name string) (ingredient.Ingredient, bool, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(ingredient.Ingredient), args.Bool(1), args.Error(2)
}

// MockCatalogRepository is a testify mock of outbound.CatalogRepository
type MockCatalogRepository struct {
	mock.Mock
}

var _ outbound.CatalogRepository = (*MockCatalogRepository)(nil)

func (m *MockCatalogRepository) ListCategories(ctx context.Context, query string, page shared.PageRequest) ([]catalog.Category, int64, error) {
	args := m.Called(ctx, query, page)
	items, _ := args.Get(0).([]catalog.Category)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *MockCatalogRepository) ListCuisines(ctx context.Context) ([]catalog.Cuisine, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]catalog.Cuisine)
	return items, args.Error(1)
}

// MockCacheRepository is a testify mock of outbound.CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

var _ outbound.CacheRepository = (*MockCacheRepository)(nil)

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// MockUserChecker is a testify mock of inbound.UserChecker
type MockUserChecker struct {
	mock.Mock
}

var _ inbound.UserChecker = (*MockUserChecker)(nil)

func (m *MockUserChecker) EnsureExists(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

// RecordingMetrics captures engine measurements for assertions
type RecordingMetrics struct {
	Resolutions     map[string]int
	Recommendations []int
}

// NewRecordingMetrics creates an empty recorder
func NewRecordingMetrics() *RecordingMetrics {
	return &RecordingMetrics{Resolutions: map[string]int{}}
}

func (r *RecordingMetrics) RecordResolution(outcome string) { r.Resolutions[outcome]++ }

func (r *RecordingMetrics) RecordRecommendations(count int) {
	r.Recommendations = append(r.Recommendations, count)
}
