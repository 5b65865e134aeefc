package catalog_test

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pantrymatch/v1/internal/application/catalog"
	domain "github.com/pantrymatch/v1/internal/domain/catalog"
	"github.com/pantrymatch/v1/internal/domain/shared"
	"github.com/pantrymatch/v1/internal/infrastructure/persistence/memory"
	"github.com/pantrymatch/v1/internal/ports/inbound"
	apperrors "github.com/pantrymatch/v1/pkg/errors"
	"github.com/pantrymatch/v1/test/testutils"
)

func TestListCuisines_CachesAfterFirstRead(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := new(testutils.MockCatalogRepository)
	repo.On("ListCuisines", mock.Anything).
		Return([]domain.Cuisine{{ID: 2, Name: "French"}, {ID: 1, Name: "Italian"}}, nil).
		Once()
	cache := memory.NewCacheRepository(0)
	svc := catalog.NewService(repo, cache, time.Minute, zap.NewNop())

	// Act
	first, err := svc.ListCuisines(ctx)
	require.NoError(t, err)
	second, err := svc.ListCuisines(ctx)
	require.NoError(t, err)

	// Assert
	want := []inbound.CuisineDTO{{ID: 2, Name: "French"}, {ID: 1, Name: "Italian"}}
	assert.Equal(t, want, first)
	assert.Equal(t, want, second)
	repo.AssertNumberOfCalls(t, "ListCuisines", 1)
}

func TestListCuisines_CacheErrorsFallThrough(t *testing.T) {
	ctx := context.Background()
	repo := new(testutils.MockCatalogRepository)
	repo.On("ListCuisines", mock.Anything).Return([]domain.Cuisine{{ID: 1, Name: "Mexican"}}, nil)
	cache := new(testutils.MockCacheRepository)
	cache.On("Get", mock.Anything, "catalog:cuisines").Return(nil, stderrors.New("redis down"))
	cache.On("Set", mock.Anything, "catalog:cuisines", mock.Anything, time.Minute).Return(stderrors.New("redis down"))
	svc := catalog.NewService(repo, cache, time.Minute, zap.NewNop())

	got, err := svc.ListCuisines(ctx)

	require.NoError(t, err)
	assert.Equal(t, []inbound.CuisineDTO{{ID: 1, Name: "Mexican"}}, got)
	cache.AssertExpectations(t)
}

func TestListCuisines_CorruptEntryIsDiscarded(t *testing.T) {
	ctx := context.Background()
	repo := new(testutils.MockCatalogRepository)
	repo.On("ListCuisines", mock.Anything).Return([]domain.Cuisine{}, nil)
	cache := memory.NewCacheRepository(0)
	require.NoError(t, cache.Set(ctx, "catalog:cuisines", []byte("{not json"), time.Minute))
	svc := catalog.NewService(repo, cache, time.Minute, zap.NewNop())

	got, err := svc.ListCuisines(ctx)

	require.NoError(t, err)
	assert.Empty(t, got)
	data, err := cache.Get(ctx, "catalog:cuisines")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestListCategories(t *testing.T) {
	ctx := context.Background()

	t.Run("pages and filters", func(t *testing.T) {
		repo := new(testutils.MockCatalogRepository)
		repo.On("ListCategories", mock.Anything, "dess", shared.PageRequest{Offset: 0, Limit: 1}).
			Return([]domain.Category{{ID: 4, Name: "Dessert"}}, int64(2), nil)
		svc := catalog.NewService(repo, nil, time.Minute, zap.NewNop())

		list, err := svc.ListCategories(ctx, inbound.SearchQuery{
			Query:            "dess",
			PaginationParams: inbound.PaginationParams{PageSize: 1},
		})

		require.NoError(t, err)
		assert.Equal(t, []inbound.CategoryDTO{{ID: 4, Name: "Dessert"}}, list.Categories)
		assert.Equal(t, int64(2), list.Total)
		assert.True(t, list.HasMore)
	})

	t.Run("database failure", func(t *testing.T) {
		repo := new(testutils.MockCatalogRepository)
		repo.On("ListCategories", mock.Anything, "", shared.PageRequest{Limit: shared.DefaultPageSize}).
			Return(nil, int64(0), stderrors.New("boom"))
		svc := catalog.NewService(repo, nil, time.Minute, zap.NewNop())

		_, err := svc.ListCategories(ctx, inbound.SearchQuery{})

		testutils.AssertAppError(t, err, apperrors.CodeDatabaseError)
	})
}
