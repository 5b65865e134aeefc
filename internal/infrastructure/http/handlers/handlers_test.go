package handlers

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pantrymatch/v1/internal/ports/inbound"
	"github.com/pantrymatch/v1/pkg/errors"
	"github.com/pantrymatch/v1/test/testutils"
)

func TestWriteError_MasksInternalFailures(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	writeError(rec, req, zap.NewNop(), errors.NewDatabaseError("list cuisines", stderrors.New("pq: password authentication failed")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body errors.ErrorResponse
	testutils.DecodeJSON(t, rec, &body)
	assert.Equal(t, "Something went wrong", body.Error)
	assert.Empty(t, body.Details)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestWriteError_PlainErrorIs500(t *testing.T) {
	rec := httptest.NewRecorder()

	writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), zap.NewNop(), stderrors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		code  errors.ErrorCode
		field string
	}{
		{"empty body", "", errors.CodeBadRequest, ""},
		{"malformed", "{", errors.CodeBadRequest, ""},
		{"wrong type", `{"ids":["a"]}`, errors.CodeValidationFailed, "ids"},
		{"missing ids", `{}`, errors.CodeValidationFailed, "ids"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/", strings.NewReader(tt.body))
			var target RemoveIngredientsRequest

			err := decodeJSON(req, &target)

			appErr := testutils.AssertAppError(t, err, tt.code)
			if tt.field != "" {
				fields, ok := appErr.Metadata["fields"].(errors.FieldErrors)
				require.True(t, ok)
				assert.Contains(t, fields, tt.field)
			}
		})
	}
}

func TestPagination(t *testing.T) {
	fields := errors.FieldErrors{}
	req := httptest.NewRequest(http.MethodGet, "/?offset=5&pageSize=10&pageSize=15", nil)

	params := pagination(req.URL.Query(), fields)

	assert.Empty(t, fields)
	assert.Equal(t, inbound.PaginationParams{Offset: 5, PageSize: 15}, params, "last repeated value wins")

	fields = errors.FieldErrors{}
	pagination(httptest.NewRequest(http.MethodGet, "/?offset=x&pageSize=-2", nil).URL.Query(), fields)
	assert.Equal(t, []string{"must be an integer"}, fields["offset"])
	assert.Equal(t, []string{"must be greater than 0"}, fields["pageSize"])
}

func TestPathID(t *testing.T) {
	withParam := func(value string) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("user_id", value)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	id, err := pathID(withParam("42"), "user_id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"0", "-1", "abc", ""} {
		_, err := pathID(withParam(bad), "user_id")
		testutils.AssertAppError(t, err, errors.CodeValidationFailed, bad)
	}
}

type stubRecipes struct {
	inbound.RecipeService
	query inbound.RecommendationQuery
}

func (s *stubRecipes) RecommendRecipes(_ context.Context, q inbound.RecommendationQuery) ([]inbound.RecipeSummaryDTO, error) {
	s.query = q
	return []inbound.RecipeSummaryDTO{}, nil
}

func TestRecommendations_PassesFilters(t *testing.T) {
	// Arrange
	stub := &stubRecipes{}
	h := NewRecipeHandlers(stub, zap.NewNop())
	r := chi.NewRouter()
	r.Get("/users/{user_id}/recipes/recommended-recipes", h.Recommendations)

	// Act
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/3/recipes/recommended-recipes?cuisine_id=7", nil))

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"recommendations":[]}`, rec.Body.String())
	assert.Equal(t, int64(3), stub.query.UserID)
	assert.Nil(t, stub.query.CategoryID)
	require.NotNil(t, stub.query.CuisineID)
	assert.Equal(t, int64(7), *stub.query.CuisineID)
}
