package testutils

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "github.com/pantrymatch/v1/pkg/errors"
)

// AssertAppError checks that err is an AppError carrying code
func AssertAppError(t testing.TB, err error, code apperrors.ErrorCode, msgAndArgs ...interface{}) *apperrors.AppError {
	t.Helper()
	require.Error(t, err, msgAndArgs...)
	appErr, ok := apperrors.As(err)
	require.True(t, ok, "expected *AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code, msgAndArgs...)
	return appErr
}

// AssertRowCount checks how many rows table holds
func AssertRowCount(t testing.TB, db *gorm.DB, table string, expected int64, msgAndArgs ...interface{}) {
	t.Helper()
	var n int64
	require.NoError(t, db.Table(table).Count(&n).Error)
	assert.Equal(t, expected, n, msgAndArgs...)
}

// DecodeJSON unmarshals a recorded response body into target
func DecodeJSON(t testing.TB, rec *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), target), "body: %s", rec.Body.String())
}
