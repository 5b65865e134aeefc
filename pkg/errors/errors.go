// Package errors provides the structured application error used across
// services and HTTP handlers.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// ErrorCode identifies a class of application failure
type ErrorCode string

const (
	// Client errors (4xx)
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeTooManyRequests  ErrorCode = "TOO_MANY_REQUESTS"

	// Server errors (5xx)
	CodeInternal           ErrorCode = "INTERNAL_ERROR"
	CodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	CodeDatabaseError      ErrorCode = "DATABASE_ERROR"

	// Business errors
	CodeRecipeNotFound      ErrorCode = "RECIPE_NOT_FOUND"
	CodeUserNotFound        ErrorCode = "USER_NOT_FOUND"
	CodePantryItemNotFound  ErrorCode = "PANTRY_ITEM_NOT_FOUND"
	CodeIngredientNotFound  ErrorCode = "INGREDIENT_NOT_FOUND"
	CodeEmailAlreadyExists  ErrorCode = "EMAIL_ALREADY_EXISTS"
	CodeInvalidIngredient   ErrorCode = "INVALID_INGREDIENT"
	CodePreconditionFailure ErrorCode = "PRECONDITION_FAILED"
)

// AppError represents an application error with structured information
type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode maps the error code onto an HTTP status.
// A duplicate email is reported as 400, the same as any other bad submission.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidationFailed, CodeInvalidIngredient, CodeEmailAlreadyExists:
		return http.StatusBadRequest
	case CodeNotFound, CodeRecipeNotFound, CodeUserNotFound, CodePantryItemNotFound, CodeIngredientNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause adds a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message, details string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		Details:    details,
		StackTrace: getStackTrace(),
	}
}

// NewBadRequestError creates a bad request error
func NewBadRequestError(message string) *AppError {
	return NewAppError(CodeBadRequest, message, "")
}

// NewValidationError creates a validation error
func NewValidationError(details string) *AppError {
	return NewAppError(CodeValidationFailed, "Validation failed", details)
}

// NewNotFoundError creates a generic not found error for the named resource
func NewNotFoundError(resource string) *AppError {
	message := "Resource not found"
	if resource != "" {
		message = fmt.Sprintf("%s not found", capitalize(resource))
	}
	return NewAppError(CodeNotFound, message, "")
}

// NewConflictError creates a conflict error
func NewConflictError(message string) *AppError {
	return NewAppError(CodeConflict, message, "")
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *AppError {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return NewAppError(CodeInternal, message, "")
}

// NewDatabaseError creates a database error
func NewDatabaseError(operation string, cause error) *AppError {
	return NewAppError(
		CodeDatabaseError,
		"Database operation failed",
		fmt.Sprintf("Failed to %s", operation),
	).WithCause(cause)
}

// NewRecipeNotFoundError creates a recipe not found error
func NewRecipeNotFoundError(recipeID int64) *AppError {
	return NewAppError(
		CodeRecipeNotFound,
		"Recipe not found",
		fmt.Sprintf("Recipe with ID %d does not exist", recipeID),
	).WithMetadata("recipe_id", recipeID)
}

// NewUserNotFoundError creates a user not found error
func NewUserNotFoundError(lookup string) *AppError {
	return NewAppError(
		CodeUserNotFound,
		"User not found",
		fmt.Sprintf("User %s does not exist", lookup),
	).WithMetadata("user", lookup)
}

// NewPantryItemNotFoundError reports a missing pantry membership row
func NewPantryItemNotFoundError(itemID int64) *AppError {
	return NewAppError(
		CodePantryItemNotFound,
		"Ingredient not found",
		fmt.Sprintf("Pantry item with ID %d does not exist", itemID),
	).WithMetadata("pantry_item_id", itemID)
}

// NewIngredientNotFoundError reports a reference to an unknown catalog ingredient
func NewIngredientNotFoundError(ingredientID int64) *AppError {
	return NewAppError(
		CodeIngredientNotFound,
		"Ingredient not found",
		fmt.Sprintf("Ingredient with ID %d does not exist", ingredientID),
	).WithMetadata("ingredient_id", ingredientID)
}

// NewEmailAlreadyExistsError creates an email already exists error
func NewEmailAlreadyExistsError(email string) *AppError {
	return NewAppError(
		CodeEmailAlreadyExists,
		"This email already exists",
		"",
	).WithMetadata("email", email)
}

// NewInvalidIngredientError reports an ingredient name that cannot be resolved
func NewInvalidIngredientError(details string) *AppError {
	return NewAppError(CodeInvalidIngredient, "Invalid ingredient", details)
}

// Wrap wraps an error as an internal error if it's not already an AppError
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := As(err); ok {
		return appErr
	}

	return NewInternalError(message).WithCause(err)
}

// As finds the first AppError in the chain of err
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is checks if an error is of a specific error code
func Is(err error, code ErrorCode) bool {
	if appErr, ok := As(err); ok {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return CodeInternal
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// getStackTrace captures the current stack trace
func getStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var builder strings.Builder
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "pkg/errors") {
			builder.WriteString(fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}

	return builder.String()
}

// FieldErrors maps request fields to their validation messages
type FieldErrors map[string][]string

// Add records a message for field
func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

// Error implements the error interface
func (f FieldErrors) Error() string {
	if len(f) == 0 {
		return "validation failed"
	}

	var messages []string
	for field, msgs := range f {
		messages = append(messages, fmt.Sprintf("%s %s", field, strings.Join(msgs, ", ")))
	}
	return strings.Join(messages, "; ")
}

// NewFieldValidationError wraps per-field messages into a validation AppError
func NewFieldValidationError(fields FieldErrors) *AppError {
	return NewAppError(
		CodeValidationFailed,
		"Validation failed",
		fields.Error(),
	).WithMetadata("fields", fields)
}

// ErrorResponse is the JSON body written for a failed request
type ErrorResponse struct {
	Error     string      `json:"error"`
	Code      ErrorCode   `json:"code,omitempty"`
	Details   string      `json:"details,omitempty"`
	Errors    FieldErrors `json:"errors,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// ToErrorResponse converts an AppError to an API error response
func ToErrorResponse(err *AppError, requestID string) ErrorResponse {
	resp := ErrorResponse{
		Error:     err.Message,
		Code:      err.Code,
		Details:   err.Details,
		RequestID: requestID,
	}
	if fields, ok := err.Metadata["fields"].(FieldErrors); ok {
		resp.Errors = fields
	}
	return resp
}
