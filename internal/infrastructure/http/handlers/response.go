// Package handlers adapts HTTP requests onto the inbound service ports
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"go.uber.org/zap"

	"github.com/pantrymatch/v1/internal/infrastructure/http/middleware"
	"github.com/pantrymatch/v1/pkg/errors"
)

const maxBodyBytes = 1 << 20

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator. Field errors are keyed by the
// JSON name so they line up with what the client sent.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("notblank", validators.NotBlank)
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "query"} {
				name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return f.Name
		})
	})
	return validate
}

// validateStruct converts validator failures into a field validation error
func validateStruct(v interface{}) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.NewValidationError(err.Error())
	}

	fields := errors.FieldErrors{}
	for _, fe := range verrs {
		fields.Add(fieldPath(fe), fieldMessage(fe))
	}
	return errors.NewFieldValidationError(fields)
}

// fieldPath drops the root struct name from the namespace
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is missing"
	case "email":
		return "is in invalid format"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte", "min":
		return "must be greater than or equal to " + fe.Param()
	case "notblank":
		return "must be filled"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// decodeJSON reads a JSON body into target and validates it
func decodeJSON(r *http.Request, target interface{}) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(target); err != nil {
		if stderrors.Is(err, io.EOF) {
			return errors.NewBadRequestError("Request body is required")
		}
		var typeErr *json.UnmarshalTypeError
		if stderrors.As(err, &typeErr) {
			fields := errors.FieldErrors{}
			fields.Add(typeErr.Field, "must be "+jsonKind(typeErr.Type))
			return errors.NewFieldValidationError(fields)
		}
		return errors.NewBadRequestError("Malformed JSON body").WithCause(err)
	}
	return validateStruct(target)
}

func jsonKind(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Int, reflect.Int32, reflect.Int64:
		return "an integer"
	case reflect.String:
		return "a string"
	case reflect.Slice:
		return "an array"
	case reflect.Struct, reflect.Map, reflect.Ptr:
		return "an object"
	default:
		return t.Kind().String()
	}
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

// writeError renders err as an ErrorResponse. Anything that is not an
// AppError is reported as a 500 without leaking its text.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	appErr, ok := errors.As(err)
	if !ok {
		appErr = errors.NewInternalError("Something went wrong").WithCause(err)
	}

	status := appErr.StatusCode()
	requestID := middleware.GetRequestID(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("request_id", requestID),
			zap.String("code", string(appErr.Code)),
			zap.Error(err),
		)
		appErr = errors.NewAppError(appErr.Code, "Something went wrong", "")
	}

	writeJSON(w, logger, status, errors.ToErrorResponse(appErr, requestID))
}

// writeOK answers 200 with an empty body
func writeOK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
}
