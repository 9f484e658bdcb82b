package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// Category classifies an error for callers and for HTTP mapping.
type Category string

const (
	CategoryConfiguration    Category = "configuration"
	CategoryValidation       Category = "validation"
	CategoryInsufficientData Category = "insufficient_data"
	CategoryModelUnavailable Category = "model_unavailable"
	CategorySchemaMismatch   Category = "schema_mismatch"
	CategoryNotFound         Category = "not_found"
	CategoryInternal         Category = "internal"
)

// AppError wraps an errbuilder error with its category and HTTP status.
type AppError struct {
	*errbuilder.ErrBuilder
	Category   Category          `json:"category"`
	HTTPStatus int               `json:"http_status"`
	Fields     map[string]string `json:"details,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

func (e *AppError) Error() string {
	if cause := e.ErrBuilder.Unwrap(); cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Category, e.ErrBuilder.Msg, cause)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.ErrBuilder.Msg)
}

func (e *AppError) Unwrap() error {
	return e.ErrBuilder.Unwrap()
}

// Message returns the human readable message without category or cause.
func (e *AppError) Message() string {
	return e.ErrBuilder.Msg
}

func newAppError(builder *errbuilder.ErrBuilder, category Category, status int, msg string, cause error, details map[string]string) *AppError {
	builder = builder.WithMsg(msg)
	if len(details) > 0 {
		errorMap := errbuilder.ErrorMap{}
		for k, v := range details {
			errorMap.Set(k, errors.New(v))
		}
		builder = builder.WithDetails(errbuilder.NewErrDetails(errorMap))
	}
	if cause != nil {
		builder = builder.WithCause(cause)
	}
	return &AppError{
		ErrBuilder: builder,
		Category:   category,
		HTTPStatus: status,
		Fields:     details,
		Timestamp:  time.Now(),
	}
}

// NewConfigurationError reports invalid parameters such as a sample count below one.
func NewConfigurationError(message string, cause error) *AppError {
	return newAppError(errbuilder.New().WithCode(errbuilder.CodeInvalidArgument), CategoryConfiguration, http.StatusBadRequest, message, cause, nil)
}

// NewValidationError reports a malformed request.
func NewValidationError(message string, cause error) *AppError {
	return newAppError(errbuilder.New().WithCode(errbuilder.CodeInvalidArgument), CategoryValidation, http.StatusBadRequest, message, cause, nil)
}

// NewInsufficientDataError reports a dataset too small to stratify or fit.
func NewInsufficientDataError(message string, counts map[string]string) *AppError {
	return newAppError(errbuilder.New().WithCode(errbuilder.CodeFailedPrecondition), CategoryInsufficientData, http.StatusUnprocessableEntity, message, nil, counts)
}

// NewModelUnavailableError reports that no trained model has been persisted yet,
// or that the persisted one cannot be read.
func NewModelUnavailableError(path string, cause error) *AppError {
	return newAppError(errbuilder.New().WithCode(errbuilder.CodeUnavailable), CategoryModelUnavailable, http.StatusServiceUnavailable,
		"model not trained yet", cause, map[string]string{"path": path})
}

// NewSchemaMismatchError reports a feature vector or artifact whose schema does
// not match the expected one.
func NewSchemaMismatchError(message string, details map[string]string) *AppError {
	return newAppError(errbuilder.New().WithCode(errbuilder.CodeInvalidArgument), CategorySchemaMismatch, http.StatusBadRequest, message, nil, details)
}

func NewNotFoundError(what, id string) *AppError {
	return newAppError(errbuilder.New().WithCode(errbuilder.CodeNotFound), CategoryNotFound, http.StatusNotFound,
		what+" not found", nil, map[string]string{"id": id})
}

func NewInternalError(message string, cause error) *AppError {
	return newAppError(errbuilder.New().WithCode(errbuilder.CodeInternal), CategoryInternal, http.StatusInternalServerError, message, cause, nil)
}

// ToAppError converts any error to an AppError, defaulting to internal.
func ToAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError("unexpected error", err)
}

// Is reports whether err, or anything it wraps, is an AppError of category cat.
func Is(err error, cat Category) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Category == cat
}

// Details flattens the error details into a string map for logging and responses.
func Details(e *AppError) map[string]string {
	out := map[string]string{}
	if e == nil {
		return out
	}
	for k, v := range e.Fields {
		out[k] = v
	}
	return out
}
