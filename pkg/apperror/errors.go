package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an AppError independently of its message.
type Kind string

const (
	KindValidation         Kind = "validation"
	KindIndexOutOfRange    Kind = "index_out_of_range"
	KindEmptyCart          Kind = "empty_cart"
	KindPersistence        Kind = "persistence"
	KindRender             Kind = "render"
	KindUpload             Kind = "upload"
	KindNotFound           Kind = "not_found"
	KindConflict           Kind = "conflict"
	KindUnauthorized       Kind = "unauthorized"
	KindBadRequest         Kind = "bad_request"
	KindInternal           Kind = "internal"
	KindTooManyRequests    Kind = "too_many_requests"
	KindPrinterUnavailable Kind = "printer_unavailable"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Kind    Kind         `json:"kind"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
	Err     error        `json:"-"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError of the same kind, so sentinel
// values below can be matched with errors.Is regardless of message.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Common errors
var (
	ErrValidation      = &AppError{Code: http.StatusBadRequest, Kind: KindValidation, Message: "Validation failed"}
	ErrIndexOutOfRange = &AppError{Code: http.StatusBadRequest, Kind: KindIndexOutOfRange, Message: "Item index out of range"}
	ErrEmptyCart       = &AppError{Code: http.StatusBadRequest, Kind: KindEmptyCart, Message: "Please add at least one item to the bill"}
	ErrPersistence     = &AppError{Code: http.StatusInternalServerError, Kind: KindPersistence, Message: "Storage operation failed"}
	ErrRender          = &AppError{Code: http.StatusInternalServerError, Kind: KindRender, Message: "Receipt could not be rendered"}
	ErrUpload          = &AppError{Code: http.StatusBadGateway, Kind: KindUpload, Message: "Receipt upload failed"}
	ErrNotFound        = &AppError{Code: http.StatusNotFound, Kind: KindNotFound, Message: "Resource not found"}
	ErrUnauthorized    = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Unauthorized"}
	ErrBadRequest      = &AppError{Code: http.StatusBadRequest, Kind: KindBadRequest, Message: "Bad request"}
	ErrInternalServer  = &AppError{Code: http.StatusInternalServerError, Kind: KindInternal, Message: "Internal server error"}
	ErrConflict        = &AppError{Code: http.StatusConflict, Kind: KindConflict, Message: "Resource already exists"}
	ErrInvalidLogin    = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Invalid credentials"}
	ErrInvalidToken    = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Invalid or expired session"}
	ErrPrinter         = &AppError{Code: http.StatusServiceUnavailable, Kind: KindPrinterUnavailable, Message: "Printer unavailable"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kindForStatus(code),
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	msg := "Validation failed"
	if len(fieldErrors) == 1 {
		msg = fieldErrors[0].Message
	}
	return &AppError{
		Code:    http.StatusBadRequest,
		Kind:    KindValidation,
		Message: msg,
		Errors:  fieldErrors,
	}
}

// NewFieldError is a shorthand for a validation error on a single field.
func NewFieldError(field, message string) *AppError {
	return NewValidationError([]FieldError{{Field: field, Message: message}})
}

// NewIndexOutOfRangeError reports an index that does not address an item.
func NewIndexOutOfRangeError(index, length int) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Kind:    KindIndexOutOfRange,
		Message: fmt.Sprintf("Item index %d out of range (items: %d)", index, length),
	}
}

// NewPersistenceError wraps a gateway fault. The caller must assume nothing
// was written.
func NewPersistenceError(op string, err error) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindPersistence,
		Message: "Failed to " + op,
		Err:     err,
	}
}

// NewRenderError reports that every receipt rendering path failed.
func NewRenderError(err error) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindRender,
		Message: "Receipt could not be rendered",
		Err:     err,
	}
}

// NewUploadError reports a failed artifact upload.
func NewUploadError(err error) *AppError {
	return &AppError{
		Code:    http.StatusBadGateway,
		Kind:    KindUpload,
		Message: "Receipt upload failed",
		Err:     err,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Kind:    KindNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Kind:    KindBadRequest,
		Message: message,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindInternal,
		Message: err.Error(),
		Err:     err,
	}
}

func kindForStatus(code int) Kind {
	switch code {
	case http.StatusBadRequest:
		return KindBadRequest
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusTooManyRequests:
		return KindTooManyRequests
	default:
		return KindInternal
	}
}
