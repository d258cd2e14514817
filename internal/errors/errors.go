package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// Kind tags a domain failure so callers can react without string matching
type Kind int

const (
	// KindUnknown is any error not produced by this package
	KindUnknown Kind = iota
	// KindValidation covers missing or invalid parameters and unusable input
	KindValidation
	// KindComputation covers unexpected failures inside a statistical or ML step
	KindComputation
	// KindConflict is the non-fatal "target already exists" save outcome
	KindConflict
	// KindParse is returned by the tabular reader for unreadable files
	KindParse
)

// String returns the kind label used in logs
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindComputation:
		return "computation"
	case KindConflict:
		return "conflict"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// Error is a tagged domain error
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Kind.String() + " error"
	}
}

// Unwrap exposes the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Validation creates a user-facing validation error
func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Computation wraps an unexpected failure of a computation step
func Computation(err error) *Error {
	return &Error{Kind: KindComputation, Err: err}
}

// Computationf creates a computation error from a message
func Computationf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindComputation, Message: fmt.Sprintf(format, args...)}
}

// Conflict creates a conflict outcome carrying a human readable warning
func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Parse wraps a reader failure
func Parse(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindParse, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of the first tagged error in err's chain
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsConflict reports whether err is a save conflict
func IsConflict(err error) bool { return KindOf(err) == KindConflict }

// IsParse reports whether err is a reader failure
func IsParse(err error) bool { return KindOf(err) == KindParse }

// Response status values of the JSON envelope
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusExists  = "exists"
)

// Envelope is the JSON shape of every API response
type Envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// APIError represents a structured API error response
type APIError struct {
	StatusCode int    `json:"-"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// New creates a new APIError with the given parameters
func New(statusCode int, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Status:     StatusError,
		Message:    message,
	}
}

// FromError maps any error onto the response taxonomy. Validation and parse
// failures are the caller's fault, conflicts are a distinct non-error status
// and everything else is an internal failure.
func FromError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch KindOf(err) {
	case KindValidation, KindParse:
		return New(http.StatusBadRequest, err.Error())
	case KindConflict:
		return &APIError{StatusCode: http.StatusOK, Status: StatusExists, Message: err.Error()}
	default:
		return New(http.StatusInternalServerError, err.Error())
	}
}

// Predefined transport-level errors
var (
	ErrInvalidRequest     = New(http.StatusBadRequest, "invalid request format")
	ErrMissingFile        = New(http.StatusBadRequest, "no file in request")
	ErrEmptyFilename      = New(http.StatusBadRequest, "no file selected")
	ErrUnsupportedType    = New(http.StatusBadRequest, "unsupported file format")
	ErrPayloadTooLarge    = New(http.StatusRequestEntityTooLarge, "request body too large")
	ErrRateLimitExceeded  = New(http.StatusTooManyRequests, "rate limit exceeded")
	ErrRequestTimeout     = New(http.StatusGatewayTimeout, "the request took too long to process")
	ErrInternalServer     = New(http.StatusInternalServerError, "internal server error")
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, "service temporarily unavailable")
)
