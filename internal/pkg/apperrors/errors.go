package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Catalog feed errors
var (
	// ErrFetchFailed covers transport failures, non-2xx responses and
	// undecodable bodies from the schedule feed. Callers get no data,
	// never a partial result.
	ErrFetchFailed = errors.New("catalog feed fetch failed")

	// ErrCacheUnavailable marks an unreachable cache store. It is handled
	// as a forced miss and never propagates past the catalog cache.
	ErrCacheUnavailable = errors.New("cache store unavailable")
)

// Section errors
var (
	ErrSectionNotFound      = errors.New("course section not found")
	ErrSectionAlreadyExists = errors.New("course section with this section ID already exists")
	ErrNoSyllabus           = errors.New("section has no syllabus attached")
)

// Import errors
var (
	ErrImportConfig = errors.New("unrecognized import filter name")
	ErrImportUpload = errors.New("malformed import upload")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}
