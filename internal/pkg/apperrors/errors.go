package apperrors

import "errors"

// Kind is the closed set of error categories the API distinguishes.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindConflict
	KindUnauthorized
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenMissing       = errors.New("authentication token missing")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Account errors
var (
	ErrStudentNotFound       = NewResourceNotFoundError("Student not found")
	ErrStudentIDExists       = NewConflictError("Student ID already registered")
	ErrEmailAlreadyExists    = NewConflictError("Email already registered")
	ErrStudentHasBookings    = NewConflictError("Cannot delete student with existing bookings or allotments")
	ErrStudentLoginFailed    = NewCustomError(ErrInvalidCredentials, "Invalid student ID or password")
	ErrAdminLoginFailed      = NewCustomError(ErrInvalidCredentials, "Invalid username or password")
	ErrAdminNotFound         = NewResourceNotFoundError("Admin not found")
	ErrAdminAlreadyExists    = NewConflictError("Admin username or email already exists")
	ErrNoFieldsToUpdate      = NewBadRequestError("No valid fields to update")
	ErrAvailabilityOutOfSync = NewBadRequestError("Available count must be between 0 and total")
)

// Property errors
var (
	ErrHostelNotFound   = NewResourceNotFoundError("Hostel not found")
	ErrPGNotFound       = NewResourceNotFoundError("PG not found")
	ErrNoRoomsAvailable = NewBadRequestError("No rooms available in this hostel")
	ErrNoSpotsAvailable = NewBadRequestError("No spots available in this PG")
)

// Booking lifecycle errors
var (
	ErrBookingNotFound         = NewResourceNotFoundError("Booking not found")
	ErrBookingNotPending       = NewResourceNotFoundError("Booking not found in pending state")
	ErrBookingAlreadyProcessed = NewConflictError("Booking already processed")
	ErrBookingDuplicate        = NewConflictError("An active booking for this property already exists")
	ErrAvailabilityExhausted   = NewConflictError("No availability left for this property")
	ErrInvalidPropertyType     = NewBadRequestError("Property type must be 'hostel' or 'pg'")
)

// Review, favorite and notification errors
var (
	ErrReviewNotFound       = NewResourceNotFoundError("Review not found")
	ErrFavoriteNotFound     = NewResourceNotFoundError("Favorite not found")
	ErrFavoriteExists       = NewConflictError("Property already in favorites")
	ErrNotificationNotFound = NewResourceNotFoundError("Notification not found")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) *CustomError {
	return NewCustomError(ErrResourceNotFound, message)
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) *CustomError {
	return NewCustomError(ErrConflict, message)
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) *CustomError {
	return NewCustomError(ErrPermissionDenied, message)
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) *CustomError {
	return NewCustomError(ErrBadRequest, message)
}

// NewValidationError wraps ErrValidationFailed with a client-safe message and optional field
func NewValidationError(field, message string) *CustomError {
	e := NewCustomError(ErrValidationFailed, message)
	if field != "" {
		e.Details = map[string]interface{}{"field": field}
	}
	return e
}

// Is returns whether err matches target or any of errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// KindOf classifies err. Anything unrecognised is internal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrResourceNotFound):
		return KindNotFound
	case Is(err, ErrValidationFailed, ErrBadRequest):
		return KindValidation
	case errors.Is(err, ErrConflict):
		return KindConflict
	case Is(err, ErrInvalidCredentials, ErrTokenMissing):
		return KindUnauthorized
	case Is(err, ErrTokenInvalid, ErrTokenExpired, ErrTokenRevoked, ErrPermissionDenied, ErrAccountDisabled):
		return KindForbidden
	default:
		return KindInternal
	}
}

// PublicMessage returns text that is safe to show to API clients.
// Internal errors never expose their underlying cause.
func PublicMessage(err error) string {
	if KindOf(err) == KindInternal {
		return "Internal server error"
	}

	var custom *CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.Message
	}
	return err.Error()
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
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

// WithDetails returns a copy carrying details, leaving shared sentinels untouched
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	clone := *e
	clone.Details = details
	return &clone
}

// WithCode returns a copy carrying an error code
func (e *CustomError) WithCode(code string) *CustomError {
	clone := *e
	clone.Code = code
	return &clone
}
