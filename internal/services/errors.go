package services

import (
	"errors"
	"fmt"
	"net/http"

	"cleanearth/internal/validation"
)

// ===============================
// ERROR TYPES
// ===============================

// Error type names carried in API error bodies
const (
	ErrorTypeValidation         = "VALIDATION_ERROR"
	ErrorTypeBusiness           = "BUSINESS_ERROR"
	ErrorTypeNotFound           = "NOT_FOUND"
	ErrorTypeAuthentication     = "AUTHENTICATION_ERROR"
	ErrorTypeForbidden          = "FORBIDDEN"
	ErrorTypeConflict           = "CONFLICT"
	ErrorTypeRateLimit          = "RATE_LIMIT"
	ErrorTypeInternal           = "INTERNAL_ERROR"
	ErrorTypeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// ServiceError represents a structured service error
type ServiceError struct {
	Type       string       `json:"type"`
	Message    string       `json:"message"`
	Code       string       `json:"code,omitempty"`
	Fields     []FieldError `json:"fields,omitempty"`
	StatusCode int          `json:"-"`
	Cause      error        `json:"-"`
}

// FieldError describes one invalid request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// GetStatusCode returns the HTTP status code for this error
func (e *ServiceError) GetStatusCode() int {
	if e.StatusCode > 0 {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

// ===============================
// ERROR CONSTRUCTORS
// ===============================

// NewValidationError creates a validation error
func NewValidationError(message string, cause error) *ServiceError {
	return &ServiceError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewBusinessError creates a business rule error
func NewBusinessError(message, code string) *ServiceError {
	return &ServiceError{
		Type:       ErrorTypeBusiness,
		Message:    message,
		Code:       code,
		StatusCode: http.StatusUnprocessableEntity,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message string) *ServiceError {
	return &ServiceError{
		Type:       ErrorTypeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewForbiddenError creates a forbidden error
func NewForbiddenError(message string) *ServiceError {
	return &ServiceError{
		Type:       ErrorTypeForbidden,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

// NewConflictError creates a conflict error
func NewConflictError(message, code string) *ServiceError {
	return &ServiceError{
		Type:       ErrorTypeConflict,
		Message:    message,
		Code:       code,
		StatusCode: http.StatusConflict,
	}
}

// NewJoinConflictError is a conflict reported with 400, as clients expect
// for campaign membership problems.
func NewJoinConflictError(message, code string) *ServiceError {
	err := NewConflictError(message, code)
	err.StatusCode = http.StatusBadRequest
	return err
}

// NewRateLimitError creates a rate limit error
func NewRateLimitError(message string) *ServiceError {
	return &ServiceError{
		Type:       ErrorTypeRateLimit,
		Message:    message,
		StatusCode: http.StatusTooManyRequests,
	}
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *ServiceError {
	return &ServiceError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

// NewServiceUnavailableError creates a service unavailable error
func NewServiceUnavailableError(message string) *ServiceError {
	return &ServiceError{
		Type:       ErrorTypeServiceUnavailable,
		Message:    message,
		StatusCode: http.StatusServiceUnavailable,
	}
}

// ===============================
// SPECIALIZED ERRORS
// ===============================

// AuthenticationError represents authentication-related errors
type AuthenticationError struct {
	*ServiceError
	UserID *int64 `json:"user_id,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// NewAuthenticationError creates an authentication error
func NewAuthenticationError(message, reason string, userID *int64) *AuthenticationError {
	return &AuthenticationError{
		ServiceError: &ServiceError{
			Type:       ErrorTypeAuthentication,
			Message:    message,
			Code:       reason,
			StatusCode: http.StatusUnauthorized,
		},
		UserID: userID,
		Reason: reason,
	}
}

// newRequestValidationError converts validator output into a 400 with
// per-field details. The message names the first failing field.
func newRequestValidationError(err error) *ServiceError {
	var ve validation.Errors
	if !errors.As(err, &ve) {
		return NewValidationError("Invalid request", err)
	}

	fields := make([]FieldError, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, FieldError{
			Field:   fe.Field,
			Message: fe.Message(),
			Code:    fe.Tag,
		})
	}

	serviceErr := NewValidationError(ve.Error(), nil)
	serviceErr.Fields = fields
	return serviceErr
}

// ===============================
// ERROR UTILITIES
// ===============================

// GetServiceError extracts a ServiceError from an error chain, or wraps the
// error in a generic internal error.
func GetServiceError(err error) *ServiceError {
	if err == nil {
		return nil
	}

	var authErr *AuthenticationError
	if errors.As(err, &authErr) {
		return authErr.ServiceError
	}

	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr
	}

	internal := NewInternalError("An unexpected error occurred")
	internal.Cause = err
	return internal
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errorType string) bool {
	if serviceErr := GetServiceError(err); serviceErr != nil {
		return serviceErr.Type == errorType
	}
	return false
}

// IsAuthenticationError checks if an error is an authentication error
func IsAuthenticationError(err error) bool {
	return IsErrorType(err, ErrorTypeAuthentication)
}
