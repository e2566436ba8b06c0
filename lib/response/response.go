package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/getevo/evo/v2/lib/outcome"
	"github.com/getevo/evo/v2/lib/text"
)

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	// Authentication & Authorization errors
	ErrorCodeUnauthorized ErrorCode = "unauthorized"
	ErrorCodeForbidden    ErrorCode = "forbidden"
	ErrorCodeInvalidToken ErrorCode = "invalid_token"

	// Input validation errors
	ErrorCodeInvalidInput    ErrorCode = "invalid_input"
	ErrorCodeMissingRequired ErrorCode = "missing_required"
	ErrorCodeValidationError ErrorCode = "validation_error"

	// Resource errors
	ErrorCodeNotFound          ErrorCode = "not_found"
	ErrorCodeEmployeeNotFound  ErrorCode = "employee_not_found"
	ErrorCodeChainNotFound     ErrorCode = "chain_not_found"
	ErrorCodeSessionNotFound   ErrorCode = "session_not_found"
	ErrorCodeMeetNotFound      ErrorCode = "meet_not_found"
	ErrorCodeChatNotFound      ErrorCode = "chat_not_found"

	// State errors
	ErrorCodeInvalidState ErrorCode = "invalid_state"
	ErrorCodeConflict     ErrorCode = "conflict"

	// Upstream / internal errors
	ErrorCodeUpstreamFailure ErrorCode = "upstream_failure"
	ErrorCodeInternalError   ErrorCode = "internal_error"
	ErrorCodeDatabaseError   ErrorCode = "database_error"
)

// AppError represents a structured application error
type AppError struct {
	Code       ErrorCode `json:"error"`
	Message    string    `json:"message"`
	StatusCode int       `json:"-"`
	Details    string    `json:"details,omitempty"`
}

// Error implements the error interface
func (e AppError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Response returns an outcome.Response for the error
func (e AppError) Response() outcome.Response {
	return outcome.Response{
		StatusCode: e.StatusCode,
		Data: text.ToJSON(map[string]interface{}{
			"error":   string(e.Code),
			"message": e.Message,
		}),
	}
}

// NewError creates a new AppError
func NewError(code ErrorCode, message string, statusCode int) AppError {
	return AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Predefined common errors
var (
	ErrUnauthorized = AppError{
		Code:       ErrorCodeUnauthorized,
		Message:    "Authentication required",
		StatusCode: http.StatusUnauthorized,
	}

	ErrForbidden = AppError{
		Code:       ErrorCodeForbidden,
		Message:    "You do not have access to this resource",
		StatusCode: http.StatusForbidden,
	}

	ErrInvalidToken = AppError{
		Code:       ErrorCodeInvalidToken,
		Message:    "Invalid or expired token",
		StatusCode: http.StatusUnauthorized,
	}

	ErrInvalidInput = AppError{
		Code:       ErrorCodeInvalidInput,
		Message:    "Invalid request data",
		StatusCode: http.StatusBadRequest,
	}

	ErrMissingRequired = AppError{
		Code:       ErrorCodeMissingRequired,
		Message:    "Missing required fields",
		StatusCode: http.StatusBadRequest,
	}

	ErrNotFound = AppError{
		Code:       ErrorCodeNotFound,
		Message:    "Resource not found",
		StatusCode: http.StatusNotFound,
	}

	ErrEmployeeNotFound = AppError{
		Code:       ErrorCodeEmployeeNotFound,
		Message:    "Employee not found",
		StatusCode: http.StatusNotFound,
	}

	ErrChainNotFound = AppError{
		Code:       ErrorCodeChainNotFound,
		Message:    "Chain not found",
		StatusCode: http.StatusNotFound,
	}

	ErrSessionNotFound = AppError{
		Code:       ErrorCodeSessionNotFound,
		Message:    "Session not found",
		StatusCode: http.StatusNotFound,
	}

	ErrMeetNotFound = AppError{
		Code:       ErrorCodeMeetNotFound,
		Message:    "Meeting not found",
		StatusCode: http.StatusNotFound,
	}

	ErrChatNotFound = AppError{
		Code:       ErrorCodeChatNotFound,
		Message:    "Chat not found",
		StatusCode: http.StatusNotFound,
	}

	ErrInternalError = AppError{
		Code:       ErrorCodeInternalError,
		Message:    "Internal server error",
		StatusCode: http.StatusInternalServerError,
	}

	ErrDatabaseError = AppError{
		Code:       ErrorCodeDatabaseError,
		Message:    "Database operation failed",
		StatusCode: http.StatusInternalServerError,
	}
)

// InvalidState builds a 409 response for operations attempted from a
// disallowed status (e.g. completing a cancelled session).
func InvalidState(message string) AppError {
	return NewError(ErrorCodeInvalidState, message, http.StatusConflict)
}

// Upstream builds a 502 response for failed calls to the LLM/report/email
// collaborators. The internal error is logged by the caller, never leaked.
func Upstream(message string) AppError {
	return NewError(ErrorCodeUpstreamFailure, message, http.StatusBadGateway)
}

// Validation builds a 400 response for malformed input.
func Validation(message string) AppError {
	return NewError(ErrorCodeValidationError, message, http.StatusBadRequest)
}

// FromError maps domain sentinel errors onto HTTP responses. Controllers use
// this at the boundary so services can return plain errors.
func FromError(err error) outcome.Response {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.Response()
	}
	return ErrInternalError.Response()
}

// Helper function to create outcome.Response from AppError
func Error(err AppError) outcome.Response {
	return err.Response()
}

// APIResponse represents a standardized API response structure
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
	Message string      `json:"message,omitempty"`
}

func (r APIResponse) ToJSON() []byte {
	b, _ := json.Marshal(r)
	return b
}

// Meta contains metadata for API responses
type Meta struct {
	Page       int   `json:"page,omitempty"`
	Limit      int   `json:"limit,omitempty"`
	Total      int64 `json:"total,omitempty"`
	TotalPages int   `json:"total_pages,omitempty"`
	Count      int   `json:"count,omitempty"`
}

// OK creates a standardized success response
func OK(data interface{}) outcome.Response {
	return outcome.Response{
		ContentType: "application/json",
		StatusCode:  http.StatusOK,
		Data: APIResponse{
			Success: true,
			Data:    data,
		}.ToJSON(),
	}
}

// OKWithMessage creates a success response with a message
func OKWithMessage(data interface{}, message string) outcome.Response {
	return outcome.Response{
		StatusCode: http.StatusOK,
		Data: APIResponse{
			Success: true,
			Data:    data,
			Message: message,
		}.ToJSON(),
	}
}

// Created creates a 201 Created response
func Created(data interface{}) outcome.Response {
	return outcome.Response{
		StatusCode: http.StatusCreated,
		Data: APIResponse{
			Success: true,
			Data:    data,
		}.ToJSON(),
	}
}

// List creates a response for lists/collections with count
func List(data interface{}, count int) outcome.Response {
	return outcome.Response{
		ContentType: "application/json",
		StatusCode:  http.StatusOK,
		Data: APIResponse{
			Success: true,
			Data:    data,
			Meta:    &Meta{Count: count},
		}.ToJSON(),
	}
}

// Message creates a response with only a success message
func Message(message string) outcome.Response {
	return outcome.Response{
		StatusCode: http.StatusOK,
		Data: APIResponse{
			Success: true,
			Message: message,
		}.ToJSON(),
	}
}
