package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeRequired         ErrorCode = "REQUIRED"
	ErrCodeTooShort         ErrorCode = "TOO_SHORT"
	ErrCodeTooLong          ErrorCode = "TOO_LONG"
	ErrCodeInvalidValue     ErrorCode = "INVALID_VALUE"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeInvalidID        ErrorCode = "INVALID_ID"
	ErrCodeInvalidBody      ErrorCode = "INVALID_BODY"
	ErrCodeUploadFailed     ErrorCode = "UPLOAD_FAILED"

	ErrCodeLoginRequired      ErrorCode = "LOGIN_REQUIRED"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeIncorrectPassword  ErrorCode = "INCORRECT_PASSWORD"
	ErrCodeOwnerRequired      ErrorCode = "OWNER_REQUIRED"
	ErrCodePrivilegedRequired ErrorCode = "PRIVILEGED_REQUIRED"
	ErrCodeNotResourceOwner   ErrorCode = "NOT_RESOURCE_OWNER"
	ErrCodeInvalidCreator     ErrorCode = "INVALID_CREATOR"

	ErrCodeTicketNotFound   ErrorCode = "TICKET_NOT_FOUND"
	ErrCodeActivityNotFound ErrorCode = "ACTIVITY_NOT_FOUND"
	ErrCodeUserNotFound     ErrorCode = "USER_NOT_FOUND"
	ErrCodeUsernameTaken    ErrorCode = "USERNAME_TAKEN"
	ErrCodeTooManyRequests  ErrorCode = "TOO_MANY_REQUESTS"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause returns a copy so shared sentinel errors are never mutated.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// Is matches on type and code, so wrapped copies compare equal to their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

var (
	ErrLoginRequired      = NewUnauthorizedError("Unauthorized: Please log in", ErrCodeLoginRequired)
	ErrOwnerRequired      = NewForbiddenError("Forbidden: Owner access required", ErrCodeOwnerRequired)
	ErrPrivilegedRequired = NewForbiddenError("Forbidden: Owner or Operator access required", ErrCodePrivilegedRequired)
	ErrForbidden          = NewForbiddenError("Forbidden", ErrCodeNotResourceOwner)

	ErrInvalidCredentials = NewUnauthorizedError("Login failed: Invalid username or password", ErrCodeInvalidCredentials)
	ErrIncorrectPassword  = NewUnauthorizedError("Incorrect current password", ErrCodeIncorrectPassword)

	ErrTicketNotFound   = NewNotFoundError("Ticket not found", ErrCodeTicketNotFound)
	ErrActivityNotFound = NewNotFoundError("Activity not found", ErrCodeActivityNotFound)
	ErrUserNotFound     = NewNotFoundError("User not found", ErrCodeUserNotFound)

	ErrUsernameTaken = NewValidationError("Username already exists", ErrCodeUsernameTaken)
	ErrInvalidBody   = NewValidationError("invalid request body", ErrCodeInvalidBody)
)

// IsAppError unwraps err until it finds an *AppError.
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Response is the client-facing error body.
type Response struct {
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	resp := Response{Message: e.Message}
	if e.Type == ErrorTypeInternal {
		resp.Message = "Server error"
	}
	if details, ok := e.Details.(ValidationErrors); ok {
		resp.Errors = details.Errors
	}
	return e.StatusCode, resp
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
