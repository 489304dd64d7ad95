package common

import (
	"errors"
	"net/http"
)

// ErrorResponse API error body
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// CustomError carries an error code, a user-facing message and the HTTP status it maps to
type CustomError struct {
	Code    string // error code
	Message string // user-facing message
	Err     error  // underlying error
	Status  int    // HTTP status
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying error
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Is matches another CustomError by code so wrapped copies still compare equal
func (e *CustomError) Is(target error) bool {
	t, ok := target.(*CustomError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewError creates a CustomError
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// Wrap returns a copy of e carrying err as its cause
func (e *CustomError) Wrap(err error) *CustomError {
	return NewError(e.Code, e.Message, e.Status, err)
}

// AsCustomError unwraps err into a CustomError, falling back to ErrInternalError
func AsCustomError(err error) *CustomError {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce
	}
	return ErrInternalError.Wrap(err)
}

// Predefined error codes
const (
	// client errors (4xx)
	ErrCodeInvalidRequest   = "INVALID_REQUEST"    // 400
	ErrCodeMissingInput     = "MISSING_INPUT"      // 400
	ErrCodeMissingReference = "MISSING_REFERENCE"  // 400
	ErrCodePaymentFailed    = "PAYMENT_FAILED"     // 400
	ErrCodeNotFound         = "NOT_FOUND"          // 404
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED" // 405
	ErrCodeTooLarge         = "REQUEST_TOO_LARGE"  // 413
	ErrCodeTooManyRequests  = "TOO_MANY_REQUESTS"  // 429

	// server errors (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"        // 500
	ErrCodePaymentGateway     = "PAYMENT_GATEWAY_ERROR" // 500
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"   // 503
)

// Predefined errors
var (
	// client errors
	ErrInvalidRequest     = NewError(ErrCodeInvalidRequest, "No JSON data received", http.StatusBadRequest, nil)
	ErrMissingIngredients = NewError(ErrCodeMissingInput, "Please provide valid ingredients.", http.StatusBadRequest, nil)
	ErrMissingQuery       = NewError(ErrCodeMissingInput, "Please provide a valid search term.", http.StatusBadRequest, nil)
	ErrMissingReference   = NewError(ErrCodeMissingReference, "Payment reference is required.", http.StatusBadRequest, nil)
	ErrPaymentFailed      = NewError(ErrCodePaymentFailed, "Payment verification failed.", http.StatusBadRequest, nil)
	ErrNotFound           = NewError(ErrCodeNotFound, "Resource not found", http.StatusNotFound, nil)
	ErrRequestTooLarge    = NewError(ErrCodeTooLarge, "Request body too large", http.StatusRequestEntityTooLarge, nil)
	ErrTooManyRequests    = NewError(ErrCodeTooManyRequests, "Too many requests", http.StatusTooManyRequests, nil)

	// server errors
	ErrInternalError      = NewError(ErrCodeInternalError, "Internal server error", http.StatusInternalServerError, nil)
	ErrPaymentGateway     = NewError(ErrCodePaymentGateway, "Payment verification failed.", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "AI model not configured", http.StatusServiceUnavailable, nil)
)
