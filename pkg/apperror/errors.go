package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies checkout failures that the till shows as a dismissable banner.
type Kind string

const (
	KindOutOfStock           Kind = "OutOfStock"
	KindInsufficientStock    Kind = "InsufficientStock"
	KindInvalidDiscountCode  Kind = "InvalidDiscountCode"
	KindEmptyCart            Kind = "EmptyCart"
	KindInsufficientPayment  Kind = "InsufficientPayment"
	KindPaymentFailed        Kind = "PaymentFailed"
	KindCompletionFailed     Kind = "CompletionFailed"
	KindCustomerNotFound     Kind = "CustomerNotFound"
	KindProductNotFound      Kind = "ProductNotFound"
	KindInvalidPayment       Kind = "InvalidPaymentAmount"
	KindSaleCreationFailed   Kind = "SaleCreationFailed"
	KindSubmissionInProgress Kind = "SubmissionInProgress"
	KindUnexpected           Kind = "Unexpected"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Kind    Kind         `json:"kind,omitempty"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
	// Details carries the raw upstream payload when a backend call failed.
	Details interface{} `json:"details,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Is matches two errors of the same non-empty kind.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if e.Kind != "" || t.Kind != "" {
		return e.Kind == t.Kind
	}
	return e.Code == t.Code && e.Message == t.Message
}

// Common errors
var (
	ErrNotFound       = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrUnauthorized   = &AppError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrForbidden      = &AppError{Code: http.StatusForbidden, Message: "Forbidden"}
	ErrBadRequest     = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrInvalidToken   = &AppError{Code: http.StatusUnauthorized, Message: "Invalid token"}

	ErrEmptyCart           = NewCheckoutError(KindEmptyCart, "Cart is empty")
	ErrInsufficientPayment = NewCheckoutError(KindInsufficientPayment, "Payment does not cover the total")
	ErrInvalidDiscountCode = NewCheckoutError(KindInvalidDiscountCode, "Invalid discount code")
)

var kindStatus = map[Kind]int{
	KindOutOfStock:           http.StatusConflict,
	KindInsufficientStock:    http.StatusConflict,
	KindInvalidDiscountCode:  http.StatusUnprocessableEntity,
	KindEmptyCart:            http.StatusUnprocessableEntity,
	KindInsufficientPayment:  http.StatusUnprocessableEntity,
	KindInvalidPayment:       http.StatusUnprocessableEntity,
	KindCustomerNotFound:     http.StatusNotFound,
	KindProductNotFound:      http.StatusNotFound,
	KindPaymentFailed:        http.StatusBadGateway,
	KindCompletionFailed:     http.StatusBadGateway,
	KindSaleCreationFailed:   http.StatusBadGateway,
	KindSubmissionInProgress: http.StatusConflict,
}

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewCheckoutError creates a checkout error whose status follows its kind.
func NewCheckoutError(kind Kind, message string) *AppError {
	code, ok := kindStatus[kind]
	if !ok {
		code = http.StatusInternalServerError
	}
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

// WithDetails returns a copy of e carrying details.
func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// KindOf returns the checkout kind of err, or KindUnexpected.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Kind != "" {
		return appErr.Kind
	}
	return KindUnexpected
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
