// Package errors provides the application error taxonomy.
// Services return *AppError values so handlers can render a stable code and
// message without leaking store or driver details to clients.
package errors

import "net/http"

// AppError is a classified error with a machine code, a client-safe message,
// the HTTP status it maps to and an optional wrapped cause.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is matches AppErrors by code so sentinels compare equal to their wrapped copies.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// Wrap copies a sentinel and attaches the underlying cause.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage copies a sentinel with a custom client message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrDuplicateEmail     = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
	ErrUserNotFound       = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}

	ErrInvalidAPIKey         = &AppError{Code: "INVALID_API_KEY", Message: "Invalid or missing API key", StatusCode: http.StatusUnauthorized}
	ErrPipelineNotConfigured = &AppError{Code: "PIPELINE_NOT_CONFIGURED", Message: "Pipeline endpoints are not configured", StatusCode: http.StatusServiceUnavailable}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrInvalidMonth   = &AppError{Code: "INVALID_MONTH", Message: "Month must be formatted as YYYY-MM", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Ledger errors.
var (
	// ErrInvalidAmount covers non-numeric amounts and amounts with an illegal sign.
	ErrInvalidAmount = &AppError{Code: "INVALID_AMOUNT", Message: "Amount is not valid", StatusCode: http.StatusBadRequest}
	// ErrMissingIncome is returned when a month is closed without an income record.
	ErrMissingIncome = &AppError{Code: "MISSING_INCOME", Message: "No income recorded for this month", StatusCode: http.StatusUnprocessableEntity}
	// ErrOwnershipViolation is returned when a request references another owner's record.
	ErrOwnershipViolation = &AppError{Code: "OWNERSHIP_VIOLATION", Message: "Referenced record belongs to another user", StatusCode: http.StatusForbidden}
	// ErrStore wraps store failures (connectivity, constraint violations). The cause is kept in Internal.
	ErrStore = &AppError{Code: "STORE_ERROR", Message: "The data store could not complete the request", StatusCode: http.StatusInternalServerError}
)

// Resource errors.
var (
	ErrBudgetNotFound    = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget not found", StatusCode: http.StatusNotFound}
	ErrCategoryNotFound  = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrDuplicateCategory = &AppError{Code: "DUPLICATE_CATEGORY", Message: "A category with this name already exists", StatusCode: http.StatusConflict}
	ErrExpenseNotFound   = &AppError{Code: "EXPENSE_NOT_FOUND", Message: "Expense not found", StatusCode: http.StatusNotFound}
	ErrIncomeNotFound    = &AppError{Code: "INCOME_NOT_FOUND", Message: "No income recorded for this month", StatusCode: http.StatusNotFound}
)
