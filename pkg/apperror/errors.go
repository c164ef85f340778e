package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Wallet (WAL) ----

func ErrWalletNotFound() *AppError {
	return New("WAL_001", "Wallet not found", http.StatusNotFound)
}

func ErrInvalidCurrency() *AppError {
	return New("WAL_002", "Invalid or unsupported currency", http.StatusBadRequest)
}

func ErrInvalidAmount() *AppError {
	return New("WAL_003", "Invalid amount", http.StatusBadRequest)
}

func ErrInvalidStatus() *AppError {
	return New("WAL_004", "Invalid wallet status", http.StatusBadRequest)
}

// ErrTransitionNotAllowed maps a rejected lifecycle transition. The rule
// engine raises it rather than recording a FAILED ledger entry.
func ErrTransitionNotAllowed(err error) *AppError {
	return Wrap("WAL_005", "Wallet state transition not allowed", http.StatusConflict, err)
}

// ---- Exchange rate (FX) ----

func ErrRateUnavailable(err error) *AppError {
	return Wrap("FX_001", "Exchange rate unavailable", http.StatusBadGateway, err)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a WAL_003-style validation error with a custom message.
func Validation(message string) *AppError {
	return New("WAL_003", message, http.StatusBadRequest)
}
