package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("WAL_001", "Wallet not found", http.StatusNotFound),
			expected: "[WAL_001] Wallet not found",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_001", "DB error", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "[SYS_001] DB error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_001", "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
}

func TestAppError_IsNilUnwrap(t *testing.T) {
	appErr := New("WAL_003", "test", http.StatusBadRequest)
	assert.Nil(t, appErr.Unwrap())
}

func TestWalletErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"WalletNotFound", ErrWalletNotFound(), "WAL_001", 404},
		{"InvalidCurrency", ErrInvalidCurrency(), "WAL_002", 400},
		{"InvalidAmount", ErrInvalidAmount(), "WAL_003", 400},
		{"InvalidStatus", ErrInvalidStatus(), "WAL_004", 400},
		{"TransitionNotAllowed", ErrTransitionNotAllowed(fmt.Errorf("CLOSED -> ACTIVE")), "WAL_005", 409},
		{"RateUnavailable", ErrRateUnavailable(fmt.Errorf("timeout")), "FX_001", 502},
		{"DatabaseError", ErrDatabaseError(fmt.Errorf("down")), "SYS_001", 500},
		{"InternalError", InternalError(fmt.Errorf("oops")), "SYS_001", 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestValidation(t *testing.T) {
	err := Validation("amount must be a decimal string")
	assert.Equal(t, "WAL_003", err.Code)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
	assert.Equal(t, "amount must be a decimal string", err.Message)
}

func TestErrTransitionNotAllowed_PreservesCause(t *testing.T) {
	cause := fmt.Errorf("wallet state transition ACTIVE -> ACTIVE not allowed")
	err := ErrTransitionNotAllowed(cause)
	assert.True(t, errors.Is(err, cause))
}
