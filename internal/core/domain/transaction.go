package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of recorded operation.
type TransactionType string

const (
	TransactionTypeDeposit      TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal   TransactionType = "WITHDRAWAL"
	TransactionTypeExchange     TransactionType = "EXCHANGE"
	TransactionTypeStatusChange TransactionType = "STATUS_CHANGE"
)

// TransactionStatus is the outcome of one operation attempt.
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// ErrorCode names the first validation rule an operation violated.
type ErrorCode string

const (
	ErrCodeInvalidWalletState      ErrorCode = "INVALID_WALLET_STATE"
	ErrCodeInvalidAmount           ErrorCode = "INVALID_AMOUNT"
	ErrCodeUnsupportedCurrency     ErrorCode = "UNSUPPORTED_CURRENCY"
	ErrCodeInsufficientFunds       ErrorCode = "INSUFFICIENT_FUNDS"
	ErrCodeExchangeRateUnavailable ErrorCode = "EXCHANGE_RATE_UNAVAILABLE"
)

// Transaction is an immutable ledger entry recording one operation attempt,
// successful or failed. Once created it is never updated or deleted.
//
// Invariant: Status == FAILED exactly when ErrorCode is set, and then no
// balance-after or credited fields are populated.
type Transaction struct {
	ID                 uuid.UUID         `json:"id"`
	Type               TransactionType   `json:"type"`
	SourceWalletID     *uuid.UUID        `json:"source_wallet_id,omitempty"`
	TargetWalletID     *uuid.UUID        `json:"target_wallet_id,omitempty"`
	Amount             decimal.Decimal   `json:"amount"`
	Currency           Currency          `json:"currency"`
	CreditedAmount     *decimal.Decimal  `json:"credited_amount,omitempty"`
	CreditedCurrency   *Currency         `json:"credited_currency,omitempty"`
	SourceBalanceAfter *decimal.Decimal  `json:"source_balance_after,omitempty"`
	TargetBalanceAfter *decimal.Decimal  `json:"target_balance_after,omitempty"`
	Status             TransactionStatus `json:"status"`
	ErrorCode          *ErrorCode        `json:"error_code,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
}

// IsFailed reports whether the recorded operation was rejected.
func (t *Transaction) IsFailed() bool {
	return t.Status == TransactionStatusFailed
}

// Factory constructors. Rules call these after validating inputs and
// computing resulting balances, so field wiring stays in one place.

// NewDepositTransaction builds a DEPOSIT ledger entry. The wallet is the
// target; targetBalanceAfter is nil for failed attempts.
func NewDepositTransaction(
	id uuid.UUID,
	walletID uuid.UUID,
	amount decimal.Decimal,
	currency Currency,
	errCode *ErrorCode,
	targetBalanceAfter *decimal.Decimal,
	createdAt time.Time,
) Transaction {
	return Transaction{
		ID:                 id,
		Type:               TransactionTypeDeposit,
		TargetWalletID:     &walletID,
		Amount:             amount,
		Currency:           currency,
		TargetBalanceAfter: targetBalanceAfter,
		Status:             statusFor(errCode),
		ErrorCode:          errCode,
		CreatedAt:          createdAt,
	}
}

// NewWithdrawalTransaction builds a WITHDRAWAL ledger entry. The wallet is
// the source; sourceBalanceAfter is nil for failed attempts.
func NewWithdrawalTransaction(
	id uuid.UUID,
	walletID uuid.UUID,
	amount decimal.Decimal,
	currency Currency,
	errCode *ErrorCode,
	sourceBalanceAfter *decimal.Decimal,
	createdAt time.Time,
) Transaction {
	return Transaction{
		ID:                 id,
		Type:               TransactionTypeWithdrawal,
		SourceWalletID:     &walletID,
		Amount:             amount,
		Currency:           currency,
		SourceBalanceAfter: sourceBalanceAfter,
		Status:             statusFor(errCode),
		ErrorCode:          errCode,
		CreatedAt:          createdAt,
	}
}

// NewExchangeTransaction builds an EXCHANGE ledger entry. Amount is the
// debited amount in the source currency; credited fields carry the rounded
// target-currency amount and are nil for failed attempts.
func NewExchangeTransaction(
	id uuid.UUID,
	sourceWalletID, targetWalletID uuid.UUID,
	amount decimal.Decimal,
	sourceCurrency Currency,
	creditedAmount *decimal.Decimal,
	creditedCurrency *Currency,
	sourceBalanceAfter, targetBalanceAfter *decimal.Decimal,
	errCode *ErrorCode,
	createdAt time.Time,
) Transaction {
	return Transaction{
		ID:                 id,
		Type:               TransactionTypeExchange,
		SourceWalletID:     &sourceWalletID,
		TargetWalletID:     &targetWalletID,
		Amount:             amount,
		Currency:           sourceCurrency,
		CreditedAmount:     creditedAmount,
		CreditedCurrency:   creditedCurrency,
		SourceBalanceAfter: sourceBalanceAfter,
		TargetBalanceAfter: targetBalanceAfter,
		Status:             statusFor(errCode),
		ErrorCode:          errCode,
		CreatedAt:          createdAt,
	}
}

// NewStatusChangeTransaction builds a COMPLETED STATUS_CHANGE audit entry.
// Funds are untouched: amount is zero and both balance-after fields carry the
// unchanged balance. Disallowed transitions never reach the ledger; they are
// rejected through the WalletStateError channel instead.
func NewStatusChangeTransaction(
	id uuid.UUID,
	walletID uuid.UUID,
	currency Currency,
	balanceAfter decimal.Decimal,
	createdAt time.Time,
) Transaction {
	return Transaction{
		ID:                 id,
		Type:               TransactionTypeStatusChange,
		SourceWalletID:     &walletID,
		TargetWalletID:     &walletID,
		Amount:             decimal.Zero,
		Currency:           currency,
		SourceBalanceAfter: &balanceAfter,
		TargetBalanceAfter: &balanceAfter,
		Status:             TransactionStatusCompleted,
		CreatedAt:          createdAt,
	}
}

func statusFor(errCode *ErrorCode) TransactionStatus {
	if errCode != nil {
		return TransactionStatusFailed
	}
	return TransactionStatusCompleted
}
