// Package rules implements the pure domain rule engine: validation and state
// transition functions for wallet operations. Every rule is a pure function
// from (snapshot(s), parameters, timestamp) to (new snapshot(s), transaction
// record). Rules perform no I/O, never read a clock, and never mutate their
// inputs; callers persist the returned values.
package rules

import (
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ApplyDeposit validates and applies a deposit to a single wallet.
// On failure the input wallet is returned unchanged and the transaction is
// FAILED with the first violated rule's error code.
func ApplyDeposit(
	wallet domain.Wallet,
	amount decimal.Decimal,
	currency domain.Currency,
	txID uuid.UUID,
	now time.Time,
) (domain.Wallet, domain.Transaction) {
	if code := validateDeposit(wallet, amount, currency); code != nil {
		tx := domain.NewDepositTransaction(txID, wallet.ID, amount, currency, code, nil, now)
		return wallet, tx
	}

	updated := wallet.WithBalance(wallet.Balance.Add(amount), now)
	tx := domain.NewDepositTransaction(txID, wallet.ID, amount, currency, nil, &updated.Balance, now)
	return updated, tx
}

// validateDeposit returns the first violated rule's code, in precedence
// order, or nil. The order is a contract: callers rely on a deterministic
// code when several conditions hold at once.
func validateDeposit(wallet domain.Wallet, amount decimal.Decimal, currency domain.Currency) *domain.ErrorCode {
	if !wallet.IsActive() {
		return errCode(domain.ErrCodeInvalidWalletState)
	}
	if amount.Sign() <= 0 {
		return errCode(domain.ErrCodeInvalidAmount)
	}
	if currency != wallet.Currency {
		return errCode(domain.ErrCodeUnsupportedCurrency)
	}
	return nil
}

func errCode(c domain.ErrorCode) *domain.ErrorCode {
	return &c
}
