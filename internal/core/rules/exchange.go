package rules

import (
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// creditScale is the number of fractional digits kept on credited amounts.
const creditScale = 2

// ApplyExchange validates and applies a currency exchange between two
// wallets. The FX rate is supplied by the caller (target units per one
// source unit); a nil or non-positive rate records
// EXCHANGE_RATE_UNAVAILABLE. The credited amount is rounded half away from
// zero to two fractional digits, once, at the credit boundary, so unrounded
// fractional currency never reaches a wallet balance. The debited amount is
// not rounded.
//
// On failure both wallets are returned unchanged and the FAILED transaction
// carries no credited or balance-after fields.
func ApplyExchange(
	source, target domain.Wallet,
	amount decimal.Decimal,
	fxRate *decimal.Decimal,
	txID uuid.UUID,
	now time.Time,
) (domain.Wallet, domain.Wallet, domain.Transaction) {
	if code := validateExchange(source, target, amount, fxRate); code != nil {
		tx := domain.NewExchangeTransaction(
			txID, source.ID, target.ID, amount, source.Currency,
			nil, nil, nil, nil, code, now,
		)
		return source, target, tx
	}

	credited := amount.Mul(*fxRate).Round(creditScale)
	updatedSource := source.WithBalance(source.Balance.Sub(amount), now)
	updatedTarget := target.WithBalance(target.Balance.Add(credited), now)

	tx := domain.NewExchangeTransaction(
		txID, source.ID, target.ID, amount, source.Currency,
		&credited, &target.Currency,
		&updatedSource.Balance, &updatedTarget.Balance,
		nil, now,
	)
	return updatedSource, updatedTarget, tx
}

// validateExchange checks structural errors (state, identity) before numeric
// ones (amount, currency, funds, rate). First match wins.
func validateExchange(source, target domain.Wallet, amount decimal.Decimal, fxRate *decimal.Decimal) *domain.ErrorCode {
	if !source.IsActive() || !target.IsActive() {
		return errCode(domain.ErrCodeInvalidWalletState)
	}
	// Self-exchange is forbidden even when otherwise well-formed.
	if source.ID == target.ID {
		return errCode(domain.ErrCodeInvalidWalletState)
	}
	if amount.Sign() <= 0 {
		return errCode(domain.ErrCodeInvalidAmount)
	}
	if source.Currency == target.Currency {
		return errCode(domain.ErrCodeUnsupportedCurrency)
	}
	if amount.GreaterThan(source.Balance) {
		return errCode(domain.ErrCodeInsufficientFunds)
	}
	if fxRate == nil || fxRate.Sign() <= 0 {
		return errCode(domain.ErrCodeExchangeRateUnavailable)
	}
	return nil
}
