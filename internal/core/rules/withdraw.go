package rules

import (
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ApplyWithdraw validates and applies a withdrawal from a single wallet.
// Failure semantics match ApplyDeposit: the wallet comes back unchanged and
// the FAILED transaction names the violated rule.
func ApplyWithdraw(
	wallet domain.Wallet,
	amount decimal.Decimal,
	currency domain.Currency,
	txID uuid.UUID,
	now time.Time,
) (domain.Wallet, domain.Transaction) {
	if code := validateWithdraw(wallet, amount, currency); code != nil {
		tx := domain.NewWithdrawalTransaction(txID, wallet.ID, amount, currency, code, nil, now)
		return wallet, tx
	}

	updated := wallet.WithBalance(wallet.Balance.Sub(amount), now)
	tx := domain.NewWithdrawalTransaction(txID, wallet.ID, amount, currency, nil, &updated.Balance, now)
	return updated, tx
}

// validateWithdraw mirrors validateDeposit plus a funds check, evaluated last.
func validateWithdraw(wallet domain.Wallet, amount decimal.Decimal, currency domain.Currency) *domain.ErrorCode {
	if !wallet.IsActive() {
		return errCode(domain.ErrCodeInvalidWalletState)
	}
	if amount.Sign() <= 0 {
		return errCode(domain.ErrCodeInvalidAmount)
	}
	if currency != wallet.Currency {
		return errCode(domain.ErrCodeUnsupportedCurrency)
	}
	if amount.GreaterThan(wallet.Balance) {
		return errCode(domain.ErrCodeInsufficientFunds)
	}
	return nil
}
