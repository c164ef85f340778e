package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletStatus represents the lifecycle state of a wallet.
type WalletStatus string

const (
	WalletStatusActive WalletStatus = "ACTIVE"
	WalletStatusFrozen WalletStatus = "FROZEN"
	WalletStatusClosed WalletStatus = "CLOSED"
)

// ParseWalletStatus validates a raw wallet status value.
func ParseWalletStatus(s string) (WalletStatus, error) {
	switch WalletStatus(s) {
	case WalletStatusActive, WalletStatusFrozen, WalletStatusClosed:
		return WalletStatus(s), nil
	}
	return "", fmt.Errorf("unknown wallet status %q", s)
}

// Wallet is a snapshot of one account holding a balance in a single currency.
// Rules never mutate a Wallet; they return a replacement snapshot.
type Wallet struct {
	ID        uuid.UUID       `json:"id"`
	Currency  Currency        `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	Status    WalletStatus    `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewWallet creates an ACTIVE wallet with a zero balance.
func NewWallet(currency Currency, now time.Time) Wallet {
	return Wallet{
		ID:        uuid.New(),
		Currency:  currency,
		Balance:   decimal.Zero,
		Status:    WalletStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsActive reports whether the wallet accepts financial operations.
func (w Wallet) IsActive() bool {
	return w.Status == WalletStatusActive
}

// WithBalance returns a copy of the wallet with a new balance and updated timestamp.
func (w Wallet) WithBalance(balance decimal.Decimal, now time.Time) Wallet {
	w.Balance = balance
	w.UpdatedAt = now
	return w
}

// WithStatus returns a copy of the wallet with a new status and updated timestamp.
func (w Wallet) WithStatus(status WalletStatus, now time.Time) Wallet {
	w.Status = status
	w.UpdatedAt = now
	return w
}
