package rules

import (
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
)

type transition struct {
	from, to domain.WalletStatus
}

// allowedTransitions is the wallet lifecycle state machine. CLOSED is
// terminal and no status may transition to itself.
var allowedTransitions = map[transition]struct{}{
	{domain.WalletStatusActive, domain.WalletStatusFrozen}: {},
	{domain.WalletStatusFrozen, domain.WalletStatusActive}: {},
	{domain.WalletStatusActive, domain.WalletStatusClosed}: {},
	{domain.WalletStatusFrozen, domain.WalletStatusClosed}: {},
}

// TransitionAllowed reports whether the lifecycle state machine permits
// moving a wallet from one status to another.
func TransitionAllowed(from, to domain.WalletStatus) bool {
	_, ok := allowedTransitions[transition{from, to}]
	return ok
}

// ApplyStatusChange validates and applies a wallet lifecycle transition.
//
// Unlike the financial rules this one signals failure through an error
// rather than a FAILED transaction: a disallowed transition is operator
// misuse, not a user-submitted business scenario, and must not appear in
// the ledger. On success the wallet keeps its balance, gets the new status
// and timestamp, and a zero-amount STATUS_CHANGE audit entry is recorded.
func ApplyStatusChange(
	wallet domain.Wallet,
	newStatus domain.WalletStatus,
	txID uuid.UUID,
	now time.Time,
) (domain.Wallet, domain.Transaction, error) {
	if !TransitionAllowed(wallet.Status, newStatus) {
		return wallet, domain.Transaction{}, &domain.WalletStateError{From: wallet.Status, To: newStatus}
	}

	updated := wallet.WithStatus(newStatus, now)
	tx := domain.NewStatusChangeTransaction(txID, wallet.ID, wallet.Currency, wallet.Balance, now)
	return updated, tx, nil
}
