package domain

import "fmt"

// WalletStateError reports a disallowed lifecycle transition. It is a
// distinct failure channel from the Transaction error codes: lifecycle
// changes are operator actions, so misuse is surfaced as an error instead of
// a FAILED ledger entry.
type WalletStateError struct {
	From WalletStatus
	To   WalletStatus
}

func (e *WalletStateError) Error() string {
	return fmt.Sprintf("wallet state transition %s -> %s not allowed", e.From, e.To)
}
