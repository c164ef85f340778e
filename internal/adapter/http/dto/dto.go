package dto

// CreateWalletRequest is the request body for wallet creation.
type CreateWalletRequest struct {
	Currency string `json:"currency" binding:"required,len=3"`
}

// AmountRequest is the request body for deposits and withdrawals. Amount is
// a decimal string so values like "0.10" survive the wire exactly.
type AmountRequest struct {
	Amount   string `json:"amount" binding:"required,decimal_amount"`
	Currency string `json:"currency" binding:"required,len=3"`
}

// ExchangeRequest is the request body for a currency exchange.
type ExchangeRequest struct {
	SourceWalletID string `json:"source_wallet_id" binding:"required,uuid"`
	TargetWalletID string `json:"target_wallet_id" binding:"required,uuid"`
	Amount         string `json:"amount" binding:"required,decimal_amount"`
}

// StatusChangeRequest is the request body for a wallet lifecycle change.
type StatusChangeRequest struct {
	Status string `json:"status" binding:"required"`
}

// WalletResponse is the response body for a wallet snapshot. Balance is a
// decimal string.
type WalletResponse struct {
	ID        string `json:"id"`
	Currency  string `json:"currency"`
	Balance   string `json:"balance"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// TransactionResponse is the response body for a ledger entry. Optional
// fields are omitted when the entry does not carry them.
type TransactionResponse struct {
	ID                 string  `json:"id"`
	Type               string  `json:"type"`
	SourceWalletID     *string `json:"source_wallet_id,omitempty"`
	TargetWalletID     *string `json:"target_wallet_id,omitempty"`
	Amount             string  `json:"amount"`
	Currency           string  `json:"currency"`
	CreditedAmount     *string `json:"credited_amount,omitempty"`
	CreditedCurrency   *string `json:"credited_currency,omitempty"`
	SourceBalanceAfter *string `json:"source_balance_after,omitempty"`
	TargetBalanceAfter *string `json:"target_balance_after,omitempty"`
	Status             string  `json:"status"`
	ErrorCode          *string `json:"error_code,omitempty"`
	CreatedAt          string  `json:"created_at"`
}

// OperationResponse pairs the wallet snapshot after an attempt with the
// ledger entry recording it. Rejected attempts return the unchanged wallet
// and a FAILED entry.
type OperationResponse struct {
	Wallet      WalletResponse      `json:"wallet"`
	Transaction TransactionResponse `json:"transaction"`
}

// ExchangeResponse carries both wallet snapshots plus the ledger entry.
type ExchangeResponse struct {
	SourceWallet WalletResponse      `json:"source_wallet"`
	TargetWallet WalletResponse      `json:"target_wallet"`
	Transaction  TransactionResponse `json:"transaction"`
}

// StatusChangeResponse pairs the updated wallet with its audit entry.
type StatusChangeResponse struct {
	Wallet      WalletResponse      `json:"wallet"`
	Transaction TransactionResponse `json:"transaction"`
}

// TransactionListResponse wraps a wallet's ledger entries.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Total int                   `json:"total"`
}

// WalletListResponse wraps the wallet collection.
type WalletListResponse struct {
	Items []WalletResponse `json:"items"`
	Total int              `json:"total"`
}
