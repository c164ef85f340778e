package handler

import (
	"time"

	"wallet-ledger/internal/adapter/http/dto"
	"wallet-ledger/internal/core/domain"
)

func toWalletResponse(w *domain.Wallet) dto.WalletResponse {
	return dto.WalletResponse{
		ID:        w.ID.String(),
		Currency:  string(w.Currency),
		Balance:   w.Balance.String(),
		Status:    string(w.Status),
		CreatedAt: w.CreatedAt.Format(time.RFC3339),
		UpdatedAt: w.UpdatedAt.Format(time.RFC3339),
	}
}

func toTransactionResponse(t *domain.Transaction) dto.TransactionResponse {
	resp := dto.TransactionResponse{
		ID:        t.ID.String(),
		Type:      string(t.Type),
		Amount:    t.Amount.String(),
		Currency:  string(t.Currency),
		Status:    string(t.Status),
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
	}
	if t.SourceWalletID != nil {
		s := t.SourceWalletID.String()
		resp.SourceWalletID = &s
	}
	if t.TargetWalletID != nil {
		s := t.TargetWalletID.String()
		resp.TargetWalletID = &s
	}
	if t.CreditedAmount != nil {
		s := t.CreditedAmount.String()
		resp.CreditedAmount = &s
	}
	if t.CreditedCurrency != nil {
		s := string(*t.CreditedCurrency)
		resp.CreditedCurrency = &s
	}
	if t.SourceBalanceAfter != nil {
		s := t.SourceBalanceAfter.String()
		resp.SourceBalanceAfter = &s
	}
	if t.TargetBalanceAfter != nil {
		s := t.TargetBalanceAfter.String()
		resp.TargetBalanceAfter = &s
	}
	if t.ErrorCode != nil {
		s := string(*t.ErrorCode)
		resp.ErrorCode = &s
	}
	return resp
}
