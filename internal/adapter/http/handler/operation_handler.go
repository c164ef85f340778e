package handler

import (
	"context"

	"wallet-ledger/internal/adapter/http/dto"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OperationHandler handles the financial operation endpoints. A rejected
// attempt maps to 422 with the unchanged wallet and the FAILED ledger entry
// in the body; only infrastructure problems surface as error envelopes.
type OperationHandler struct {
	operationSvc ports.OperationService
}

// NewOperationHandler creates a new OperationHandler.
func NewOperationHandler(operationSvc ports.OperationService) *OperationHandler {
	return &OperationHandler{operationSvc: operationSvc}
}

// Deposit handles POST /api/v1/wallets/:id/deposit.
func (h *OperationHandler) Deposit(c *gin.Context) {
	h.handleAmountOp(c, h.operationSvc.Deposit)
}

// Withdraw handles POST /api/v1/wallets/:id/withdraw.
func (h *OperationHandler) Withdraw(c *gin.Context) {
	h.handleAmountOp(c, h.operationSvc.Withdraw)
}

func (h *OperationHandler) handleAmountOp(
	c *gin.Context,
	op func(ctx context.Context, req ports.AmountRequest) (*domain.Wallet, *domain.Transaction, error),
) {
	walletID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid wallet id"))
		return
	}

	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount())
		return
	}

	// An unknown currency must reach the rule engine so the attempt is
	// recorded with UNSUPPORTED_CURRENCY; the raw string is passed through.
	wallet, entry, err := op(c.Request.Context(), ports.AmountRequest{
		WalletID: walletID,
		Amount:   amount,
		Currency: domain.Currency(req.Currency),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	body := dto.OperationResponse{
		Wallet:      toWalletResponse(wallet),
		Transaction: toTransactionResponse(entry),
	}
	if entry.IsFailed() {
		response.Unprocessable(c, body)
		return
	}
	response.OK(c, body)
}

// Exchange handles POST /api/v1/wallets/exchange.
func (h *OperationHandler) Exchange(c *gin.Context) {
	var req dto.ExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	sourceID, err := uuid.Parse(req.SourceWalletID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid source wallet id"))
		return
	}
	targetID, err := uuid.Parse(req.TargetWalletID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid target wallet id"))
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount())
		return
	}

	result, err := h.operationSvc.Exchange(c.Request.Context(), ports.ExchangeRequest{
		SourceWalletID: sourceID,
		TargetWalletID: targetID,
		Amount:         amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	body := dto.ExchangeResponse{
		SourceWallet: toWalletResponse(&result.Source),
		TargetWallet: toWalletResponse(&result.Target),
		Transaction:  toTransactionResponse(&result.Transaction),
	}
	if result.Transaction.IsFailed() {
		response.Unprocessable(c, body)
		return
	}
	response.OK(c, body)
}
