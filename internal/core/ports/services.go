package ports

import (
	"context"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Clock supplies timestamps to the service layer. The rule engine itself
// takes explicit timestamps, so injecting the clock here keeps every rule
// output reproducible in tests.
type Clock interface {
	Now() time.Time
}

// RateProvider supplies FX rates as target currency units per one source
// currency unit. Implementations must short-circuit same-currency pairs to
// rate 1 and return an error when a rate cannot be obtained.
type RateProvider interface {
	GetRate(ctx context.Context, from, to domain.Currency) (decimal.Decimal, error)
}

// RateCache caches FX rates with a TTL. Get returns nil, nil on a miss.
type RateCache interface {
	Get(ctx context.Context, from, to domain.Currency) (*decimal.Decimal, error)
	Set(ctx context.Context, from, to domain.Currency, rate decimal.Decimal, ttl time.Duration) error
}

// --- Service Ports (Business Logic) ---

// WalletService manages wallet lifecycle and queries.
type WalletService interface {
	CreateWallet(ctx context.Context, currency domain.Currency) (*domain.Wallet, error)
	GetWallet(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	ListWallets(ctx context.Context) ([]domain.Wallet, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, newStatus domain.WalletStatus) (*domain.Wallet, *domain.Transaction, error)
	ListTransactions(ctx context.Context, walletID uuid.UUID) ([]domain.Transaction, error)
}

// OperationService executes financial operations against wallet snapshots.
// A rejected operation is not an error: it returns the unchanged wallet(s)
// and a FAILED transaction that is persisted to the ledger like any other.
type OperationService interface {
	Deposit(ctx context.Context, req AmountRequest) (*domain.Wallet, *domain.Transaction, error)
	Withdraw(ctx context.Context, req AmountRequest) (*domain.Wallet, *domain.Transaction, error)
	Exchange(ctx context.Context, req ExchangeRequest) (*ExchangeResult, error)
}

// AmountRequest holds validated input for deposits and withdrawals.
type AmountRequest struct {
	WalletID uuid.UUID
	Amount   decimal.Decimal
	Currency domain.Currency
}

// ExchangeRequest holds validated input for a currency exchange.
type ExchangeRequest struct {
	SourceWalletID uuid.UUID
	TargetWalletID uuid.UUID
	Amount         decimal.Decimal
}

// ExchangeResult carries both updated snapshots plus the ledger entry.
type ExchangeResult struct {
	Source      domain.Wallet
	Target      domain.Wallet
	Transaction domain.Transaction
}
