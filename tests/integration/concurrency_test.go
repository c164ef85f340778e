package integration

import (
	"context"
	"sync"
	"testing"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/internal/service"
	"wallet-ledger/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrentWithdrawals runs many withdrawals against one wallet in
// parallel. The transactor serialises them, so exactly balance/amount
// succeed and every attempt, successful or not, ends up in the ledger.
func TestConcurrentWithdrawals(t *testing.T) {
	walletRepo := newInMemoryWalletRepo()
	txRepo := newInMemoryTransactionRepo()
	transactor := newInMemoryTransactor()
	log := logger.New("error", false)
	clock := service.SystemClock{}

	walletSvc := service.NewWalletService(walletRepo, txRepo, transactor, clock, log)
	operationSvc := service.NewOperationService(walletRepo, txRepo, transactor, nil, clock, log)

	ctx := context.Background()
	wallet, err := walletSvc.CreateWallet(ctx, domain.CurrencyDKK)
	require.NoError(t, err)

	_, _, err = operationSvc.Deposit(ctx, ports.AmountRequest{
		WalletID: wallet.ID,
		Amount:   decimal.NewFromInt(30),
		Currency: domain.CurrencyDKK,
	})
	require.NoError(t, err)

	const attempts = 10
	withdrawal := decimal.NewFromInt(10)

	var wg sync.WaitGroup
	results := make([]*domain.Transaction, attempts)
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, entry, err := operationSvc.Withdraw(ctx, ports.AmountRequest{
				WalletID: wallet.ID,
				Amount:   withdrawal,
				Currency: domain.CurrencyDKK,
			})
			results[i] = entry
			errs[i] = err
		}(i)
	}
	wg.Wait()

	// Balance 30 admits exactly 3 withdrawals of 10.
	succeeded := 0
	for i, entry := range results {
		require.NoError(t, errs[i])
		require.NotNil(t, entry)
		if !entry.IsFailed() {
			succeeded++
		} else {
			require.NotNil(t, entry.ErrorCode)
			assert.Equal(t, domain.ErrCodeInsufficientFunds, *entry.ErrorCode)
		}
	}
	assert.Equal(t, 3, succeeded)

	final, err := walletSvc.GetWallet(ctx, wallet.ID)
	require.NoError(t, err)
	assert.True(t, final.Balance.IsZero(), "expected zero balance, got %s", final.Balance)

	// Deposit + every withdrawal attempt is ledgered.
	entries, err := txRepo.ListByWallet(ctx, wallet.ID)
	require.NoError(t, err)
	assert.Len(t, entries, attempts+1)
}
