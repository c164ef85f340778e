package postgres

import (
	"context"
	"testing"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDeposit(walletID uuid.UUID) *domain.Transaction {
	amount := decimal.RequireFromString("25.00")
	balanceAfter := decimal.RequireFromString("125.00")
	t := domain.NewDepositTransaction(
		uuid.New(), walletID, amount, domain.CurrencyDKK, nil, &balanceAfter,
		time.Now().UTC().Truncate(time.Microsecond),
	)
	return &t
}

func transactionColumnNames() []string {
	return []string{
		"id", "type", "source_wallet_id", "target_wallet_id", "amount", "currency",
		"credited_amount", "credited_currency", "source_balance_after", "target_balance_after",
		"status", "error_code", "created_at",
	}
}

func transactionRow(t *domain.Transaction) *pgxmock.Rows {
	return pgxmock.NewRows(transactionColumnNames()).AddRow(
		t.ID, t.Type, t.SourceWalletID, t.TargetWalletID, t.Amount, t.Currency,
		t.CreditedAmount, t.CreditedCurrency, t.SourceBalanceAfter, t.TargetBalanceAfter,
		t.Status, t.ErrorCode, t.CreatedAt,
	)
}

func TestTransactionRepo_Append(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	entry := newTestDeposit(uuid.New())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(
			entry.ID, entry.Type, entry.SourceWalletID, entry.TargetWalletID,
			entry.Amount, entry.Currency, entry.CreditedAmount, entry.CreditedCurrency,
			entry.SourceBalanceAfter, entry.TargetBalanceAfter,
			entry.Status, entry.ErrorCode, entry.CreatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Append(context.Background(), tx, entry)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_Append_FailedAttempt(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	walletID := uuid.New()
	errCode := domain.ErrCodeInsufficientFunds
	amount := decimal.RequireFromString("500.00")
	entry := domain.NewWithdrawalTransaction(
		uuid.New(), walletID, amount, domain.CurrencyEUR, &errCode, nil,
		time.Now().UTC(),
	)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(
			entry.ID, entry.Type, entry.SourceWalletID, entry.TargetWalletID,
			entry.Amount, entry.Currency, entry.CreditedAmount, entry.CreditedCurrency,
			entry.SourceBalanceAfter, entry.TargetBalanceAfter,
			entry.Status, entry.ErrorCode, entry.CreatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Append(context.Background(), tx, &entry)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	entry := newTestDeposit(uuid.New())

	mock.ExpectQuery("SELECT .+ FROM transactions WHERE id").
		WithArgs(entry.ID).
		WillReturnRows(transactionRow(entry))

	result, err := repo.GetByID(context.Background(), entry.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, entry.ID, result.ID)
	assert.Equal(t, domain.TransactionTypeDeposit, result.Type)
	assert.Equal(t, domain.TransactionStatusCompleted, result.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM transactions WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(transactionColumnNames()))

	result, err := repo.GetByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_ListByWallet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	walletID := uuid.New()
	first := newTestDeposit(walletID)
	second := newTestDeposit(walletID)

	rows := pgxmock.NewRows(transactionColumnNames()).
		AddRow(
			second.ID, second.Type, second.SourceWalletID, second.TargetWalletID,
			second.Amount, second.Currency, second.CreditedAmount, second.CreditedCurrency,
			second.SourceBalanceAfter, second.TargetBalanceAfter,
			second.Status, second.ErrorCode, second.CreatedAt,
		).
		AddRow(
			first.ID, first.Type, first.SourceWalletID, first.TargetWalletID,
			first.Amount, first.Currency, first.CreditedAmount, first.CreditedCurrency,
			first.SourceBalanceAfter, first.TargetBalanceAfter,
			first.Status, first.ErrorCode, first.CreatedAt,
		)

	mock.ExpectQuery("SELECT .+ FROM transactions").
		WithArgs(walletID).
		WillReturnRows(rows)

	result, err := repo.ListByWallet(context.Background(), walletID)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, second.ID, result[0].ID)
	assert.Equal(t, first.ID, result[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
