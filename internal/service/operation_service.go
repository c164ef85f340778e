package service

import (
	"context"
	"fmt"
	"strings"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/internal/core/rules"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// OperationServiceImpl implements ports.OperationService with pessimistic
// locking. Every attempt, accepted or rejected, appends exactly one ledger
// entry inside the same database transaction that updates the wallet rows.
type OperationServiceImpl struct {
	walletRepo ports.WalletRepository
	txRepo     ports.TransactionRepository
	transactor ports.DBTransactor
	rates      ports.RateProvider
	clock      ports.Clock
	log        zerolog.Logger
}

// NewOperationService creates a new OperationServiceImpl.
func NewOperationService(
	walletRepo ports.WalletRepository,
	txRepo ports.TransactionRepository,
	transactor ports.DBTransactor,
	rates ports.RateProvider,
	clock ports.Clock,
	log zerolog.Logger,
) *OperationServiceImpl {
	return &OperationServiceImpl{
		walletRepo: walletRepo,
		txRepo:     txRepo,
		transactor: transactor,
		rates:      rates,
		clock:      clock,
		log:        log,
	}
}

// Deposit credits a wallet. A rejected deposit returns the unchanged wallet
// and a FAILED ledger entry, not an error.
func (s *OperationServiceImpl) Deposit(ctx context.Context, req ports.AmountRequest) (*domain.Wallet, *domain.Transaction, error) {
	return s.applySingle(ctx, req.WalletID, func(w domain.Wallet) (domain.Wallet, domain.Transaction) {
		return rules.ApplyDeposit(w, req.Amount, req.Currency, uuid.New(), s.clock.Now())
	})
}

// Withdraw debits a wallet. A rejected withdrawal returns the unchanged
// wallet and a FAILED ledger entry, not an error.
func (s *OperationServiceImpl) Withdraw(ctx context.Context, req ports.AmountRequest) (*domain.Wallet, *domain.Transaction, error) {
	return s.applySingle(ctx, req.WalletID, func(w domain.Wallet) (domain.Wallet, domain.Transaction) {
		return rules.ApplyWithdraw(w, req.Amount, req.Currency, uuid.New(), s.clock.Now())
	})
}

// applySingle runs a single-wallet rule under a row lock and persists the
// outcome. The wallet row is written only when the attempt succeeded; the
// ledger entry is written either way.
func (s *OperationServiceImpl) applySingle(
	ctx context.Context,
	walletID uuid.UUID,
	apply func(domain.Wallet) (domain.Wallet, domain.Transaction),
) (*domain.Wallet, *domain.Transaction, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, nil, apperror.ErrDatabaseError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, walletID)
	if err != nil {
		return nil, nil, apperror.ErrDatabaseError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil {
		return nil, nil, apperror.ErrWalletNotFound()
	}

	updated, entry := apply(*wallet)

	if !entry.IsFailed() {
		if err := s.walletRepo.Save(ctx, dbTx, &updated); err != nil {
			return nil, nil, apperror.ErrDatabaseError(fmt.Errorf("save wallet: %w", err))
		}
	}
	if err := s.txRepo.Append(ctx, dbTx, &entry); err != nil {
		return nil, nil, apperror.ErrDatabaseError(fmt.Errorf("append transaction: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, nil, apperror.ErrDatabaseError(fmt.Errorf("commit tx: %w", err))
	}

	s.logOutcome(&entry)
	return &updated, &entry, nil
}

// Exchange converts funds between two wallets. The rate is fetched before
// the database transaction opens so no row lock is held across a network
// call; wallet currencies are immutable, so the pre-lock read is safe.
func (s *OperationServiceImpl) Exchange(ctx context.Context, req ports.ExchangeRequest) (*ports.ExchangeResult, error) {
	fxRate, err := s.lookupRate(ctx, req)
	if err != nil {
		return nil, err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	source, target, err := s.lockPair(ctx, dbTx, req.SourceWalletID, req.TargetWalletID)
	if err != nil {
		return nil, err
	}

	updatedSource, updatedTarget, entry := rules.ApplyExchange(
		*source, *target, req.Amount, fxRate, uuid.New(), s.clock.Now(),
	)

	if !entry.IsFailed() {
		if err := s.walletRepo.Save(ctx, dbTx, &updatedSource); err != nil {
			return nil, apperror.ErrDatabaseError(fmt.Errorf("save source wallet: %w", err))
		}
		if err := s.walletRepo.Save(ctx, dbTx, &updatedTarget); err != nil {
			return nil, apperror.ErrDatabaseError(fmt.Errorf("save target wallet: %w", err))
		}
	}
	if err := s.txRepo.Append(ctx, dbTx, &entry); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("append transaction: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("commit tx: %w", err))
	}

	s.logOutcome(&entry)
	return &ports.ExchangeResult{
		Source:      updatedSource,
		Target:      updatedTarget,
		Transaction: entry,
	}, nil
}

// lookupRate resolves the FX rate for the pair from an unlocked read of both
// wallets. A provider failure yields a nil rate, which the exchange rule
// turns into a FAILED EXCHANGE_RATE_UNAVAILABLE entry; a missing wallet is a
// hard WAL_001 error instead.
func (s *OperationServiceImpl) lookupRate(ctx context.Context, req ports.ExchangeRequest) (*decimal.Decimal, error) {
	source, err := s.walletRepo.GetByID(ctx, req.SourceWalletID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get source wallet: %w", err))
	}
	if source == nil {
		return nil, apperror.ErrWalletNotFound()
	}
	target, err := s.walletRepo.GetByID(ctx, req.TargetWalletID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get target wallet: %w", err))
	}
	if target == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	rate, err := s.rates.GetRate(ctx, source.Currency, target.Currency)
	if err != nil {
		s.log.Warn().Err(err).
			Str("from", string(source.Currency)).
			Str("to", string(target.Currency)).
			Msg("rate lookup failed")
		return nil, nil
	}
	return &rate, nil
}

// lockPair locks both wallet rows in a deterministic ID order so concurrent
// exchanges over the same pair cannot deadlock. A self-exchange locks the
// row once and returns the same snapshot twice.
func (s *OperationServiceImpl) lockPair(ctx context.Context, dbTx pgx.Tx, sourceID, targetID uuid.UUID) (*domain.Wallet, *domain.Wallet, error) {
	if sourceID == targetID {
		w, err := s.lockOne(ctx, dbTx, sourceID)
		if err != nil {
			return nil, nil, err
		}
		return w, w, nil
	}

	first, second := sourceID, targetID
	if strings.Compare(first.String(), second.String()) > 0 {
		first, second = second, first
	}

	locked := make(map[uuid.UUID]*domain.Wallet, 2)
	for _, id := range []uuid.UUID{first, second} {
		w, err := s.lockOne(ctx, dbTx, id)
		if err != nil {
			return nil, nil, err
		}
		locked[id] = w
	}
	return locked[sourceID], locked[targetID], nil
}

func (s *OperationServiceImpl) lockOne(ctx context.Context, dbTx pgx.Tx, id uuid.UUID) (*domain.Wallet, error) {
	w, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("lock wallet: %w", err))
	}
	if w == nil {
		return nil, apperror.ErrWalletNotFound()
	}
	return w, nil
}

func (s *OperationServiceImpl) logOutcome(entry *domain.Transaction) {
	evt := s.log.Info()
	if entry.IsFailed() {
		evt = s.log.Warn().Str("error_code", string(*entry.ErrorCode))
	}
	evt.
		Str("transaction_id", entry.ID.String()).
		Str("type", string(entry.Type)).
		Str("status", string(entry.Status)).
		Str("amount", entry.Amount.String()).
		Msg("operation recorded")
}
