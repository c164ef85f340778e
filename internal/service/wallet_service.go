package service

import (
	"context"
	"errors"
	"fmt"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/internal/core/rules"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// WalletServiceImpl implements ports.WalletService.
type WalletServiceImpl struct {
	walletRepo ports.WalletRepository
	txRepo     ports.TransactionRepository
	transactor ports.DBTransactor
	clock      ports.Clock
	log        zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(
	walletRepo ports.WalletRepository,
	txRepo ports.TransactionRepository,
	transactor ports.DBTransactor,
	clock ports.Clock,
	log zerolog.Logger,
) *WalletServiceImpl {
	return &WalletServiceImpl{
		walletRepo: walletRepo,
		txRepo:     txRepo,
		transactor: transactor,
		clock:      clock,
		log:        log,
	}
}

// CreateWallet creates an empty ACTIVE wallet in the given currency.
func (s *WalletServiceImpl) CreateWallet(ctx context.Context, currency domain.Currency) (*domain.Wallet, error) {
	wallet := domain.NewWallet(currency, s.clock.Now())

	if err := s.walletRepo.Create(ctx, &wallet); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create wallet: %w", err))
	}

	s.log.Info().
		Str("wallet_id", wallet.ID.String()).
		Str("currency", string(currency)).
		Msg("wallet created")

	return &wallet, nil
}

// GetWallet fetches a wallet snapshot by ID.
func (s *WalletServiceImpl) GetWallet(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}
	return wallet, nil
}

// ListWallets returns all wallets.
func (s *WalletServiceImpl) ListWallets(ctx context.Context) ([]domain.Wallet, error) {
	wallets, err := s.walletRepo.List(ctx)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list wallets: %w", err))
	}
	return wallets, nil
}

// ChangeStatus drives the wallet lifecycle state machine. Allowed
// transitions persist the new status together with a STATUS_CHANGE audit
// entry; disallowed ones surface as WAL_005 and leave the ledger untouched.
func (s *WalletServiceImpl) ChangeStatus(ctx context.Context, id uuid.UUID, newStatus domain.WalletStatus) (*domain.Wallet, *domain.Transaction, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, nil, apperror.ErrDatabaseError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, id)
	if err != nil {
		return nil, nil, apperror.ErrDatabaseError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil {
		return nil, nil, apperror.ErrWalletNotFound()
	}

	updated, entry, err := rules.ApplyStatusChange(*wallet, newStatus, uuid.New(), s.clock.Now())
	if err != nil {
		var stateErr *domain.WalletStateError
		if errors.As(err, &stateErr) {
			return nil, nil, apperror.ErrTransitionNotAllowed(err)
		}
		return nil, nil, apperror.InternalError(err)
	}

	if err := s.walletRepo.Save(ctx, dbTx, &updated); err != nil {
		return nil, nil, apperror.ErrDatabaseError(fmt.Errorf("save wallet: %w", err))
	}
	if err := s.txRepo.Append(ctx, dbTx, &entry); err != nil {
		return nil, nil, apperror.ErrDatabaseError(fmt.Errorf("append status change: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, nil, apperror.ErrDatabaseError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("wallet_id", id.String()).
		Str("from", string(wallet.Status)).
		Str("to", string(newStatus)).
		Msg("wallet status changed")

	return &updated, &entry, nil
}

// ListTransactions returns the wallet's ledger entries, newest first.
func (s *WalletServiceImpl) ListTransactions(ctx context.Context, walletID uuid.UUID) ([]domain.Transaction, error) {
	wallet, err := s.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	txs, err := s.txRepo.ListByWallet(ctx, walletID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list transactions: %w", err))
	}
	return txs, nil
}
