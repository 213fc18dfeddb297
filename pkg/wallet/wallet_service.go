package wallet

import (
	"context"
	"errors"

	"notin-market/domain"
	"notin-market/entities"
	"notin-market/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	WalletService interface {
		GetWallet(ctx context.Context, userID string) (*domain.WalletResponse, error)
		GetTransactionHistory(ctx context.Context, userID string, txType string, page, limit int) ([]*domain.WalletTransactionResponse, int64, error)
		Deposit(ctx context.Context, userID string, req domain.DepositRequest) (*domain.WalletTransactionResponse, error)
		Refund(ctx context.Context, userID string, req domain.RefundRequest) (*domain.WalletTransactionResponse, error)
		Withdraw(ctx context.Context, userID string, amount int, description string) (*domain.WalletTransactionResponse, error)
	}

	walletService struct {
		walletRepository WalletRepository
	}
)

func NewWalletService(walletRepository WalletRepository) WalletService {
	return &walletService{
		walletRepository: walletRepository,
	}
}

func (s *walletService) GetWallet(ctx context.Context, userID string) (*domain.WalletResponse, error) {
	wallet, err := s.walletRepository.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, err
	}

	return &domain.WalletResponse{
		ID:     wallet.ID.String(),
		UserID: wallet.UserID.String(),
		Coins:  wallet.Coins,
	}, nil
}

func (s *walletService) GetTransactionHistory(ctx context.Context, userID string, txType string, page, limit int) ([]*domain.WalletTransactionResponse, int64, error) {
	wallet, err := s.walletRepository.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, domain.ErrWalletNotFound
		}
		return nil, 0, err
	}

	transactions, count, err := s.walletRepository.ListTransactions(ctx, wallet.ID.String(), txType, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*domain.WalletTransactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		result = append(result, TransactionResponse(tx))
	}

	return result, count, nil
}

func (s *walletService) Deposit(ctx context.Context, userID string, req domain.DepositRequest) (*domain.WalletTransactionResponse, error) {
	entry, err := s.mutate(ctx, userID, func(w *entities.Wallet) (*entities.WalletTransaction, error) {
		return w.Deposit(req.Amount, req.Description, utils.DepositReferenceCode())
	})
	if err != nil {
		return nil, err
	}
	return TransactionResponse(entry), nil
}

func (s *walletService) Refund(ctx context.Context, userID string, req domain.RefundRequest) (*domain.WalletTransactionResponse, error) {
	var productID *uuid.UUID
	if req.ProductID != "" {
		parsed, err := uuid.Parse(req.ProductID)
		if err != nil {
			return nil, domain.ErrParseUUID
		}
		productID = &parsed
	}

	entry, err := s.mutate(ctx, userID, func(w *entities.Wallet) (*entities.WalletTransaction, error) {
		return w.Refund(req.Amount, req.Description, productID, utils.RefundReferenceCode())
	})
	if err != nil {
		return nil, err
	}
	return TransactionResponse(entry), nil
}

func (s *walletService) Withdraw(ctx context.Context, userID string, amount int, description string) (*domain.WalletTransactionResponse, error) {
	entry, err := s.mutate(ctx, userID, func(w *entities.Wallet) (*entities.WalletTransaction, error) {
		return w.Withdraw(amount, description)
	})
	if err != nil {
		return nil, err
	}
	return TransactionResponse(entry), nil
}

// mutate runs one balance mutation atomically: lock the wallet row, apply the
// entity mutation, persist the wallet and its ledger entry together.
func (s *walletService) mutate(ctx context.Context, userID string, fn func(w *entities.Wallet) (*entities.WalletTransaction, error)) (*entities.WalletTransaction, error) {
	var entry *entities.WalletTransaction

	err := s.walletRepository.Atomic(ctx, func(repo WalletRepository) error {
		wallet, err := repo.LockByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrWalletNotFound
			}
			return err
		}

		entry, err = fn(wallet)
		if err != nil {
			return err
		}

		if err := repo.Save(ctx, wallet); err != nil {
			return err
		}
		return repo.CreateTransaction(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

func TransactionResponse(tx *entities.WalletTransaction) *domain.WalletTransactionResponse {
	resp := &domain.WalletTransactionResponse{
		ID:            tx.ID.String(),
		WalletID:      tx.WalletID.String(),
		Type:          string(tx.Type),
		Coins:         tx.Coins,
		CoinsBefore:   tx.CoinsBefore,
		CoinsAfter:    tx.CoinsAfter,
		PaidAmount:    tx.PaidAmount,
		Description:   tx.Description,
		ReferenceCode: tx.ReferenceCode,
		CreatedAt:     tx.CreatedAt,
	}
	if tx.ProductID != nil {
		resp.ProductID = tx.ProductID.String()
	}
	if tx.CoinPackageID != nil {
		resp.CoinPackageID = tx.CoinPackageID.String()
	}
	return resp
}
