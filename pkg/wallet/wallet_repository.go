package wallet

import (
	"context"

	"notin-market/entities"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	WalletRepository interface {
		Create(ctx context.Context, wallet *entities.Wallet) error
		GetByUserID(ctx context.Context, userID string) (*entities.Wallet, error)
		// LockByUserID takes a row-level lock on the wallet. Only meaningful
		// inside Atomic; the lock is held until the transaction ends.
		LockByUserID(ctx context.Context, userID string) (*entities.Wallet, error)
		Save(ctx context.Context, wallet *entities.Wallet) error
		CreateTransaction(ctx context.Context, tx *entities.WalletTransaction) error
		ListTransactions(ctx context.Context, walletID string, txType string, page, limit int) ([]*entities.WalletTransaction, int64, error)
		Atomic(ctx context.Context, fn func(repo WalletRepository) error) error
	}

	walletRepository struct {
		db *gorm.DB
	}
)

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{
		db: db,
	}
}

func (r *walletRepository) Create(ctx context.Context, wallet *entities.Wallet) error {
	return r.db.WithContext(ctx).Create(wallet).Error
}

func (r *walletRepository) GetByUserID(ctx context.Context, userID string) (*entities.Wallet, error) {
	var wallet entities.Wallet
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (r *walletRepository) LockByUserID(ctx context.Context, userID string) (*entities.Wallet, error) {
	var wallet entities.Wallet
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (r *walletRepository) Save(ctx context.Context, wallet *entities.Wallet) error {
	return r.db.WithContext(ctx).Save(wallet).Error
}

func (r *walletRepository) CreateTransaction(ctx context.Context, tx *entities.WalletTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *walletRepository) ListTransactions(ctx context.Context, walletID string, txType string, page, limit int) ([]*entities.WalletTransaction, int64, error) {
	var transactions []*entities.WalletTransaction
	var count int64
	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Where("wallet_id = ?", walletID)
	if txType != "" {
		query = query.Where("type = ?", txType)
	}

	if err := query.Model(&entities.WalletTransaction{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Product").
		Preload("CoinPackage").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, 0, err
	}

	return transactions, count, nil
}

func (r *walletRepository) Atomic(ctx context.Context, fn func(repo WalletRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&walletRepository{db: tx})
	})
}
