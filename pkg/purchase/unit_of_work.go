package purchase

import (
	"context"

	"notin-market/entities"
	"notin-market/pkg/product"
	"notin-market/pkg/wallet"

	"gorm.io/gorm"
)

type (
	// UnitOfWork runs fn inside one database transaction and hands it
	// repositories scoped to that transaction, so the balance debit, the
	// ledger entry, the ownership record and the counter bump commit or
	// roll back together.
	UnitOfWork interface {
		Do(ctx context.Context, fn func(wallets wallet.WalletRepository, products product.ProductRepository, orders OrderRepository) error) error
	}

	// OrderRepository is the payment-order slice a settlement transaction
	// needs: claiming an order so it settles exactly once.
	OrderRepository interface {
		// ClaimPending flips a pending order to paid and reports whether
		// this call won the claim. The update takes the row lock, so
		// concurrent settlements of one order serialize here and the
		// loser sees zero rows affected.
		ClaimPending(ctx context.Context, orderID string) (bool, error)
	}

	gormUnitOfWork struct {
		db *gorm.DB
	}

	orderRepository struct {
		db *gorm.DB
	}
)

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{
		db: db,
	}
}

func (u *gormUnitOfWork) Do(ctx context.Context, fn func(wallets wallet.WalletRepository, products product.ProductRepository, orders OrderRepository) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(wallet.NewWalletRepository(tx), product.NewProductRepository(tx), &orderRepository{db: tx})
	})
}

func (r *orderRepository) ClaimPending(ctx context.Context, orderID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.PaymentOrder{}).
		Where("order_id = ? AND status = ?", orderID, entities.PaymentOrderPending).
		Update("status", entities.PaymentOrderPaid)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
