package midtrans

import (
	"context"

	"notin-market/entities"

	"gorm.io/gorm"
)

type (
	MidtransRepository interface {
		CreatePaymentOrder(ctx context.Context, order *entities.PaymentOrder) error
		GetPaymentOrderByOrderID(ctx context.Context, orderID string) (*entities.PaymentOrder, error)
		UpdatePaymentOrderStatus(ctx context.Context, order *entities.PaymentOrder, status string) error
	}

	midtransRepository struct {
		db *gorm.DB
	}
)

func NewMidtransRepository(db *gorm.DB) MidtransRepository {
	return &midtransRepository{
		db: db,
	}
}

func (r *midtransRepository) CreatePaymentOrder(ctx context.Context, order *entities.PaymentOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *midtransRepository) GetPaymentOrderByOrderID(ctx context.Context, orderID string) (*entities.PaymentOrder, error) {
	var order entities.PaymentOrder
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *midtransRepository) UpdatePaymentOrderStatus(ctx context.Context, order *entities.PaymentOrder, status string) error {
	order.Status = status
	return r.db.WithContext(ctx).Save(order).Error
}
