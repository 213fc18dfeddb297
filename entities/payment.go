package entities

import (
	"github.com/google/uuid"
)

const (
	PaymentOrderPending = "pending"
	PaymentOrderPaid    = "paid"
	PaymentOrderFailed  = "failed"
)

// PaymentOrder tracks a midtrans payment from link creation to webhook
// settlement. OrderID is the midtrans order id we generate up front.
type PaymentOrder struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	OrderID       string    `gorm:"uniqueIndex;not null" json:"order_id"`
	UserID        uuid.UUID `gorm:"index;not null" json:"user_id"`
	CoinPackageID uuid.UUID `gorm:"not null" json:"coin_package_id"`
	Amount        int       `gorm:"not null" json:"amount"`
	Status        string    `gorm:"type:varchar(16);default:'pending'" json:"status"`

	User        *User        `gorm:"foreignKey:UserID" json:"-"`
	CoinPackage *CoinPackage `gorm:"foreignKey:CoinPackageID" json:"-"`
	Timestamp
}
