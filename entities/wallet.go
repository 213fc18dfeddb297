package entities

import (
	"fmt"

	"notin-market/domain"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionPurchaseProduct TransactionType = "purchase_product"
	TransactionPurchasePackage TransactionType = "purchase_package"
	TransactionDeposit         TransactionType = "deposit"
	TransactionWithdraw        TransactionType = "withdraw"
	TransactionRefund          TransactionType = "refund"
)

type Wallet struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID uuid.UUID `gorm:"uniqueIndex" json:"user_id"`
	Coins  int       `gorm:"not null;default:0" json:"coins"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
	Timestamp
}

// WalletTransaction is an immutable ledger entry. Rows are only ever created,
// never updated or deleted. CoinsBefore/CoinsAfter snapshot the balance around
// the mutation so the ledger stays auditable even if delta logic changes.
type WalletTransaction struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	WalletID      uuid.UUID       `gorm:"index;not null" json:"wallet_id"`
	Type          TransactionType `gorm:"type:varchar(32);index;not null" json:"type"`
	Coins         int             `gorm:"not null" json:"coins"`
	CoinsBefore   int             `gorm:"not null" json:"coins_before"`
	CoinsAfter    int             `gorm:"not null" json:"coins_after"`
	PaidAmount    int             `gorm:"not null;default:0" json:"paid_amount"`
	Description   string          `json:"description"`
	ProductID     *uuid.UUID      `json:"product_id,omitempty"`
	CoinPackageID *uuid.UUID      `json:"coin_package_id,omitempty"`
	ReferenceCode string          `gorm:"index" json:"reference_code"`

	Wallet      *Wallet      `gorm:"foreignKey:WalletID" json:"-"`
	Product     *Product     `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	CoinPackage *CoinPackage `gorm:"foreignKey:CoinPackageID" json:"coin_package,omitempty"`
	Timestamp
}

func (w *Wallet) HasSufficientBalance(amount int) bool {
	return w.Coins >= amount
}

// apply is the single mutation primitive. Every public mutation funnels
// through it, so no code path can change Coins without a ledger entry.
func (w *Wallet) apply(txType TransactionType, delta int, paidAmount int, description string, referenceCode string, productID, coinPackageID *uuid.UUID) *WalletTransaction {
	before := w.Coins
	w.Coins += delta

	return &WalletTransaction{
		WalletID:      w.ID,
		Type:          txType,
		Coins:         delta,
		CoinsBefore:   before,
		CoinsAfter:    w.Coins,
		PaidAmount:    paidAmount,
		Description:   description,
		ReferenceCode: referenceCode,
		ProductID:     productID,
		CoinPackageID: coinPackageID,
	}
}

// DebitForProduct re-checks the balance even though settlement pre-checks it:
// the authoritative check happens here, on the row-locked wallet.
func (w *Wallet) DebitForProduct(product *Product, referenceCode string) (*WalletTransaction, error) {
	if !w.HasSufficientBalance(product.Price) {
		return nil, &domain.InsufficientBalanceError{
			RequiredCoins: product.Price,
			CurrentCoins:  w.Coins,
		}
	}

	productID := product.ID
	return w.apply(
		TransactionPurchaseProduct,
		-product.Price,
		0,
		fmt.Sprintf("Purchased product: %s", product.Name),
		referenceCode,
		&productID,
		nil,
	), nil
}

func (w *Wallet) CreditForPackage(pkg *CoinPackage, paidAmount int, referenceCode string) *WalletTransaction {
	packageID := pkg.ID
	return w.apply(
		TransactionPurchasePackage,
		pkg.Coins,
		paidAmount,
		fmt.Sprintf("Purchased coin package: %s", pkg.Name),
		referenceCode,
		nil,
		&packageID,
	)
}

func (w *Wallet) Deposit(amount int, description string, referenceCode string) (*WalletTransaction, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if description == "" {
		description = "Wallet deposit"
	}
	return w.apply(TransactionDeposit, amount, 0, description, referenceCode, nil, nil), nil
}

func (w *Wallet) Withdraw(amount int, description string) (*WalletTransaction, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if !w.HasSufficientBalance(amount) {
		return nil, &domain.InsufficientBalanceError{
			RequiredCoins: amount,
			CurrentCoins:  w.Coins,
		}
	}
	if description == "" {
		description = "Wallet withdrawal"
	}
	return w.apply(TransactionWithdraw, -amount, 0, description, "", nil, nil), nil
}

func (w *Wallet) Refund(amount int, description string, productID *uuid.UUID, referenceCode string) (*WalletTransaction, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if description == "" {
		description = "Purchase refund"
	}
	return w.apply(TransactionRefund, amount, 0, description, referenceCode, productID, nil), nil
}
