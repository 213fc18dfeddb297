package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	MessageSuccessGetWallet       = "wallet retrieved successfully"
	MessageSuccessGetTransactions = "wallet transactions retrieved successfully"
	MessageSuccessPurchaseProduct = "product purchased successfully"
	MessageSuccessPurchasePackage = "coin package purchased successfully"
	MessageSuccessDeposit         = "coins deposited successfully"
	MessageSuccessRefund          = "coins refunded successfully"

	MessageFailedGetWallet       = "failed to retrieve wallet"
	MessageFailedGetTransactions = "failed to retrieve wallet transactions"
	MessageFailedPurchaseProduct = "failed to purchase product"
	MessageFailedPurchasePackage = "failed to purchase coin package"

	ErrWalletNotFound   = errors.New("wallet not found")
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrAlreadyPurchased = errors.New("product already purchased")
)

// InsufficientBalanceError reports the shortfall so the caller can show the
// user what a purchase costs against what they hold.
type InsufficientBalanceError struct {
	RequiredCoins int
	CurrentCoins  int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: required %d coins, current %d coins", e.RequiredCoins, e.CurrentCoins)
}

// AmountMismatchError rejects a client-reported payment that does not equal
// the server-computed final price.
type AmountMismatchError struct {
	RequiredAmount int
	PaidAmount     int
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("paid amount must equal the package final price: required %d, paid %d", e.RequiredAmount, e.PaidAmount)
}

type (
	WalletResponse struct {
		ID     string `json:"id"`
		UserID string `json:"user_id"`
		Coins  int    `json:"coins"`
	}

	WalletTransactionResponse struct {
		ID            string    `json:"id"`
		WalletID      string    `json:"wallet_id"`
		Type          string    `json:"type"`
		Coins         int       `json:"coins"`
		CoinsBefore   int       `json:"coins_before"`
		CoinsAfter    int       `json:"coins_after"`
		PaidAmount    int       `json:"paid_amount"`
		Description   string    `json:"description"`
		ProductID     string    `json:"product_id,omitempty"`
		CoinPackageID string    `json:"coin_package_id,omitempty"`
		ReferenceCode string    `json:"reference_code"`
		CreatedAt     time.Time `json:"created_at"`
	}

	PurchasePackageRequest struct {
		CoinPackageID    string `json:"coin_package_id" validate:"required,uuid"`
		PaidAmount       int    `json:"paid_amount" validate:"required,min=1"`
		PayReferenceCode string `json:"pay_reference_code" validate:"required"`
	}

	DepositRequest struct {
		Amount      int    `json:"amount" validate:"required,min=1"`
		Description string `json:"description"`
	}

	RefundRequest struct {
		Amount      int    `json:"amount" validate:"required,min=1"`
		Description string `json:"description"`
		ProductID   string `json:"product_id" validate:"omitempty,uuid"`
	}
)
