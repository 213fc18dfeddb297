package domain

import (
	"errors"
)

var (
	MessageSuccessGetCoinPackages = "coin packages retrieved successfully"
	MessageSuccessCreatePayment   = "payment link created successfully"

	MessageFailedGetCoinPackages = "failed to retrieve coin packages"
	MessageFailedCreatePayment   = "failed to create payment link"

	ErrCoinPackageNotFound    = errors.New("coin package not found")
	ErrCoinPackageUnavailable = errors.New("coin package is not available")
	ErrPaymentFailed          = errors.New("payment processing failed")
	ErrPaymentOrderNotFound   = errors.New("payment order not found")
	ErrPaymentOrderSettled    = errors.New("payment order already settled")
)

type (
	CoinPackageResponse struct {
		ID                 string `json:"id"`
		Name               string `json:"name"`
		Description        string `json:"description,omitempty"`
		Image              string `json:"image,omitempty"`
		Coins              int    `json:"coins"`
		Price              int    `json:"price"`
		DiscountPercentage int    `json:"discount_percentage"`
		DiscountAmount     int    `json:"discount_amount"`
		FinalPrice         int    `json:"final_price"`
		LinkCafebazaar     string `json:"link_cafebazaar,omitempty"`
		LinkMyket          string `json:"link_myket,omitempty"`
	}

	CreatePaymentRequest struct {
		CoinPackageID string `json:"coin_package_id" validate:"required,uuid"`
	}

	CreatePaymentResponse struct {
		OrderID    string `json:"order_id"`
		InvoiceURL string `json:"invoice_url"`
	}
)
