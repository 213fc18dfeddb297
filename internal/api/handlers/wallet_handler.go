package handlers

import (
	"errors"
	"strconv"

	"notin-market/domain"
	"notin-market/internal/api/presenters"
	"notin-market/pkg/purchase"
	"notin-market/pkg/wallet"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	WalletHandler interface {
		GetWallet(c *fiber.Ctx) error
		GetTransactions(c *fiber.Ctx) error
		PurchasePackage(c *fiber.Ctx) error
	}

	walletHandler struct {
		walletService   wallet.WalletService
		purchaseService purchase.PurchaseService
		validator       *validator.Validate
	}
)

func NewWalletHandler(walletService wallet.WalletService, purchaseService purchase.PurchaseService, validator *validator.Validate) WalletHandler {
	return &walletHandler{
		walletService:   walletService,
		purchaseService: purchaseService,
		validator:       validator,
	}
}

func (h *walletHandler) GetWallet(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	resp, err := h.walletService.GetWallet(c.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrWalletNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetWallet, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetWallet, err)
	}

	return presenters.SuccessResponse(c, resp, fiber.StatusOK, domain.MessageSuccessGetWallet)
}

func (h *walletHandler) GetTransactions(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("per_page", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	txType := c.Query("type")

	transactions, count, err := h.walletService.GetTransactionHistory(c.Context(), userID, txType, page, limit)
	if err != nil {
		if errors.Is(err, domain.ErrWalletNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetTransactions, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetTransactions, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"transactions": transactions,
		"pagination":   domain.NewPagination(page, limit, count),
	}, fiber.StatusOK, domain.MessageSuccessGetTransactions)
}

func (h *walletHandler) PurchasePackage(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.PurchasePackageRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusUnprocessableEntity, domain.MessageFailedPurchasePackage, err)
	}

	entry, err := h.purchaseService.PurchasePackage(c.Context(), userID, *req)
	if err != nil {
		var mismatchErr *domain.AmountMismatchError
		switch {
		case errors.Is(err, domain.ErrCoinPackageNotFound), errors.Is(err, domain.ErrCoinPackageUnavailable), errors.Is(err, domain.ErrWalletNotFound):
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedPurchasePackage, err)
		case errors.As(err, &mismatchErr):
			return presenters.ErrorDetailResponse(c, fiber.StatusUnprocessableEntity, domain.MessageFailedPurchasePackage, err, fiber.Map{
				"required_amount": mismatchErr.RequiredAmount,
				"paid_amount":     mismatchErr.PaidAmount,
			})
		default:
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedPurchasePackage, err)
		}
	}

	return presenters.SuccessResponse(c, entry, fiber.StatusOK, domain.MessageSuccessPurchasePackage)
}
