package handlers

import (
	"errors"

	"notin-market/domain"
	"notin-market/internal/api/presenters"
	"notin-market/pkg/coin"
	"notin-market/pkg/midtrans"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	CoinHandler interface {
		GetCoinPackages(c *fiber.Ctx) error
		CreatePayment(c *fiber.Ctx) error
		MidtransWebhook(c *fiber.Ctx) error
	}

	coinHandler struct {
		coinService     coin.CoinService
		midtransService midtrans.MidtransService
		validator       *validator.Validate
	}
)

func NewCoinHandler(coinService coin.CoinService, midtransService midtrans.MidtransService, validator *validator.Validate) CoinHandler {
	return &coinHandler{
		coinService:     coinService,
		midtransService: midtransService,
		validator:       validator,
	}
}

func (h *coinHandler) GetCoinPackages(c *fiber.Ctx) error {
	packages, err := h.coinService.GetCoinPackages(c.Context(), c.Query("search"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetCoinPackages, err)
	}

	return presenters.SuccessResponse(c, packages, fiber.StatusOK, domain.MessageSuccessGetCoinPackages)
}

func (h *coinHandler) CreatePayment(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.CreatePaymentRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreatePayment, err)
	}

	resp, err := h.midtransService.CreatePackagePayment(c.Context(), *req, userID)
	if err != nil {
		if errors.Is(err, domain.ErrCoinPackageNotFound) || errors.Is(err, domain.ErrCoinPackageUnavailable) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedCreatePayment, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreatePayment, err)
	}

	return presenters.SuccessResponse(c, resp, fiber.StatusOK, domain.MessageSuccessCreatePayment)
}

func (h *coinHandler) MidtransWebhook(c *fiber.Ctx) error {
	var notification struct {
		OrderID string `json:"order_id"`
	}
	if err := c.BodyParser(&notification); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.midtransService.HandleNotification(c.Context(), notification.OrderID); err != nil {
		if errors.Is(err, domain.ErrPaymentOrderNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedProcessRequest, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedProcessRequest, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, "notification processed")
}
