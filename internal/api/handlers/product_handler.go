package handlers

import (
	"errors"
	"strconv"

	"notin-market/domain"
	"notin-market/internal/api/presenters"
	"notin-market/pkg/product"
	"notin-market/pkg/purchase"

	"github.com/gofiber/fiber/v2"
)

type (
	ProductHandler interface {
		GetProducts(c *fiber.Ctx) error
		GetProductDetails(c *fiber.Ctx) error
		GetMyPurchases(c *fiber.Ctx) error
		ToggleLike(c *fiber.Ctx) error
		Purchase(c *fiber.Ctx) error
		UploadImage(c *fiber.Ctx) error
	}

	productHandler struct {
		productService  product.ProductService
		purchaseService purchase.PurchaseService
	}
)

func NewProductHandler(productService product.ProductService, purchaseService purchase.PurchaseService) ProductHandler {
	return &productHandler{
		productService:  productService,
		purchaseService: purchaseService,
	}
}

func parseListQuery(c *fiber.Ctx) domain.ProductListQuery {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("per_page", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}

	return domain.ProductListQuery{
		Search:     c.Query("search"),
		CategoryID: c.Query("category_id"),
		SortBy:     c.Query("sort_by", domain.SortNewest),
		Page:       page,
		Limit:      limit,
	}
}

func (h *productHandler) GetProducts(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	query := parseListQuery(c)

	products, count, err := h.productService.GetProducts(c.Context(), userID, query)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetProducts, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"products":   products,
		"pagination": domain.NewPagination(query.Page, query.Limit, count),
	}, fiber.StatusOK, domain.MessageSuccessGetProducts)
}

func (h *productHandler) GetProductDetails(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	productID := c.Params("id")

	resp, err := h.productService.GetProductDetails(c.Context(), userID, productID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetProduct, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetProduct, err)
	}

	return presenters.SuccessResponse(c, resp, fiber.StatusOK, domain.MessageSuccessGetProduct)
}

func (h *productHandler) GetMyPurchases(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	query := parseListQuery(c)

	products, count, err := h.productService.GetMyPurchases(c.Context(), userID, query)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetMyPurchases, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"products":   products,
		"pagination": domain.NewPagination(query.Page, query.Limit, count),
	}, fiber.StatusOK, domain.MessageSuccessGetMyPurchases)
}

func (h *productHandler) ToggleLike(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	productID := c.Params("id")

	resp, err := h.productService.ToggleLike(c.Context(), userID, productID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedLikeProduct, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedLikeProduct, err)
	}

	message := domain.MessageSuccessUnlikeProduct
	if resp.Liked {
		message = domain.MessageSuccessLikeProduct
	}
	return presenters.SuccessResponse(c, resp, fiber.StatusOK, message)
}

func (h *productHandler) Purchase(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	productID := c.Params("id")

	entry, err := h.purchaseService.PurchaseProduct(c.Context(), userID, productID)
	if err != nil {
		var insufficientErr *domain.InsufficientBalanceError
		switch {
		case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrProductUnavailable), errors.Is(err, domain.ErrWalletNotFound):
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedPurchaseProduct, err)
		case errors.Is(err, domain.ErrAlreadyPurchased):
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedPurchaseProduct, err)
		case errors.As(err, &insufficientErr):
			return presenters.ErrorDetailResponse(c, fiber.StatusBadRequest, domain.MessageFailedPurchaseProduct, err, fiber.Map{
				"required_coins": insufficientErr.RequiredCoins,
				"current_coins":  insufficientErr.CurrentCoins,
			})
		default:
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedPurchaseProduct, err)
		}
	}

	return presenters.SuccessResponse(c, entry, fiber.StatusOK, domain.MessageSuccessPurchaseProduct)
}

func (h *productHandler) UploadImage(c *fiber.Ctx) error {
	productID := c.Params("id")
	kind := c.FormValue("kind", "high")

	file, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadImage, err)
	}

	resp, err := h.productService.UploadImage(c.Context(), productID, kind, file)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedUploadImage, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadImage, err)
	}

	return presenters.SuccessResponse(c, resp, fiber.StatusOK, domain.MessageSuccessUploadImage)
}
