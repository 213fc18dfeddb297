package handlers

import (
	"errors"
	"strconv"

	"notin-market/domain"
	"notin-market/internal/api/presenters"
	"notin-market/pkg/category"

	"github.com/gofiber/fiber/v2"
)

type (
	CategoryHandler interface {
		GetCategories(c *fiber.Ctx) error
		GetCategoriesWithProducts(c *fiber.Ctx) error
		GetCategoryDetails(c *fiber.Ctx) error
	}

	categoryHandler struct {
		categoryService category.CategoryService
	}
)

func NewCategoryHandler(categoryService category.CategoryService) CategoryHandler {
	return &categoryHandler{
		categoryService: categoryService,
	}
}

func (h *categoryHandler) GetCategories(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("per_page", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}

	query := domain.CategoryListQuery{
		Search: c.Query("search"),
		Page:   page,
		Limit:  limit,
	}

	categories, count, err := h.categoryService.GetCategories(c.Context(), query)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetCategories, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"categories": categories,
		"pagination": domain.NewPagination(query.Page, query.Limit, count),
	}, fiber.StatusOK, domain.MessageSuccessGetCategories)
}

func (h *categoryHandler) GetCategoriesWithProducts(c *fiber.Ctx) error {
	categories, err := h.categoryService.GetCategoriesWithProducts(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetCategories, err)
	}

	return presenters.SuccessResponse(c, categories, fiber.StatusOK, domain.MessageSuccessGetCategories)
}

func (h *categoryHandler) GetCategoryDetails(c *fiber.Ctx) error {
	categoryID := c.Params("id")

	resp, err := h.categoryService.GetCategoryDetails(c.Context(), categoryID)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetCategory, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetCategory, err)
	}

	return presenters.SuccessResponse(c, resp, fiber.StatusOK, domain.MessageSuccessGetCategory)
}
