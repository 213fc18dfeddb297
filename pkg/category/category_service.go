package category

import (
	"context"
	"errors"

	"notin-market/domain"
	"notin-market/entities"
	"notin-market/internal/utils/storage"
	"notin-market/pkg/product"

	"gorm.io/gorm"
)

type (
	CategoryService interface {
		GetCategories(ctx context.Context, query domain.CategoryListQuery) ([]*domain.CategoryResponse, int64, error)
		GetCategoriesWithProducts(ctx context.Context) ([]*domain.CategoryWithProductsResponse, error)
		GetCategoryDetails(ctx context.Context, categoryID string) (*domain.CategoryDetailResponse, error)
	}

	categoryService struct {
		categoryRepository CategoryRepository
		s3                 storage.AwsS3
	}
)

func NewCategoryService(categoryRepository CategoryRepository, s3 storage.AwsS3) CategoryService {
	return &categoryService{
		categoryRepository: categoryRepository,
		s3:                 s3,
	}
}

func (s *categoryService) GetCategories(ctx context.Context, query domain.CategoryListQuery) ([]*domain.CategoryResponse, int64, error) {
	categories, count, err := s.categoryRepository.List(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*domain.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		result = append(result, &domain.CategoryResponse{
			ID:    category.ID.String(),
			Name:  category.Name,
			Color: category.Color,
		})
	}

	return result, count, nil
}

func (s *categoryService) GetCategoriesWithProducts(ctx context.Context) ([]*domain.CategoryWithProductsResponse, error) {
	categories, err := s.categoryRepository.ListWithProducts(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.CategoryWithProductsResponse, 0, len(categories))
	for _, category := range categories {
		products := make([]*domain.ProductResponse, 0, len(category.Products))
		for i := range category.Products {
			products = append(products, product.Response(&category.Products[i], false, s.s3))
		}
		result = append(result, &domain.CategoryWithProductsResponse{
			ID:       category.ID.String(),
			Name:     category.Name,
			Color:    category.Color,
			Products: products,
		})
	}

	return result, nil
}

func (s *categoryService) GetCategoryDetails(ctx context.Context, categoryID string) (*domain.CategoryDetailResponse, error) {
	category, err := s.categoryRepository.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}

	return s.detail(category), nil
}

func (s *categoryService) detail(category *entities.Category) *domain.CategoryDetailResponse {
	return &domain.CategoryDetailResponse{
		ID:          category.ID.String(),
		Name:        category.Name,
		Color:       category.Color,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}
