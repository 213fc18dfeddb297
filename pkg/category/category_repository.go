package category

import (
	"context"

	"notin-market/domain"
	"notin-market/entities"

	"gorm.io/gorm"
)

type (
	CategoryRepository interface {
		GetByID(ctx context.Context, id string) (*entities.Category, error)
		List(ctx context.Context, query domain.CategoryListQuery) ([]*entities.Category, int64, error)
		ListWithProducts(ctx context.Context) ([]*entities.Category, error)
	}

	categoryRepository struct {
		db *gorm.DB
	}
)

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{
		db: db,
	}
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*entities.Category, error) {
	var category entities.Category
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context, q domain.CategoryListQuery) ([]*entities.Category, int64, error) {
	var categories []*entities.Category
	var count int64
	offset := (q.Page - 1) * q.Limit

	query := r.db.WithContext(ctx).Where("is_active = ?", true)

	if q.Search != "" {
		query = query.Where("name ILIKE ?", "%"+q.Search+"%")
	}

	if err := query.Model(&entities.Category{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("sort_order ASC").
		Offset(offset).
		Limit(q.Limit).
		Find(&categories).Error; err != nil {
		return nil, 0, err
	}

	return categories, count, nil
}

func (r *categoryRepository) ListWithProducts(ctx context.Context) ([]*entities.Category, error) {
	var categories []*entities.Category
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC").
		Preload("Products", "is_active = ?", true).
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}
