package product

import (
	"context"

	"notin-market/domain"
	"notin-market/entities"

	"gorm.io/gorm"
)

type (
	ProductRepository interface {
		GetByID(ctx context.Context, id string) (*entities.Product, error)
		List(ctx context.Context, query domain.ProductListQuery) ([]*entities.Product, int64, error)
		ListPurchased(ctx context.Context, userID string, query domain.ProductListQuery) ([]*entities.Product, int64, error)
		Update(ctx context.Context, product *entities.Product) error

		HasPurchased(ctx context.Context, userID, productID string) (bool, error)
		AttachPurchase(ctx context.Context, purchase *entities.ProductPurchase) error
		IncrementPurchased(ctx context.Context, productID string) error

		HasLiked(ctx context.Context, userID, productID string) (bool, error)
		AttachLike(ctx context.Context, like *entities.ProductLike) error
		DetachLike(ctx context.Context, userID, productID string) error
		IncrementLikes(ctx context.Context, productID string, delta int) error

		HasViewed(ctx context.Context, userID, productID string) (bool, error)
		AttachView(ctx context.Context, view *entities.ProductView) error
		IncrementViews(ctx context.Context, productID string) error

		Atomic(ctx context.Context, fn func(repo ProductRepository) error) error
	}

	productRepository struct {
		db *gorm.DB
	}
)

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{
		db: db,
	}
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*entities.Product, error) {
	var product entities.Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ?", id).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func applySort(query *gorm.DB, sortBy string) *gorm.DB {
	switch sortBy {
	case domain.SortOldest:
		return query.Order("created_at ASC")
	case domain.SortMostLiked:
		return query.Order("likes DESC")
	case domain.SortMostPurchased:
		return query.Order("purchased DESC")
	case domain.SortMostViewed:
		return query.Order("views DESC")
	case domain.SortPriceHigh:
		return query.Order("price DESC")
	case domain.SortPriceLow:
		return query.Order("price ASC")
	default:
		return query.Order("created_at DESC")
	}
}

func (r *productRepository) List(ctx context.Context, q domain.ProductListQuery) ([]*entities.Product, int64, error) {
	var products []*entities.Product
	var count int64
	offset := (q.Page - 1) * q.Limit

	query := r.db.WithContext(ctx).Where("is_active = ?", true)

	if q.Search != "" {
		search := "%" + q.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", search, search)
	}
	if q.CategoryID != "" {
		query = query.Where("category_id = ?", q.CategoryID)
	}

	if err := query.Model(&entities.Product{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := applySort(query, q.SortBy).
		Preload("Category").
		Offset(offset).
		Limit(q.Limit).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, count, nil
}

func (r *productRepository) ListPurchased(ctx context.Context, userID string, q domain.ProductListQuery) ([]*entities.Product, int64, error) {
	var products []*entities.Product
	var count int64
	offset := (q.Page - 1) * q.Limit

	query := r.db.WithContext(ctx).
		Joins("JOIN product_purchases ON product_purchases.product_id = products.id").
		Where("product_purchases.user_id = ?", userID).
		Where("products.is_active = ?", true)

	if q.Search != "" {
		search := "%" + q.Search + "%"
		query = query.Where("products.name ILIKE ? OR products.description ILIKE ?", search, search)
	}
	if q.CategoryID != "" {
		query = query.Where("products.category_id = ?", q.CategoryID)
	}

	if err := query.Model(&entities.Product{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	switch q.SortBy {
	case domain.SortOldest:
		query = query.Order("product_purchases.created_at ASC")
	case domain.SortPriceHigh:
		query = query.Order("products.price DESC")
	case domain.SortPriceLow:
		query = query.Order("products.price ASC")
	default:
		query = query.Order("product_purchases.created_at DESC")
	}

	if err := query.
		Preload("Category").
		Offset(offset).
		Limit(q.Limit).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, count, nil
}

func (r *productRepository) Update(ctx context.Context, product *entities.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepository) HasPurchased(ctx context.Context, userID, productID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.ProductPurchase{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *productRepository) AttachPurchase(ctx context.Context, purchase *entities.ProductPurchase) error {
	return r.db.WithContext(ctx).Create(purchase).Error
}

func (r *productRepository) IncrementPurchased(ctx context.Context, productID string) error {
	return r.db.WithContext(ctx).
		Model(&entities.Product{}).
		Where("id = ?", productID).
		UpdateColumn("purchased", gorm.Expr("purchased + ?", 1)).Error
}

func (r *productRepository) HasLiked(ctx context.Context, userID, productID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.ProductLike{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *productRepository) AttachLike(ctx context.Context, like *entities.ProductLike) error {
	return r.db.WithContext(ctx).Create(like).Error
}

func (r *productRepository) DetachLike(ctx context.Context, userID, productID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&entities.ProductLike{}).Error
}

func (r *productRepository) IncrementLikes(ctx context.Context, productID string, delta int) error {
	return r.db.WithContext(ctx).
		Model(&entities.Product{}).
		Where("id = ?", productID).
		UpdateColumn("likes", gorm.Expr("likes + ?", delta)).Error
}

func (r *productRepository) HasViewed(ctx context.Context, userID, productID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.ProductView{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *productRepository) AttachView(ctx context.Context, view *entities.ProductView) error {
	return r.db.WithContext(ctx).Create(view).Error
}

func (r *productRepository) IncrementViews(ctx context.Context, productID string) error {
	return r.db.WithContext(ctx).
		Model(&entities.Product{}).
		Where("id = ?", productID).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

func (r *productRepository) Atomic(ctx context.Context, fn func(repo ProductRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&productRepository{db: tx})
	})
}
