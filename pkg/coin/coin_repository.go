package coin

import (
	"context"

	"notin-market/entities"

	"gorm.io/gorm"
)

type (
	CoinRepository interface {
		CreateCoinPackage(ctx context.Context, pkg *entities.CoinPackage) error
		GetCoinPackages(ctx context.Context, search string) ([]*entities.CoinPackage, error)
		GetCoinPackageByID(ctx context.Context, id string) (*entities.CoinPackage, error)
	}

	coinRepository struct {
		db *gorm.DB
	}
)

func NewCoinRepository(db *gorm.DB) CoinRepository {
	return &coinRepository{
		db: db,
	}
}

func (r *coinRepository) CreateCoinPackage(ctx context.Context, pkg *entities.CoinPackage) error {
	return r.db.WithContext(ctx).Create(pkg).Error
}

func (r *coinRepository) GetCoinPackages(ctx context.Context, search string) ([]*entities.CoinPackage, error) {
	var packages []*entities.CoinPackage
	query := r.db.WithContext(ctx).Where("is_active = ?", true)
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}
	if err := query.Order("price ASC").Find(&packages).Error; err != nil {
		return nil, err
	}
	return packages, nil
}

func (r *coinRepository) GetCoinPackageByID(ctx context.Context, id string) (*entities.CoinPackage, error) {
	var pkg entities.CoinPackage
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&pkg).Error; err != nil {
		return nil, err
	}
	return &pkg, nil
}
