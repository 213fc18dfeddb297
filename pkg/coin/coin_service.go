package coin

import (
	"context"

	"notin-market/domain"
	"notin-market/entities"
	"notin-market/internal/utils/storage"
)

type (
	CoinService interface {
		GetCoinPackages(ctx context.Context, search string) ([]*domain.CoinPackageResponse, error)
	}

	coinService struct {
		coinRepository CoinRepository
		s3             storage.AwsS3
	}
)

func NewCoinService(coinRepository CoinRepository, s3 storage.AwsS3) CoinService {
	return &coinService{
		coinRepository: coinRepository,
		s3:             s3,
	}
}

func (s *coinService) GetCoinPackages(ctx context.Context, search string) ([]*domain.CoinPackageResponse, error) {
	packages, err := s.coinRepository.GetCoinPackages(ctx, search)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.CoinPackageResponse, 0, len(packages))
	for _, pkg := range packages {
		result = append(result, s.response(pkg))
	}

	return result, nil
}

func (s *coinService) response(pkg *entities.CoinPackage) *domain.CoinPackageResponse {
	resp := &domain.CoinPackageResponse{
		ID:                 pkg.ID.String(),
		Name:               pkg.Name,
		Description:        pkg.Description,
		Coins:              pkg.Coins,
		Price:              pkg.Price,
		DiscountPercentage: pkg.DiscountPercentage,
		DiscountAmount:     pkg.DiscountAmount(),
		FinalPrice:         pkg.FinalPrice(),
		LinkCafebazaar:     pkg.LinkCafebazaar,
		LinkMyket:          pkg.LinkMyket,
	}
	if pkg.Image != "" {
		resp.Image = s.s3.GetSignedLink(pkg.Image)
	}
	return resp
}
