package product

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"notin-market/domain"
	"notin-market/entities"
	"notin-market/internal/utils/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ProductService interface {
		GetProducts(ctx context.Context, userID string, query domain.ProductListQuery) ([]*domain.ProductResponse, int64, error)
		GetProductDetails(ctx context.Context, userID string, productID string) (*domain.ProductResponse, error)
		GetMyPurchases(ctx context.Context, userID string, query domain.ProductListQuery) ([]*domain.ProductResponse, int64, error)
		ToggleLike(ctx context.Context, userID string, productID string) (*domain.LikeResponse, error)
		UploadImage(ctx context.Context, productID string, kind string, file *multipart.FileHeader) (*domain.ProductResponse, error)
	}

	productService struct {
		productRepository ProductRepository
		s3                storage.AwsS3
	}
)

func NewProductService(productRepository ProductRepository, s3 storage.AwsS3) ProductService {
	return &productService{
		productRepository: productRepository,
		s3:                s3,
	}
}

func (s *productService) GetProducts(ctx context.Context, userID string, query domain.ProductListQuery) ([]*domain.ProductResponse, int64, error) {
	products, count, err := s.productRepository.List(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*domain.ProductResponse, 0, len(products))
	for _, product := range products {
		purchased, err := s.productRepository.HasPurchased(ctx, userID, product.ID.String())
		if err != nil {
			return nil, 0, err
		}
		result = append(result, s.response(product, purchased))
	}

	return result, count, nil
}

func (s *productService) GetProductDetails(ctx context.Context, userID string, productID string) (*domain.ProductResponse, error) {
	product, err := s.productRepository.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	// First view per user bumps the counter; the counter is a best-effort
	// read optimization, not a ledgered fact.
	viewed, err := s.productRepository.HasViewed(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if !viewed {
		err := s.productRepository.Atomic(ctx, func(repo ProductRepository) error {
			if err := repo.AttachView(ctx, &entities.ProductView{
				UserID:    userUUID,
				ProductID: product.ID,
			}); err != nil {
				return err
			}
			return repo.IncrementViews(ctx, productID)
		})
		if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		if err == nil {
			product.Views++
		}
	}

	purchased, err := s.productRepository.HasPurchased(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	return s.response(product, purchased), nil
}

func (s *productService) GetMyPurchases(ctx context.Context, userID string, query domain.ProductListQuery) ([]*domain.ProductResponse, int64, error) {
	products, count, err := s.productRepository.ListPurchased(ctx, userID, query)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*domain.ProductResponse, 0, len(products))
	for _, product := range products {
		result = append(result, s.response(product, true))
	}

	return result, count, nil
}

func (s *productService) ToggleLike(ctx context.Context, userID string, productID string) (*domain.LikeResponse, error) {
	product, err := s.productRepository.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	liked, err := s.productRepository.HasLiked(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	if liked {
		err := s.productRepository.Atomic(ctx, func(repo ProductRepository) error {
			if err := repo.DetachLike(ctx, userID, productID); err != nil {
				return err
			}
			return repo.IncrementLikes(ctx, productID, -1)
		})
		if err != nil {
			return nil, err
		}
		return &domain.LikeResponse{Liked: false, Likes: product.Likes - 1}, nil
	}

	err = s.productRepository.Atomic(ctx, func(repo ProductRepository) error {
		if err := repo.AttachLike(ctx, &entities.ProductLike{
			UserID:    userUUID,
			ProductID: product.ID,
		}); err != nil {
			return err
		}
		return repo.IncrementLikes(ctx, productID, 1)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &domain.LikeResponse{Liked: true, Likes: product.Likes}, nil
		}
		return nil, err
	}

	return &domain.LikeResponse{Liked: true, Likes: product.Likes + 1}, nil
}

// UploadImage stores a product image under products/<id>-<kind> and records
// the object key. Links served to clients are always presigned, so only the
// key is persisted.
func (s *productService) UploadImage(ctx context.Context, productID string, kind string, file *multipart.FileHeader) (*domain.ProductResponse, error) {
	if kind != "high" && kind != "low" {
		return nil, domain.ErrInvalidImageKind
	}

	product, err := s.productRepository.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}

	objectKey, err := s.s3.UploadFile(
		fmt.Sprintf("%s-%s", product.ID.String(), kind),
		file,
		"products",
		storage.AllowImage...,
	)
	if err != nil {
		return nil, err
	}

	if kind == "high" {
		product.HighQualityImage = objectKey
	} else {
		product.LowQualityImage = objectKey
	}

	if err := s.productRepository.Update(ctx, product); err != nil {
		return nil, err
	}

	return s.response(product, false), nil
}

func (s *productService) response(product *entities.Product, purchased bool) *domain.ProductResponse {
	return Response(product, purchased, s.s3)
}

// Response maps a product row to its API shape, signing image keys. Exported
// because the category listing embeds product responses.
func Response(product *entities.Product, purchased bool, s3 storage.AwsS3) *domain.ProductResponse {
	resp := &domain.ProductResponse{
		ID:          product.ID.String(),
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Likes:       product.Likes,
		Views:       product.Views,
		Purchased:   product.Purchased,
		IsActive:    product.IsActive,
		Is3D:        product.Is3D,
		IsFree:      product.IsFree(),
		IsPurchased: purchased,
		CreatedAt:   product.CreatedAt,
	}

	if product.HighQualityImage != "" {
		resp.HighQualityImage = s3.GetSignedLink(product.HighQualityImage)
	}
	if product.LowQualityImage != "" {
		resp.LowQualityImage = s3.GetSignedLink(product.LowQualityImage)
	}
	if product.Category != nil {
		resp.Category = &domain.CategoryResponse{
			ID:    product.Category.ID.String(),
			Name:  product.Category.Name,
			Color: product.Category.Color,
		}
	}

	return resp
}
