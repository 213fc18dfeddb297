package product

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"testing"

	"notin-market/domain"
	"notin-market/entities"
	"notin-market/internal/utils/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memoryProductRepo struct {
	products map[uuid.UUID]*entities.Product
}

func newMemoryProductRepo() *memoryProductRepo {
	return &memoryProductRepo{products: make(map[uuid.UUID]*entities.Product)}
}

func (r *memoryProductRepo) GetByID(_ context.Context, id string) (*entities.Product, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	p, ok := r.products[parsed]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *p
	return &c, nil
}

func (r *memoryProductRepo) List(_ context.Context, _ domain.ProductListQuery) ([]*entities.Product, int64, error) {
	var result []*entities.Product
	for _, p := range r.products {
		c := *p
		result = append(result, &c)
	}
	return result, int64(len(result)), nil
}

func (r *memoryProductRepo) ListPurchased(_ context.Context, _ string, _ domain.ProductListQuery) ([]*entities.Product, int64, error) {
	return nil, 0, nil
}

func (r *memoryProductRepo) Update(_ context.Context, p *entities.Product) error {
	c := *p
	r.products[p.ID] = &c
	return nil
}

func (r *memoryProductRepo) HasPurchased(_ context.Context, _, _ string) (bool, error) {
	return false, nil
}

func (r *memoryProductRepo) AttachPurchase(_ context.Context, _ *entities.ProductPurchase) error {
	return nil
}

func (r *memoryProductRepo) IncrementPurchased(_ context.Context, _ string) error {
	return nil
}

func (r *memoryProductRepo) HasLiked(_ context.Context, _, _ string) (bool, error) {
	return false, nil
}

func (r *memoryProductRepo) AttachLike(_ context.Context, _ *entities.ProductLike) error {
	return nil
}

func (r *memoryProductRepo) DetachLike(_ context.Context, _, _ string) error {
	return nil
}

func (r *memoryProductRepo) IncrementLikes(_ context.Context, _ string, _ int) error {
	return nil
}

func (r *memoryProductRepo) HasViewed(_ context.Context, _, _ string) (bool, error) {
	return true, nil
}

func (r *memoryProductRepo) AttachView(_ context.Context, _ *entities.ProductView) error {
	return nil
}

func (r *memoryProductRepo) IncrementViews(_ context.Context, _ string) error {
	return nil
}

func (r *memoryProductRepo) Atomic(_ context.Context, fn func(repo ProductRepository) error) error {
	return fn(r)
}

type stubS3 struct {
	uploaded []string
}

func (s *stubS3) UploadFile(name string, file *multipart.FileHeader, dir string, allowed ...string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if len(allowed) > 0 {
		ok := false
		for _, allowedExt := range allowed {
			if ext == allowedExt {
				ok = true
				break
			}
		}
		if !ok {
			return "", fmt.Errorf("file extension %s is not allowed", ext)
		}
	}
	key := fmt.Sprintf("%s/%s%s", dir, name, ext)
	s.uploaded = append(s.uploaded, key)
	return key, nil
}

func (s *stubS3) GetSignedLink(objectKey string) string {
	return "https://cdn.test/" + objectKey + "?signed"
}

var (
	_ ProductRepository = (*memoryProductRepo)(nil)
	_ storage.AwsS3     = (*stubS3)(nil)
)

func seedProduct(repo *memoryProductRepo, name string) *entities.Product {
	p := &entities.Product{
		ID:       uuid.New(),
		Name:     name,
		Price:    50,
		IsActive: true,
	}
	repo.products[p.ID] = p
	return p
}

func TestUploadImageHighQuality(t *testing.T) {
	repo := newMemoryProductRepo()
	p := seedProduct(repo, "Sunset")
	s3 := &stubS3{}
	service := NewProductService(repo, s3)

	file := &multipart.FileHeader{Filename: "sunset.png"}
	resp, err := service.UploadImage(context.Background(), p.ID.String(), "high", file)
	require.NoError(t, err)

	wantKey := fmt.Sprintf("products/%s-high.png", p.ID)
	assert.Equal(t, []string{wantKey}, s3.uploaded)
	assert.Equal(t, wantKey, repo.products[p.ID].HighQualityImage)
	assert.Empty(t, repo.products[p.ID].LowQualityImage)
	assert.Equal(t, "https://cdn.test/"+wantKey+"?signed", resp.HighQualityImage)
}

func TestUploadImageLowQuality(t *testing.T) {
	repo := newMemoryProductRepo()
	p := seedProduct(repo, "Sunset")
	service := NewProductService(repo, &stubS3{})

	file := &multipart.FileHeader{Filename: "sunset-small.webp"}
	_, err := service.UploadImage(context.Background(), p.ID.String(), "low", file)
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("products/%s-low.webp", p.ID), repo.products[p.ID].LowQualityImage)
	assert.Empty(t, repo.products[p.ID].HighQualityImage)
}

func TestUploadImageRejectsUnknownKind(t *testing.T) {
	repo := newMemoryProductRepo()
	p := seedProduct(repo, "Sunset")
	s3 := &stubS3{}
	service := NewProductService(repo, s3)

	file := &multipart.FileHeader{Filename: "sunset.png"}
	_, err := service.UploadImage(context.Background(), p.ID.String(), "thumbnail", file)

	assert.ErrorIs(t, err, domain.ErrInvalidImageKind)
	assert.Empty(t, s3.uploaded)
}

func TestUploadImageProductNotFound(t *testing.T) {
	service := NewProductService(newMemoryProductRepo(), &stubS3{})

	file := &multipart.FileHeader{Filename: "sunset.png"}
	_, err := service.UploadImage(context.Background(), uuid.NewString(), "high", file)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestUploadImageRejectsBadExtension(t *testing.T) {
	repo := newMemoryProductRepo()
	p := seedProduct(repo, "Sunset")
	service := NewProductService(repo, &stubS3{})

	file := &multipart.FileHeader{Filename: "sunset.exe"}
	_, err := service.UploadImage(context.Background(), p.ID.String(), "high", file)

	require.Error(t, err)
	assert.Empty(t, repo.products[p.ID].HighQualityImage)
}
