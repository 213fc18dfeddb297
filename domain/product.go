package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessGetProducts    = "products retrieved successfully"
	MessageSuccessGetProduct     = "product retrieved successfully"
	MessageSuccessGetMyPurchases = "purchased products retrieved successfully"
	MessageSuccessLikeProduct    = "product liked"
	MessageSuccessUnlikeProduct  = "product unliked"

	MessageSuccessGetCategories = "categories retrieved successfully"
	MessageSuccessGetCategory   = "category retrieved successfully"
	MessageSuccessUploadImage   = "product image uploaded successfully"

	MessageFailedGetProducts    = "failed to retrieve products"
	MessageFailedGetProduct     = "failed to retrieve product"
	MessageFailedGetMyPurchases = "failed to retrieve purchased products"
	MessageFailedLikeProduct    = "failed to like product"
	MessageFailedGetCategories  = "failed to retrieve categories"
	MessageFailedGetCategory    = "failed to retrieve category"
	MessageFailedUploadImage    = "failed to upload product image"

	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product is not available")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrInvalidImageKind   = errors.New("image kind must be high or low")
)

const (
	SortNewest        = "newest"
	SortOldest        = "oldest"
	SortMostLiked     = "most_liked"
	SortMostPurchased = "most_purchased"
	SortMostViewed    = "most_viewed"
	SortPriceHigh     = "price_high"
	SortPriceLow      = "price_low"
)

type (
	ProductListQuery struct {
		Search     string
		CategoryID string
		SortBy     string
		Page       int
		Limit      int
	}

	ProductResponse struct {
		ID               string            `json:"id"`
		Name             string            `json:"name"`
		Description      string            `json:"description"`
		HighQualityImage string            `json:"high_quality_image,omitempty"`
		LowQualityImage  string            `json:"low_quality_image,omitempty"`
		Price            int               `json:"price"`
		Likes            int               `json:"likes"`
		Views            int               `json:"views"`
		Purchased        int               `json:"purchased"`
		IsActive         bool              `json:"is_active"`
		Is3D             bool              `json:"is_3d"`
		IsFree           bool              `json:"is_free"`
		IsPurchased      bool              `json:"is_purchased"`
		Category         *CategoryResponse `json:"category,omitempty"`
		CreatedAt        time.Time         `json:"created_at"`
	}

	CategoryResponse struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Color string `json:"color,omitempty"`
	}

	CategoryListQuery struct {
		Search string
		Page   int
		Limit  int
	}

	CategoryDetailResponse struct {
		ID          string    `json:"id"`
		Name        string    `json:"name"`
		Color       string    `json:"color,omitempty"`
		Description string    `json:"description,omitempty"`
		CreatedAt   time.Time `json:"created_at"`
		UpdatedAt   time.Time `json:"updated_at"`
	}

	CategoryWithProductsResponse struct {
		ID       string             `json:"id"`
		Name     string             `json:"name"`
		Color    string             `json:"color,omitempty"`
		Products []*ProductResponse `json:"products"`
	}

	LikeResponse struct {
		Liked bool `json:"liked"`
		Likes int  `json:"likes"`
	}
)
