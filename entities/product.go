package entities

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Color       string    `json:"color,omitempty"`
	Description string    `json:"description,omitempty"`
	SortOrder   int       `gorm:"not null;default:0" json:"sort_order"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`

	Products []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
	Timestamp
}

type Product struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name             string     `gorm:"not null" json:"name"`
	Description      string     `json:"description"`
	HighQualityImage string     `json:"high_quality_image,omitempty"`
	LowQualityImage  string     `json:"low_quality_image,omitempty"`
	Price            int        `gorm:"not null;default:0" json:"price"`
	Likes            int        `gorm:"not null;default:0" json:"likes"`
	Views            int        `gorm:"not null;default:0" json:"views"`
	Purchased        int        `gorm:"not null;default:0" json:"purchased"`
	CategoryID       *uuid.UUID `json:"category_id,omitempty"`
	IsActive         bool       `gorm:"default:true" json:"is_active"`
	Is3D             bool       `gorm:"column:is_3d;default:false" json:"is_3d"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Timestamp
}

func (p *Product) IsFree() bool {
	return p.Price == 0
}

// ProductPurchase marks ownership of a product by a user. The composite
// unique index is what makes "purchase at most once" hold under concurrent
// requests: the second insert fails at commit time.
type ProductPurchase struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID    uuid.UUID `gorm:"uniqueIndex:idx_product_purchase_user_product;not null" json:"user_id"`
	ProductID uuid.UUID `gorm:"uniqueIndex:idx_product_purchase_user_product;not null" json:"product_id"`
	CreatedAt time.Time `json:"created_at"`

	User    *User    `gorm:"foreignKey:UserID" json:"-"`
	Product *Product `gorm:"foreignKey:ProductID" json:"-"`
}

type ProductLike struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID    uuid.UUID `gorm:"uniqueIndex:idx_product_like_user_product;not null" json:"user_id"`
	ProductID uuid.UUID `gorm:"uniqueIndex:idx_product_like_user_product;not null" json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

type ProductView struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID    uuid.UUID `gorm:"uniqueIndex:idx_product_view_user_product;not null" json:"user_id"`
	ProductID uuid.UUID `gorm:"uniqueIndex:idx_product_view_user_product;not null" json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}
