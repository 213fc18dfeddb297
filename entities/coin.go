package entities

import (
	"github.com/google/uuid"
)

type CoinPackage struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name               string    `gorm:"not null" json:"name"`
	Description        string    `json:"description,omitempty"`
	Image              string    `json:"image,omitempty"`
	Coins              int       `gorm:"not null" json:"coins"`
	Price              int       `gorm:"not null" json:"price"`
	DiscountPercentage int       `gorm:"not null;default:0" json:"discount_percentage"`
	IsActive           bool      `gorm:"default:true" json:"is_active"`
	LinkCafebazaar     string    `json:"link_cafebazaar,omitempty"`
	LinkMyket          string    `json:"link_myket,omitempty"`

	Timestamp
}

// DiscountAmount floors to the whole currency unit; coins and prices are
// indivisible integers throughout.
func (p *CoinPackage) DiscountAmount() int {
	if p.DiscountPercentage > 0 {
		return p.Price * p.DiscountPercentage / 100
	}
	return 0
}

func (p *CoinPackage) FinalPrice() int {
	return p.Price - p.DiscountAmount()
}

func (p *CoinPackage) HasDiscount() bool {
	return p.DiscountPercentage > 0
}
