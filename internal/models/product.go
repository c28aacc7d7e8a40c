// internal/models/product.go
package models

import (
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	Name          string           `json:"name" gorm:"size:255;not null"`
	Description   string           `json:"description" gorm:"type:text;not null"`
	StartingPrice decimal.Decimal  `json:"starting_price" gorm:"type:decimal(12,2);not null"`
	CategoryID    uint             `json:"category_id" gorm:"not null;index"`
	ImageURLs     pq.StringArray   `json:"image_urls" gorm:"type:text[]"`
	Status        ProductStatus    `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	SoldTo        *uint            `json:"sold_to" gorm:"index"`
	SoldPrice     *decimal.Decimal `json:"sold_price" gorm:"type:decimal(12,2)"`

	// Relationships
	Category Category  `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Owner    *User     `json:"owner,omitempty" gorm:"foreignKey:SoldTo"`
	Bids     []Bid     `json:"bids,omitempty" gorm:"foreignKey:ProductID"`
	Auctions []Auction `json:"auctions,omitempty" gorm:"foreignKey:ProductID"`
}
