// internal/models/bid.go
package models

import "github.com/shopspring/decimal"

type Bid struct {
	BaseModel
	AuctionID uint            `json:"auction_id" gorm:"not null;index"`
	ProductID uint            `json:"product_id" gorm:"not null;index"`
	UserID    uint            `json:"user_id" gorm:"not null;index"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`

	// Relationships
	Auction Auction `json:"auction,omitempty" gorm:"foreignKey:AuctionID"`
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	User    User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
