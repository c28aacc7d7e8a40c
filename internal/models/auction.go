// internal/models/auction.go
package models

import "time"

type Auction struct {
	BaseModel
	ProductID    uint          `json:"product_id" gorm:"not null;index"`
	AuctionStart time.Time     `json:"auction_start" gorm:"not null"`
	AuctionEnd   time.Time     `json:"auction_end" gorm:"not null"`
	Status       AuctionStatus `json:"status" gorm:"type:varchar(20);default:'upcoming';index"`
	// SettledAt marks the one-time settlement. It survives restarts, so a
	// re-triggered settlement can detect it already ran.
	SettledAt *time.Time `json:"settled_at"`

	// Relationships
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Bids    []Bid   `json:"bids,omitempty" gorm:"foreignKey:AuctionID"`
}

// IsSettled reports whether the settlement procedure completed for this
// auction.
func (a *Auction) IsSettled() bool {
	return a.SettledAt != nil
}
