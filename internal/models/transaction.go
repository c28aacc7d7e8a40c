// internal/models/transaction.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction records the payment stub for a won product. Actual capture
// happens on the Stripe side; this only tracks the intent lifecycle.
type Transaction struct {
	BaseModel
	BuyerID          uint              `json:"buyer_id" gorm:"not null;index"`
	ProductID        uint              `json:"product_id" gorm:"not null;index"`
	AuctionID        uint              `json:"auction_id" gorm:"not null;index"`
	Amount           decimal.Decimal   `json:"amount" gorm:"type:decimal(12,2);not null"`
	PaymentReference string            `json:"payment_reference" gorm:"size:255"`
	Status           TransactionStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	ProcessedAt      *time.Time        `json:"processed_at"`

	// Relationships
	Buyer   User    `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Auction Auction `json:"auction,omitempty" gorm:"foreignKey:AuctionID"`
}
