// internal/models/common.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// Enums
type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleUser  UserRole = "user"
)

type ProductStatus string

const (
	ProductStatusPending    ProductStatus = "pending"
	ProductStatusProcessing ProductStatus = "processing"
	ProductStatusSold       ProductStatus = "sold"
	ProductStatusUnsold     ProductStatus = "unsold"
)

// IsTerminal reports whether the product reached a final sale state.
// Settlement uses this as its done marker.
func (s ProductStatus) IsTerminal() bool {
	return s == ProductStatusSold || s == ProductStatusUnsold
}

type AuctionStatus string

const (
	AuctionStatusUpcoming  AuctionStatus = "upcoming"
	AuctionStatusOngoing   AuctionStatus = "ongoing"
	AuctionStatusCompleted AuctionStatus = "completed"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)
