// internal/repository/repository.go
package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Aaisha011/E-Auction/internal/models"
)

// AuctionRepository exposes the narrow read/write surface the auction core
// needs. Implementations return apperrors.ErrNotFound for unknown ids.
type AuctionRepository interface {
	Create(a *models.Auction) error
	// GetByID loads an auction with its product.
	GetByID(id uint) (*models.Auction, error)
	// GetByIDForUpdate loads an auction and locks its row for the duration
	// of the surrounding transaction.
	GetByIDForUpdate(id uint) (*models.Auction, error)
	// List returns auctions with products preloaded, optionally filtered by
	// status.
	List(status *models.AuctionStatus) ([]models.Auction, error)
	// ListUnfinished returns all auctions whose status is not completed.
	ListUnfinished() ([]models.Auction, error)
	// FindActiveByProduct returns the non-terminal auction referencing the
	// product, or ErrNotFound.
	FindActiveByProduct(productID uint) (*models.Auction, error)
	// UpdateStatus performs a conditional transition and reports whether a
	// row actually changed. A false result means another writer got there
	// first.
	UpdateStatus(id uint, from, to models.AuctionStatus) (bool, error)
	MarkSettled(id uint, at time.Time) error
	Delete(id uint) error
}

type ProductRepository interface {
	GetByID(id uint) (*models.Product, error)
	GetByIDForUpdate(id uint) (*models.Product, error)
	SetStatus(id uint, status models.ProductStatus) error
	MarkSold(id uint, soldTo uint, price decimal.Decimal) error
	MarkUnsold(id uint) error
}

type BidRepository interface {
	Create(b *models.Bid) error
	// ListByAuction returns bids ordered by amount descending, earliest
	// first among equal amounts, with users preloaded.
	ListByAuction(auctionID uint) ([]models.Bid, error)
	// HighestByAuction returns the current winning bid, or ErrNotFound when
	// no bids were placed.
	HighestByAuction(auctionID uint) (*models.Bid, error)
	// DeleteLosing removes every bid for the auction except the winning one.
	DeleteLosing(auctionID, winningBidID uint) error
}

type UserRepository interface {
	GetByID(id uint) (*models.User, error)
}

// Store bundles the repositories with transaction support. Repositories
// obtained inside a Transaction callback operate on the transactional
// connection; an error returned from the callback rolls everything back.
type Store interface {
	Auctions() AuctionRepository
	Products() ProductRepository
	Bids() BidRepository
	Users() UserRepository
	Transaction(fn func(Store) error) error
}
