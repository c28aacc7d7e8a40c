// internal/repository/gorm_store.go
package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Aaisha011/E-Auction/internal/apperrors"
	"github.com/Aaisha011/E-Auction/internal/models"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Auctions() AuctionRepository { return &gormAuctionRepo{db: s.db} }
func (s *GormStore) Products() ProductRepository { return &gormProductRepo{db: s.db} }
func (s *GormStore) Bids() BidRepository         { return &gormBidRepo{db: s.db} }
func (s *GormStore) Users() UserRepository       { return &gormUserRepo{db: s.db} }

func (s *GormStore) Transaction(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// Auctions

type gormAuctionRepo struct {
	db *gorm.DB
}

func (r *gormAuctionRepo) Create(a *models.Auction) error {
	if err := r.db.Create(a).Error; err != nil {
		return fmt.Errorf("failed to create auction: %w", err)
	}
	return nil
}

func (r *gormAuctionRepo) GetByID(id uint) (*models.Auction, error) {
	var auction models.Auction
	if err := r.db.Preload("Product").First(&auction, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &auction, nil
}

func (r *gormAuctionRepo) GetByIDForUpdate(id uint) (*models.Auction, error) {
	var auction models.Auction
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&auction, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &auction, nil
}

func (r *gormAuctionRepo) List(status *models.AuctionStatus) ([]models.Auction, error) {
	query := r.db.Preload("Product").Order("auction_start ASC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var auctions []models.Auction
	if err := query.Find(&auctions).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch auctions: %w", err)
	}
	return auctions, nil
}

func (r *gormAuctionRepo) ListUnfinished() ([]models.Auction, error) {
	var auctions []models.Auction
	if err := r.db.Where("status <> ?", models.AuctionStatusCompleted).
		Find(&auctions).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch unfinished auctions: %w", err)
	}
	return auctions, nil
}

func (r *gormAuctionRepo) FindActiveByProduct(productID uint) (*models.Auction, error) {
	var auction models.Auction
	err := r.db.Where("product_id = ? AND status IN ?", productID,
		[]models.AuctionStatus{models.AuctionStatusUpcoming, models.AuctionStatusOngoing}).
		First(&auction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &auction, nil
}

func (r *gormAuctionRepo) UpdateStatus(id uint, from, to models.AuctionStatus) (bool, error) {
	result := r.db.Model(&models.Auction{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, fmt.Errorf("failed to update auction status: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *gormAuctionRepo) MarkSettled(id uint, at time.Time) error {
	if err := r.db.Model(&models.Auction{}).Where("id = ?", id).
		Update("settled_at", at).Error; err != nil {
		return fmt.Errorf("failed to mark auction settled: %w", err)
	}
	return nil
}

func (r *gormAuctionRepo) Delete(id uint) error {
	result := r.db.Delete(&models.Auction{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete auction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Products

type gormProductRepo struct {
	db *gorm.DB
}

func (r *gormProductRepo) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Category").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (r *gormProductRepo) GetByIDForUpdate(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (r *gormProductRepo) SetStatus(id uint, status models.ProductStatus) error {
	if err := r.db.Model(&models.Product{}).Where("id = ?", id).
		Update("status", status).Error; err != nil {
		return fmt.Errorf("failed to update product status: %w", err)
	}
	return nil
}

func (r *gormProductRepo) MarkSold(id uint, soldTo uint, price decimal.Decimal) error {
	updates := map[string]interface{}{
		"status":     models.ProductStatusSold,
		"sold_to":    soldTo,
		"sold_price": price,
	}
	if err := r.db.Model(&models.Product{}).Where("id = ?", id).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to mark product sold: %w", err)
	}
	return nil
}

func (r *gormProductRepo) MarkUnsold(id uint) error {
	if err := r.db.Model(&models.Product{}).Where("id = ?", id).
		Update("status", models.ProductStatusUnsold).Error; err != nil {
		return fmt.Errorf("failed to mark product unsold: %w", err)
	}
	return nil
}

// Bids

type gormBidRepo struct {
	db *gorm.DB
}

func (r *gormBidRepo) Create(b *models.Bid) error {
	if err := r.db.Create(b).Error; err != nil {
		return fmt.Errorf("failed to create bid: %w", err)
	}
	return nil
}

func (r *gormBidRepo) ListByAuction(auctionID uint) ([]models.Bid, error) {
	var bids []models.Bid
	if err := r.db.Preload("User").
		Where("auction_id = ?", auctionID).
		Order("amount DESC, created_at ASC").
		Find(&bids).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch bids: %w", err)
	}
	return bids, nil
}

func (r *gormBidRepo) HighestByAuction(auctionID uint) (*models.Bid, error) {
	var bid models.Bid
	err := r.db.Preload("User").
		Where("auction_id = ?", auctionID).
		Order("amount DESC, created_at ASC").
		First(&bid).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &bid, nil
}

func (r *gormBidRepo) DeleteLosing(auctionID, winningBidID uint) error {
	if err := r.db.Where("auction_id = ? AND id <> ?", auctionID, winningBidID).
		Delete(&models.Bid{}).Error; err != nil {
		return fmt.Errorf("failed to delete losing bids: %w", err)
	}
	return nil
}

// Users

type gormUserRepo struct {
	db *gorm.DB
}

func (r *gormUserRepo) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}
