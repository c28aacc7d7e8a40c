// internal/services/bid_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Aaisha011/E-Auction/internal/apperrors"
	"github.com/Aaisha011/E-Auction/internal/auction"
	"github.com/Aaisha011/E-Auction/internal/models"
	"github.com/Aaisha011/E-Auction/internal/repository"
)

type BidService struct {
	store repository.Store
	now   func() time.Time
}

func NewBidService(store repository.Store) *BidService {
	return &BidService{
		store: store,
		now:   time.Now,
	}
}

// WithClock replaces the service's time source, for tests.
func (s *BidService) WithClock(now func() time.Time) *BidService {
	s.now = now
	return s
}

// PlaceBid validates and records a bid. The highest-bid check and the insert
// run under the auction's row lock, so two concurrent bids on the same
// auction cannot both validate against a stale highest value.
func (s *BidService) PlaceBid(auctionID, userID uint, amount decimal.Decimal) (*models.Bid, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: non-positive amount", apperrors.ErrInvalidBid)
	}

	var bid *models.Bid
	err := s.store.Transaction(func(tx repository.Store) error {
		a, err := tx.Auctions().GetByIDForUpdate(auctionID)
		if err != nil {
			return err
		}

		now := s.now()
		derived := auction.DeriveStatus(now, a.AuctionStart, a.AuctionEnd, a.Status)
		if derived != models.AuctionStatusOngoing {
			return fmt.Errorf("%w: auction is %s", apperrors.ErrAuctionNotOpen, derived)
		}
		// The sweeper may lag behind the wall clock; persist the promotion
		// observed here so reads stay consistent.
		if a.Status == models.AuctionStatusUpcoming {
			if _, err := tx.Auctions().UpdateStatus(auctionID, a.Status, models.AuctionStatusOngoing); err != nil {
				return err
			}
		}

		if _, err := tx.Users().GetByID(userID); err != nil {
			return err
		}

		product, err := tx.Products().GetByID(a.ProductID)
		if err != nil {
			return err
		}

		var highest *decimal.Decimal
		if top, err := tx.Bids().HighestByAuction(auctionID); err == nil {
			highest = &top.Amount
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		if !auction.MeetsFloor(amount, product.StartingPrice, highest) {
			floor := product.StartingPrice
			if highest != nil && highest.GreaterThan(floor) {
				floor = *highest
			}
			return fmt.Errorf("%w: amount must exceed %s", apperrors.ErrBidTooLow, floor.String())
		}

		bid = &models.Bid{
			AuctionID: auctionID,
			ProductID: a.ProductID,
			UserID:    userID,
			Amount:    amount,
		}
		bid.CreatedAt = now
		return tx.Bids().Create(bid)
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"auction_id": auctionID,
		"user_id":    userID,
		"amount":     amount.String(),
	}).Info("Bid placed")

	return bid, nil
}

// GetHighestBid returns the current winning bid, or nil when no bids exist.
func (s *BidService) GetHighestBid(auctionID uint) (*models.Bid, error) {
	bid, err := s.store.Bids().HighestByAuction(auctionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return bid, nil
}

// ListBids returns the full ordered bid history for an auction.
func (s *BidService) ListBids(auctionID uint) ([]models.Bid, error) {
	if _, err := s.store.Auctions().GetByID(auctionID); err != nil {
		return nil, err
	}
	return s.store.Bids().ListByAuction(auctionID)
}
