// internal/services/auction_service.go
package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Aaisha011/E-Auction/internal/apperrors"
	"github.com/Aaisha011/E-Auction/internal/auction"
	"github.com/Aaisha011/E-Auction/internal/models"
	"github.com/Aaisha011/E-Auction/internal/repository"
	"github.com/Aaisha011/E-Auction/internal/utils"
)

// WinnerNotifier delivers the best-effort "you won" message. Failures are
// logged by the caller and never affect settlement.
type WinnerNotifier interface {
	SendAuctionWonEmail(user *models.User, product *models.Product, amount decimal.Decimal) error
}

type AuctionService struct {
	store    repository.Store
	notifier WinnerNotifier
	now      func() time.Time

	// settleLocks serializes settlement per auction id so the sweeper and a
	// manual "end now" admin action cannot run the procedure concurrently.
	settleLocks sync.Map
}

type CreateAuctionRequest struct {
	ProductID    uint      `json:"product_id" validate:"required"`
	AuctionStart time.Time `json:"auction_start" validate:"required"`
	AuctionEnd   time.Time `json:"auction_end" validate:"required"`
}

type AuctionDetail struct {
	Auction    *models.Auction `json:"auction"`
	Product    *models.Product `json:"product"`
	HighestBid *models.Bid     `json:"highest_bid,omitempty"`
}

type SettlementResult struct {
	AuctionID uint             `json:"auction_id"`
	Unsold    bool             `json:"unsold"`
	Winner    *models.User     `json:"winner,omitempty"`
	SoldPrice *decimal.Decimal `json:"sold_price,omitempty"`
	Product   *models.Product  `json:"product,omitempty"`
}

func NewAuctionService(store repository.Store, notifier WinnerNotifier) *AuctionService {
	return &AuctionService{
		store:    store,
		notifier: notifier,
		now:      time.Now,
	}
}

// WithClock replaces the service's time source. Tests use it to drive the
// lifecycle deterministically.
func (s *AuctionService) WithClock(now func() time.Time) *AuctionService {
	s.now = now
	return s
}

func (s *AuctionService) CreateAuction(req *CreateAuctionRequest) (*models.Auction, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	now := s.now()
	if !auction.ValidateWindow(now, req.AuctionStart, req.AuctionEnd) {
		return nil, fmt.Errorf("%w: start must be in the future and before end", apperrors.ErrInvalidWindow)
	}

	var created *models.Auction
	err := s.store.Transaction(func(tx repository.Store) error {
		product, err := tx.Products().GetByIDForUpdate(req.ProductID)
		if err != nil {
			return err
		}

		if product.Status.IsTerminal() {
			return fmt.Errorf("%w: product already settled", apperrors.ErrProductAlreadyAuctioned)
		}

		if _, err := tx.Auctions().FindActiveByProduct(product.ID); err == nil {
			return apperrors.ErrProductAlreadyAuctioned
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		created = &models.Auction{
			ProductID:    product.ID,
			AuctionStart: req.AuctionStart,
			AuctionEnd:   req.AuctionEnd,
			Status:       auction.DeriveStatus(now, req.AuctionStart, req.AuctionEnd, models.AuctionStatusUpcoming),
		}
		if err := tx.Auctions().Create(created); err != nil {
			return err
		}

		return tx.Products().SetStatus(product.ID, models.ProductStatusProcessing)
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"auction_id": created.ID,
		"product_id": created.ProductID,
		"start":      created.AuctionStart,
		"end":        created.AuctionEnd,
	}).Info("Auction created")

	return created, nil
}

func (s *AuctionService) ListAuctions(status *models.AuctionStatus) ([]models.Auction, error) {
	return s.store.Auctions().List(status)
}

// AuctionStatusGroup is the shape the admin dashboard renders: auctions
// bucketed per lifecycle state.
type AuctionStatusGroup struct {
	Status   models.AuctionStatus `json:"status"`
	Auctions []models.Auction     `json:"auctions"`
}

func (s *AuctionService) GetStatusDetails() ([]AuctionStatusGroup, error) {
	statuses := []models.AuctionStatus{
		models.AuctionStatusUpcoming,
		models.AuctionStatusOngoing,
		models.AuctionStatusCompleted,
	}

	groups := make([]AuctionStatusGroup, 0, len(statuses))
	for _, status := range statuses {
		st := status
		auctions, err := s.store.Auctions().List(&st)
		if err != nil {
			return nil, err
		}
		groups = append(groups, AuctionStatusGroup{Status: status, Auctions: auctions})
	}

	return groups, nil
}

func (s *AuctionService) GetAuctionDetail(auctionID uint) (*AuctionDetail, error) {
	a, err := s.store.Auctions().GetByID(auctionID)
	if err != nil {
		return nil, err
	}

	product, err := s.store.Products().GetByID(a.ProductID)
	if err != nil {
		return nil, err
	}

	detail := &AuctionDetail{Auction: a, Product: product}

	highest, err := s.store.Bids().HighestByAuction(auctionID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	detail.HighestBid = highest

	return detail, nil
}

func (s *AuctionService) DeleteAuction(auctionID uint) error {
	// Deleting an auction removes it from future sweeps. The product keeps
	// whatever status it had; deletion never reopens it.
	return s.store.Auctions().Delete(auctionID)
}

// Settle finalizes a completed auction exactly once. Repeated or concurrent
// invocations converge on the first outcome: the guard is the product's
// terminal status plus the auction's settled marker, both checked under a row
// lock inside the transaction.
func (s *AuctionService) Settle(auctionID uint) (*SettlementResult, error) {
	mu := s.lockFor(auctionID)
	mu.Lock()
	defer mu.Unlock()

	var (
		result     *SettlementResult
		settledNow bool
		winnerUser *models.User
	)

	err := s.store.Transaction(func(tx repository.Store) error {
		a, err := tx.Auctions().GetByIDForUpdate(auctionID)
		if err != nil {
			return err
		}

		product, err := tx.Products().GetByIDForUpdate(a.ProductID)
		if err != nil {
			return err
		}

		// Idempotency guard: a prior settlement already froze the outcome.
		if a.IsSettled() || product.Status.IsTerminal() {
			result, err = s.buildResult(tx, a, product)
			return err
		}

		bids, err := tx.Bids().ListByAuction(auctionID)
		if err != nil {
			return err
		}

		if winner := auction.PickWinner(bids); winner != nil {
			if err := tx.Products().MarkSold(product.ID, winner.UserID, winner.Amount); err != nil {
				return err
			}
			// Settlement is destructive to losing bids.
			if err := tx.Bids().DeleteLosing(auctionID, winner.ID); err != nil {
				return err
			}

			winnerUser, err = tx.Users().GetByID(winner.UserID)
			if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				return err
			}

			amount := winner.Amount
			result = &SettlementResult{
				AuctionID: auctionID,
				Winner:    winnerUser,
				SoldPrice: &amount,
			}
		} else {
			if err := tx.Products().MarkUnsold(product.ID); err != nil {
				return err
			}
			result = &SettlementResult{AuctionID: auctionID, Unsold: true}
		}

		if a.Status != models.AuctionStatusCompleted {
			if _, err := tx.Auctions().UpdateStatus(auctionID, a.Status, models.AuctionStatusCompleted); err != nil {
				return err
			}
		}
		if err := tx.Auctions().MarkSettled(auctionID, s.now()); err != nil {
			return err
		}

		updated, err := tx.Products().GetByID(product.ID)
		if err != nil {
			return err
		}
		result.Product = updated

		settledNow = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if settledNow {
		logrus.WithFields(logrus.Fields{
			"auction_id": auctionID,
			"unsold":     result.Unsold,
		}).Info("Auction settled")

		if winnerUser != nil && s.notifier != nil {
			// Best-effort notification after the transaction committed.
			user, product, amount := winnerUser, result.Product, *result.SoldPrice
			go func() {
				if err := s.notifier.SendAuctionWonEmail(user, product, amount); err != nil {
					logrus.WithError(err).WithField("auction_id", auctionID).
						Warn("Failed to send winner notification")
				}
			}()
		}
	}

	return result, nil
}

// GetSettlementResult reconstructs the settlement outcome from persisted
// state. It does not trigger settlement.
func (s *AuctionService) GetSettlementResult(auctionID uint) (*SettlementResult, error) {
	a, err := s.store.Auctions().GetByID(auctionID)
	if err != nil {
		return nil, err
	}

	product, err := s.store.Products().GetByID(a.ProductID)
	if err != nil {
		return nil, err
	}

	if !a.IsSettled() && !product.Status.IsTerminal() {
		return nil, apperrors.ErrAuctionNotSettled
	}

	return s.buildResult(s.store, a, product)
}

// buildResult assembles a SettlementResult for an already-settled auction.
func (s *AuctionService) buildResult(store repository.Store, a *models.Auction, product *models.Product) (*SettlementResult, error) {
	result := &SettlementResult{
		AuctionID: a.ID,
		Product:   product,
		Unsold:    product.Status == models.ProductStatusUnsold,
	}

	if product.Status == models.ProductStatusSold {
		result.SoldPrice = product.SoldPrice
		if product.SoldTo != nil {
			winner, err := store.Users().GetByID(*product.SoldTo)
			if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				return nil, err
			}
			result.Winner = winner
		}
	}

	return result, nil
}

func (s *AuctionService) lockFor(auctionID uint) *sync.Mutex {
	mu, _ := s.settleLocks.LoadOrStore(auctionID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
