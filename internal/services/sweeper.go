// internal/services/sweeper.go
package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Aaisha011/E-Auction/internal/auction"
	"github.com/Aaisha011/E-Auction/internal/models"
	"github.com/Aaisha011/E-Auction/internal/repository"
)

// Settler runs the settlement procedure for one auction. Satisfied by
// AuctionService.
type Settler interface {
	Settle(auctionID uint) (*SettlementResult, error)
}

// Sweeper periodically advances auction statuses and hands newly-completed
// auctions to the settler. It is the correctness backstop for the whole
// lifecycle: no per-auction timers exist, so a process restart loses nothing.
type Sweeper struct {
	store    repository.Store
	settler  Settler
	interval time.Duration
	now      func() time.Time
}

func NewSweeper(store repository.Store, settler Settler, interval time.Duration) *Sweeper {
	return &Sweeper{
		store:    store,
		settler:  settler,
		interval: interval,
		now:      time.Now,
	}
}

// WithClock replaces the sweeper's time source, for tests.
func (w *Sweeper) WithClock(now func() time.Time) *Sweeper {
	w.now = now
	return w
}

// Start runs SweepOnce on a fixed interval until the context is cancelled.
func (w *Sweeper) Start(ctx context.Context) {
	logrus.WithField("interval", w.interval.String()).Info("Status sweeper started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Status sweeper stopped")
			return
		case <-ticker.C:
			if _, err := w.SweepOnce(); err != nil {
				logrus.WithError(err).Error("Sweep failed")
			}
		}
	}
}

// SweepOnce scans every non-completed auction, recomputes its status from the
// clock, persists transitions, and settles auctions that reached completed.
// A failure on one auction never blocks the others; the next tick retries
// idempotently. Returns the number of auctions transitioned.
func (w *Sweeper) SweepOnce() (int, error) {
	auctions, err := w.store.Auctions().ListUnfinished()
	if err != nil {
		return 0, err
	}

	now := w.now()
	transitioned := 0

	for _, a := range auctions {
		derived := auction.DeriveStatus(now, a.AuctionStart, a.AuctionEnd, a.Status)
		if derived == a.Status {
			continue
		}

		updated, err := w.store.Auctions().UpdateStatus(a.ID, a.Status, derived)
		if err != nil {
			logrus.WithError(err).WithField("auction_id", a.ID).
				Error("Failed to advance auction status")
			continue
		}
		if updated {
			transitioned++
			logrus.WithFields(logrus.Fields{
				"auction_id": a.ID,
				"from":       a.Status,
				"to":         derived,
			}).Info("Auction status advanced")
		}

		// Settle regardless of who won the conditional update: Settle is
		// idempotent, and the auction may have been completed by a
		// concurrent writer without being settled yet.
		if derived == models.AuctionStatusCompleted {
			if _, err := w.settler.Settle(a.ID); err != nil {
				logrus.WithError(err).WithField("auction_id", a.ID).
					Error("Failed to settle auction")
			}
		}
	}

	return transitioned, nil
}
