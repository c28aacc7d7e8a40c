// internal/services/sweeper_test.go
package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aaisha011/E-Auction/internal/models"
)

func newSweeperFixture(t *testing.T) (*auctionFixture, *Sweeper) {
	t.Helper()
	f := newAuctionFixture(t, nil)
	sweeper := NewSweeper(f.store, f.service, time.Minute).WithClock(f.clock.Now)
	return f, sweeper
}

func TestSweepPromotesUpcomingToOngoing(t *testing.T) {
	f, sweeper := newSweeperFixture(t)
	a := f.createAuction(t)

	// Before the window: nothing to do.
	transitioned, err := sweeper.SweepOnce()
	require.NoError(t, err)
	assert.Zero(t, transitioned)

	f.clock.Set(fixtureBase.Add(90 * time.Minute))
	transitioned, err = sweeper.SweepOnce()
	require.NoError(t, err)
	assert.Equal(t, 1, transitioned)

	updated, err := f.store.Auctions().GetByID(a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AuctionStatusOngoing, updated.Status)
	assert.False(t, updated.IsSettled())
}

func TestSweepCompletesAndSettles(t *testing.T) {
	f, sweeper := newSweeperFixture(t)
	a := f.createAuction(t)

	f.clock.Set(fixtureBase.Add(90 * time.Minute))
	_, err := f.bids.PlaceBid(a.ID, f.users[0].ID, decimal.RequireFromString("140.00"))
	require.NoError(t, err)

	f.clock.Set(fixtureBase.Add(3 * time.Hour))
	transitioned, err := sweeper.SweepOnce()
	require.NoError(t, err)
	assert.Equal(t, 1, transitioned)

	updated, err := f.store.Auctions().GetByID(a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AuctionStatusCompleted, updated.Status)
	assert.True(t, updated.IsSettled())

	product, err := f.store.Products().GetByID(f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProductStatusSold, product.Status)
	assert.Equal(t, f.users[0].ID, *product.SoldTo)
}

func TestSweepHandlesMissedTicks(t *testing.T) {
	// The process slept through the whole window: a single sweep must take
	// the auction straight from upcoming to completed and settle it unsold.
	f, sweeper := newSweeperFixture(t)
	a := f.createAuction(t)

	f.clock.Set(fixtureBase.Add(48 * time.Hour))
	transitioned, err := sweeper.SweepOnce()
	require.NoError(t, err)
	assert.Equal(t, 1, transitioned)

	updated, err := f.store.Auctions().GetByID(a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AuctionStatusCompleted, updated.Status)
	assert.True(t, updated.IsSettled())

	product, err := f.store.Products().GetByID(f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProductStatusUnsold, product.Status)
}

func TestSweepIsIdempotent(t *testing.T) {
	f, sweeper := newSweeperFixture(t)
	a := f.createAuction(t)

	f.clock.Set(fixtureBase.Add(3 * time.Hour))
	transitioned, err := sweeper.SweepOnce()
	require.NoError(t, err)
	assert.Equal(t, 1, transitioned)

	// Completed auctions leave the unfinished set; re-sweeping is a no-op.
	transitioned, err = sweeper.SweepOnce()
	require.NoError(t, err)
	assert.Zero(t, transitioned)

	updated, err := f.store.Auctions().GetByID(a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AuctionStatusCompleted, updated.Status)
}

func TestSweepHandlesMultipleAuctionsIndependently(t *testing.T) {
	f, sweeper := newSweeperFixture(t)
	a1 := f.createAuction(t)

	// Second product with a later window.
	p2 := f.store.PutProduct(&models.Product{
		Name:          "Oil painting",
		Description:   "Signed landscape, mid-century",
		StartingPrice: decimal.RequireFromString("500.00"),
		CategoryID:    1,
		Status:        models.ProductStatusPending,
	})
	a2, err := f.service.CreateAuction(&CreateAuctionRequest{
		ProductID:    p2.ID,
		AuctionStart: fixtureBase.Add(5 * time.Hour),
		AuctionEnd:   fixtureBase.Add(6 * time.Hour),
	})
	require.NoError(t, err)

	// First window has closed, the second has not opened.
	f.clock.Set(fixtureBase.Add(3 * time.Hour))
	transitioned, err := sweeper.SweepOnce()
	require.NoError(t, err)
	assert.Equal(t, 1, transitioned)

	first, err := f.store.Auctions().GetByID(a1.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AuctionStatusCompleted, first.Status)

	second, err := f.store.Auctions().GetByID(a2.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AuctionStatusUpcoming, second.Status)
	assert.False(t, second.IsSettled())
}
