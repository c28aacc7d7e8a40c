// internal/services/bid_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aaisha011/E-Auction/internal/apperrors"
	"github.com/Aaisha011/E-Auction/internal/models"
)

func TestPlaceBidRejectsNonPositiveAmount(t *testing.T) {
	f := newAuctionFixture(t, nil)
	a := f.createAuction(t)
	f.clock.Set(fixtureBase.Add(90 * time.Minute))

	for _, amount := range []string{"0", "-5.00"} {
		_, err := f.bids.PlaceBid(a.ID, f.users[0].ID, decimal.RequireFromString(amount))
		assert.ErrorIs(t, err, apperrors.ErrInvalidBid)
	}
}

func TestPlaceBidOutsideWindow(t *testing.T) {
	f := newAuctionFixture(t, nil)
	a := f.createAuction(t)

	// Before the window opens.
	_, err := f.bids.PlaceBid(a.ID, f.users[0].ID, decimal.RequireFromString("150.00"))
	assert.ErrorIs(t, err, apperrors.ErrAuctionNotOpen)

	// After it closes.
	f.clock.Set(fixtureBase.Add(3 * time.Hour))
	_, err = f.bids.PlaceBid(a.ID, f.users[0].ID, decimal.RequireFromString("150.00"))
	assert.ErrorIs(t, err, apperrors.ErrAuctionNotOpen)

	// Neither attempt touched the ledger.
	bids, err := f.store.Bids().ListByAuction(a.ID)
	require.NoError(t, err)
	assert.Empty(t, bids)
}

func TestPlaceBidEnforcesFloor(t *testing.T) {
	f := newAuctionFixture(t, nil)
	a := f.createAuction(t)
	f.clock.Set(fixtureBase.Add(90 * time.Minute))

	// Must exceed the starting price.
	_, err := f.bids.PlaceBid(a.ID, f.users[0].ID, decimal.RequireFromString("100.00"))
	assert.ErrorIs(t, err, apperrors.ErrBidTooLow)

	_, err = f.bids.PlaceBid(a.ID, f.users[0].ID, decimal.RequireFromString("120.00"))
	require.NoError(t, err)

	// Must exceed the current highest, not just the starting price.
	_, err = f.bids.PlaceBid(a.ID, f.users[1].ID, decimal.RequireFromString("120.00"))
	assert.ErrorIs(t, err, apperrors.ErrBidTooLow)
	_, err = f.bids.PlaceBid(a.ID, f.users[1].ID, decimal.RequireFromString("110.00"))
	assert.ErrorIs(t, err, apperrors.ErrBidTooLow)

	// A rejected bid leaves the ledger unchanged.
	bids, err := f.store.Bids().ListByAuction(a.ID)
	require.NoError(t, err)
	require.Len(t, bids, 1)
	assert.Equal(t, f.users[0].ID, bids[0].UserID)
}

func TestPlaceBidUnknownUser(t *testing.T) {
	f := newAuctionFixture(t, nil)
	a := f.createAuction(t)
	f.clock.Set(fixtureBase.Add(90 * time.Minute))

	_, err := f.bids.PlaceBid(a.ID, 9999, decimal.RequireFromString("150.00"))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPlaceBidUnknownAuction(t *testing.T) {
	f := newAuctionFixture(t, nil)

	_, err := f.bids.PlaceBid(9999, f.users[0].ID, decimal.RequireFromString("150.00"))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPlaceBidPromotesUpcomingAuction(t *testing.T) {
	f := newAuctionFixture(t, nil)
	a := f.createAuction(t)
	require.Equal(t, models.AuctionStatusUpcoming, a.Status)

	// The clock is inside the window but no sweep has run yet.
	f.clock.Set(fixtureBase.Add(90 * time.Minute))
	_, err := f.bids.PlaceBid(a.ID, f.users[0].ID, decimal.RequireFromString("150.00"))
	require.NoError(t, err)

	updated, err := f.store.Auctions().GetByID(a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AuctionStatusOngoing, updated.Status)
}

func TestListBidsOrdering(t *testing.T) {
	f := newAuctionFixture(t, nil)
	a := f.createAuction(t)

	// Seed the ledger directly so ordering is exercised on its own;
	// PlaceBid would reject the out-of-order 150.00 as below the highest.
	amounts := []string{"120.00", "180.00", "150.00"}
	for i, amount := range amounts {
		err := f.store.Bids().Create(&models.Bid{
			BaseModel: models.BaseModel{CreatedAt: fixtureBase.Add(time.Duration(90+i) * time.Minute)},
			AuctionID: a.ID,
			ProductID: a.ProductID,
			UserID:    f.users[i].ID,
			Amount:    decimal.RequireFromString(amount),
		})
		require.NoError(t, err)
	}

	bids, err := f.bids.ListBids(a.ID)
	require.NoError(t, err)
	require.Len(t, bids, 3)

	assert.True(t, bids[0].Amount.Equal(decimal.RequireFromString("180.00")))
	assert.True(t, bids[1].Amount.Equal(decimal.RequireFromString("150.00")))
	assert.True(t, bids[2].Amount.Equal(decimal.RequireFromString("120.00")))
}

func TestGetHighestBid(t *testing.T) {
	f := newAuctionFixture(t, nil)
	a := f.createAuction(t)

	highest, err := f.bids.GetHighestBid(a.ID)
	require.NoError(t, err)
	assert.Nil(t, highest)

	f.clock.Set(fixtureBase.Add(90 * time.Minute))
	_, err = f.bids.PlaceBid(a.ID, f.users[0].ID, decimal.RequireFromString("125.00"))
	require.NoError(t, err)

	highest, err = f.bids.GetHighestBid(a.ID)
	require.NoError(t, err)
	require.NotNil(t, highest)
	assert.True(t, highest.Amount.Equal(decimal.RequireFromString("125.00")))
}
