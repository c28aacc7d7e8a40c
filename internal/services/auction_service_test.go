// internal/services/auction_service_test.go
package services

import (
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aaisha011/E-Auction/internal/apperrors"
	"github.com/Aaisha011/E-Auction/internal/models"
	"github.com/Aaisha011/E-Auction/internal/repository"
)

// testClock is a settable time source shared between services under test.
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock(t time.Time) *testClock {
	return &testClock{t: t}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

type captureNotifier struct {
	ch chan uint
}

func (n *captureNotifier) SendAuctionWonEmail(user *models.User, product *models.Product, amount decimal.Decimal) error {
	n.ch <- user.ID
	return nil
}

type auctionFixture struct {
	store   *repository.MemoryStore
	clock   *testClock
	service *AuctionService
	bids    *BidService
	product *models.Product
	users   []*models.User
}

var fixtureBase = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newAuctionFixture(t *testing.T, notifier WinnerNotifier) *auctionFixture {
	t.Helper()

	store := repository.NewMemoryStore()
	clock := newTestClock(fixtureBase)

	product := store.PutProduct(&models.Product{
		Name:          "Vintage watch",
		Description:   "A mechanical watch in working order",
		StartingPrice: decimal.RequireFromString("100.00"),
		CategoryID:    1,
		Status:        models.ProductStatusPending,
	})

	var users []*models.User
	for _, name := range []string{"alice", "bob", "carol"} {
		users = append(users, store.PutUser(&models.User{
			Username: name,
			Email:    name + "@example.com",
			Role:     models.UserRoleUser,
		}))
	}

	return &auctionFixture{
		store:   store,
		clock:   clock,
		service: NewAuctionService(store, notifier).WithClock(clock.Now),
		bids:    NewBidService(store).WithClock(clock.Now),
		product: product,
		users:   users,
	}
}

func (f *auctionFixture) createAuction(t *testing.T) *models.Auction {
	t.Helper()
	a, err := f.service.CreateAuction(&CreateAuctionRequest{
		ProductID:    f.product.ID,
		AuctionStart: fixtureBase.Add(time.Hour),
		AuctionEnd:   fixtureBase.Add(2 * time.Hour),
	})
	require.NoError(t, err)
	return a
}

func TestCreateAuction(t *testing.T) {
	f := newAuctionFixture(t, nil)

	a := f.createAuction(t)

	assert.Equal(t, models.AuctionStatusUpcoming, a.Status)
	assert.Equal(t, f.product.ID, a.ProductID)

	product, err := f.store.Products().GetByID(f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProductStatusProcessing, product.Status)
}

func TestCreateAuctionRejectsInvalidWindow(t *testing.T) {
	f := newAuctionFixture(t, nil)

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
	}{
		{"start in the past", fixtureBase.Add(-time.Hour), fixtureBase.Add(time.Hour)},
		{"end before start", fixtureBase.Add(2 * time.Hour), fixtureBase.Add(time.Hour)},
		{"start equals end", fixtureBase.Add(time.Hour), fixtureBase.Add(time.Hour)},
		{"whole window in the past", fixtureBase.Add(-2 * time.Hour), fixtureBase.Add(-time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.CreateAuction(&CreateAuctionRequest{
				ProductID:    f.product.ID,
				AuctionStart: tt.start,
				AuctionEnd:   tt.end,
			})
			assert.ErrorIs(t, err, apperrors.ErrInvalidWindow)
		})
	}

	// Nothing was persisted and the product is untouched.
	product, err := f.store.Products().GetByID(f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProductStatusPending, product.Status)
}

func TestCreateAuctionRejectsSecondActiveAuction(t *testing.T) {
	f := newAuctionFixture(t, nil)
	f.createAuction(t)

	_, err := f.service.CreateAuction(&CreateAuctionRequest{
		ProductID:    f.product.ID,
		AuctionStart: fixtureBase.Add(3 * time.Hour),
		AuctionEnd:   fixtureBase.Add(4 * time.Hour),
	})
	assert.ErrorIs(t, err, apperrors.ErrProductAlreadyAuctioned)
}

func TestCreateAuctionRejectsSettledProduct(t *testing.T) {
	f := newAuctionFixture(t, nil)
	require.NoError(t, f.store.Products().MarkUnsold(f.product.ID))

	_, err := f.service.CreateAuction(&CreateAuctionRequest{
		ProductID:    f.product.ID,
		AuctionStart: fixtureBase.Add(time.Hour),
		AuctionEnd:   fixtureBase.Add(2 * time.Hour),
	})
	assert.ErrorIs(t, err, apperrors.ErrProductAlreadyAuctioned)
}

func TestSettleWithBidsPicksHighest(t *testing.T) {
	f := newAuctionFixture(t, nil)
	a := f.createAuction(t)

	f.clock.Set(fixtureBase.Add(90 * time.Minute))
	_, err := f.bids.PlaceBid(a.ID, f.users[0].ID, decimal.RequireFromString("110.00"))
	require.NoError(t, err)
	f.clock.Set(fixtureBase.Add(91 * time.Minute))
	_, err = f.bids.PlaceBid(a.ID, f.users[1].ID, decimal.RequireFromString("150.00"))
	require.NoError(t, err)
	f.clock.Set(fixtureBase.Add(92 * time.Minute))
	_, err = f.bids.PlaceBid(a.ID, f.users[2].ID, decimal.RequireFromString("160.00"))
	require.NoError(t, err)

	f.clock.Set(fixtureBase.Add(3 * time.Hour))
	result, err := f.service.Settle(a.ID)
	require.NoError(t, err)

	assert.False(t, result.Unsold)
	require.NotNil(t, result.Winner)
	assert.Equal(t, f.users[2].ID, result.Winner.ID)
	require.NotNil(t, result.SoldPrice)
	assert.True(t, result.SoldPrice.Equal(decimal.RequireFromString("160.00")))

	product, err := f.store.Products().GetByID(f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProductStatusSold, product.Status)
	require.NotNil(t, product.SoldTo)
	assert.Equal(t, f.users[2].ID, *product.SoldTo)

	// Losing bids are destroyed; only the winning bid survives.
	remaining, err := f.store.Bids().ListByAuction(a.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, f.users[2].ID, remaining[0].UserID)

	updated, err := f.store.Auctions().GetByID(a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AuctionStatusCompleted, updated.Status)
	assert.True(t, updated.IsSettled())
}

func TestSettleWithoutBidsMarksUnsold(t *testing.T) {
	f := newAuctionFixture(t, nil)
	a := f.createAuction(t)

	f.clock.Set(fixtureBase.Add(3 * time.Hour))
	result, err := f.service.Settle(a.ID)
	require.NoError(t, err)

	assert.True(t, result.Unsold)
	assert.Nil(t, result.Winner)

	product, err := f.store.Products().GetByID(f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProductStatusUnsold, product.Status)
	assert.Nil(t, product.SoldTo)
}

func TestSettleIsIdempotent(t *testing.T) {
	f := newAuctionFixture(t, nil)
	a := f.createAuction(t)

	f.clock.Set(fixtureBase.Add(90 * time.Minute))
	_, err := f.bids.PlaceBid(a.ID, f.users[0].ID, decimal.RequireFromString("120.00"))
	require.NoError(t, err)

	f.clock.Set(fixtureBase.Add(3 * time.Hour))
	first, err := f.service.Settle(a.ID)
	require.NoError(t, err)

	second, err := f.service.Settle(a.ID)
	require.NoError(t, err)

	require.NotNil(t, second.Winner)
	assert.Equal(t, first.Winner.ID, second.Winner.ID)
	assert.True(t, first.SoldPrice.Equal(*second.SoldPrice))
	assert.Equal(t, first.Unsold, second.Unsold)
}

func TestSettleConcurrentCallsConverge(t *testing.T) {
	f := newAuctionFixture(t, nil)
	a := f.createAuction(t)

	f.clock.Set(fixtureBase.Add(90 * time.Minute))
	_, err := f.bids.PlaceBid(a.ID, f.users[0].ID, decimal.RequireFromString("130.00"))
	require.NoError(t, err)
	f.clock.Set(fixtureBase.Add(91 * time.Minute))
	_, err = f.bids.PlaceBid(a.ID, f.users[1].ID, decimal.RequireFromString("140.00"))
	require.NoError(t, err)

	f.clock.Set(fixtureBase.Add(3 * time.Hour))

	const workers = 16
	results := make([]*SettlementResult, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.service.Settle(a.ID)
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		require.NotNil(t, results[i])
		require.NotNil(t, results[i].Winner)
		assert.Equal(t, f.users[1].ID, results[i].Winner.ID)
		assert.True(t, results[i].SoldPrice.Equal(decimal.RequireFromString("140.00")))
	}

	product, err := f.store.Products().GetByID(f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProductStatusSold, product.Status)
	assert.Equal(t, f.users[1].ID, *product.SoldTo)
}

func TestGetSettlementResult(t *testing.T) {
	f := newAuctionFixture(t, nil)
	a := f.createAuction(t)

	_, err := f.service.GetSettlementResult(a.ID)
	assert.ErrorIs(t, err, apperrors.ErrAuctionNotSettled)

	f.clock.Set(fixtureBase.Add(90 * time.Minute))
	_, err = f.bids.PlaceBid(a.ID, f.users[0].ID, decimal.RequireFromString("105.00"))
	require.NoError(t, err)

	f.clock.Set(fixtureBase.Add(3 * time.Hour))
	_, err = f.service.Settle(a.ID)
	require.NoError(t, err)

	result, err := f.service.GetSettlementResult(a.ID)
	require.NoError(t, err)
	require.NotNil(t, result.Winner)
	assert.Equal(t, f.users[0].ID, result.Winner.ID)
	assert.True(t, result.SoldPrice.Equal(decimal.RequireFromString("105.00")))
}

func TestSettleNotifiesWinner(t *testing.T) {
	notifier := &captureNotifier{ch: make(chan uint, 1)}
	f := newAuctionFixture(t, notifier)
	a := f.createAuction(t)

	f.clock.Set(fixtureBase.Add(90 * time.Minute))
	_, err := f.bids.PlaceBid(a.ID, f.users[1].ID, decimal.RequireFromString("200.00"))
	require.NoError(t, err)

	f.clock.Set(fixtureBase.Add(3 * time.Hour))
	_, err = f.service.Settle(a.ID)
	require.NoError(t, err)

	select {
	case winnerID := <-notifier.ch:
		assert.Equal(t, f.users[1].ID, winnerID)
	case <-time.After(2 * time.Second):
		t.Fatal("winner notification was never attempted")
	}

	// A repeated settle must not notify again.
	_, err = f.service.Settle(a.ID)
	require.NoError(t, err)
	select {
	case <-notifier.ch:
		t.Fatal("duplicate winner notification")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDeleteAuctionRemovesFromListing(t *testing.T) {
	f := newAuctionFixture(t, nil)
	a := f.createAuction(t)

	require.NoError(t, f.service.DeleteAuction(a.ID))

	_, err := f.service.GetAuctionDetail(a.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
