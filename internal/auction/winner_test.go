// internal/auction/winner_test.go
package auction

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aaisha011/E-Auction/internal/models"
)

func bidAt(id, userID uint, amount string, at time.Time) models.Bid {
	b := models.Bid{
		UserID: userID,
		Amount: decimal.RequireFromString(amount),
	}
	b.ID = id
	b.CreatedAt = at
	return b
}

func TestPickWinnerEmpty(t *testing.T) {
	assert.Nil(t, PickWinner(nil))
	assert.Nil(t, PickWinner([]models.Bid{}))
}

func TestPickWinnerHighestAmount(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	bids := []models.Bid{
		bidAt(1, 10, "50.00", base),
		bidAt(2, 11, "75.50", base.Add(time.Minute)),
		bidAt(3, 12, "60.00", base.Add(2*time.Minute)),
	}

	winner := PickWinner(bids)
	require.NotNil(t, winner)
	assert.Equal(t, uint(11), winner.UserID)
	assert.True(t, winner.Amount.Equal(decimal.RequireFromString("75.50")))
}

func TestPickWinnerTieGoesToEarliest(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	bids := []models.Bid{
		bidAt(1, 10, "100.00", base.Add(time.Minute)),
		bidAt(2, 11, "100.00", base),
		bidAt(3, 12, "100.00", base.Add(2*time.Minute)),
	}

	winner := PickWinner(bids)
	require.NotNil(t, winner)
	assert.Equal(t, uint(11), winner.UserID)
}

func TestRankBidsDoesNotMutateInput(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	bids := []models.Bid{
		bidAt(1, 10, "10.00", base),
		bidAt(2, 11, "30.00", base.Add(time.Minute)),
		bidAt(3, 12, "20.00", base.Add(2*time.Minute)),
	}

	ranked := RankBids(bids)

	require.Len(t, ranked, 3)
	assert.Equal(t, uint(2), ranked[0].ID)
	assert.Equal(t, uint(3), ranked[1].ID)
	assert.Equal(t, uint(1), ranked[2].ID)

	// Input order preserved.
	assert.Equal(t, uint(1), bids[0].ID)
	assert.Equal(t, uint(2), bids[1].ID)
	assert.Equal(t, uint(3), bids[2].ID)
}

func TestMeetsFloor(t *testing.T) {
	starting := decimal.RequireFromString("50.00")
	highest := decimal.RequireFromString("80.00")

	tests := []struct {
		name    string
		amount  string
		highest *decimal.Decimal
		want    bool
	}{
		{"above starting, no bids", "50.01", nil, true},
		{"equal to starting, no bids", "50.00", nil, false},
		{"below starting, no bids", "49.99", nil, false},
		{"above highest", "80.01", &highest, true},
		{"equal to highest", "80.00", &highest, false},
		{"between starting and highest", "60.00", &highest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			assert.Equal(t, tt.want, MeetsFloor(amount, starting, tt.highest))
		})
	}
}
