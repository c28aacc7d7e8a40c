package auction

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Aaisha011/E-Auction/internal/models"
)

// PickWinner returns the winning bid among the given bids: highest amount,
// ties broken by earliest submission. Returns nil when no bids exist.
func PickWinner(bids []models.Bid) *models.Bid {
	if len(bids) == 0 {
		return nil
	}

	ranked := RankBids(bids)
	return &ranked[0]
}

// RankBids returns a copy of bids sorted by amount descending, earliest
// timestamp first among equal amounts. The input slice is left untouched.
func RankBids(bids []models.Bid) []models.Bid {
	ranked := make([]models.Bid, len(bids))
	copy(ranked, bids)

	sort.SliceStable(ranked, func(i, j int) bool {
		if !ranked[i].Amount.Equal(ranked[j].Amount) {
			return ranked[i].Amount.GreaterThan(ranked[j].Amount)
		}
		return ranked[i].CreatedAt.Before(ranked[j].CreatedAt)
	})

	return ranked
}

// MeetsFloor reports whether amount strictly exceeds both the product's
// starting price and the current highest bid. A nil highest means no bids
// were placed yet.
func MeetsFloor(amount, startingPrice decimal.Decimal, highest *decimal.Decimal) bool {
	if !amount.GreaterThan(startingPrice) {
		return false
	}
	if highest != nil && !amount.GreaterThan(*highest) {
		return false
	}
	return true
}
