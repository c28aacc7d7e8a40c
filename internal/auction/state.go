// Package auction holds the pure decision logic of the auction lifecycle:
// status derivation from the auction window and winner selection from a bid
// ledger. Nothing in this package touches the database, so every rule is
// testable with plain table tests.
package auction

import (
	"time"

	"github.com/Aaisha011/E-Auction/internal/models"
)

// DeriveStatus returns the status an auction should have at the given
// instant.
//
// Rules:
//   - completed is terminal: once an auction completed it never reverts,
//     regardless of clock input
//   - now < start            → upcoming
//   - start <= now < end     → ongoing
//   - now >= end             → completed
//
// The window is assumed valid (start < end); creation-time validation rejects
// anything else before it reaches this function.
func DeriveStatus(now, start, end time.Time, current models.AuctionStatus) models.AuctionStatus {
	if current == models.AuctionStatusCompleted {
		return models.AuctionStatusCompleted
	}
	if now.Before(start) {
		return models.AuctionStatusUpcoming
	}
	if now.Before(end) {
		return models.AuctionStatusOngoing
	}
	return models.AuctionStatusCompleted
}

// ValidateWindow checks a creation request's auction window: start strictly
// before end, and both in the future. Rejecting end <= now here removes the
// possibility of an auction being born already completed.
func ValidateWindow(now, start, end time.Time) bool {
	return start.Before(end) && start.After(now)
}
