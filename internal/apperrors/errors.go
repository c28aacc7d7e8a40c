// internal/apperrors/errors.go
package apperrors

import "errors"

// Repository-level errors
var (
	ErrNotFound = errors.New("record not found")
)

// Business logic errors
var (
	ErrInvalidWindow           = errors.New("invalid auction window")
	ErrProductAlreadyAuctioned = errors.New("product is already in an auction")
	ErrInvalidBid              = errors.New("invalid bid")
	ErrBidTooLow               = errors.New("bid amount too low")
	ErrAuctionNotOpen          = errors.New("auction is not open for bidding")
	ErrAuctionNotSettled       = errors.New("auction has not been settled yet")
)
