// internal/handlers/bid.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Aaisha011/E-Auction/internal/apperrors"
	"github.com/Aaisha011/E-Auction/internal/services"
	"github.com/Aaisha011/E-Auction/internal/utils"
)

type BidHandler struct {
	bidService *services.BidService
}

type placeBidRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

func NewBidHandler(bidService *services.BidService) *BidHandler {
	return &BidHandler{
		bidService: bidService,
	}
}

// POST /auctions/:id/bids
func (h *BidHandler) PlaceBid(c *gin.Context) {
	auctionID, err := parseIDParam(c, "id")
	if err != nil {
		utils.BadRequestResponse(c, "Invalid auction id", nil)
		return
	}

	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req placeBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Bid amount is required", err.Error())
		return
	}

	bid, err := h.bidService.PlaceBid(auctionID, userID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			utils.NotFoundResponse(c, "Auction")
		case errors.Is(err, apperrors.ErrAuctionNotOpen):
			utils.ConflictResponse(c, err.Error())
		case errors.Is(err, apperrors.ErrBidTooLow), errors.Is(err, apperrors.ErrInvalidBid):
			utils.BadRequestResponse(c, err.Error(), nil)
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}

	utils.CreatedResponse(c, bid)
}

// GET /auctions/:id/bids
func (h *BidHandler) GetBids(c *gin.Context) {
	auctionID, err := parseIDParam(c, "id")
	if err != nil {
		utils.BadRequestResponse(c, "Invalid auction id", nil)
		return
	}

	bids, err := h.bidService.ListBids(auctionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			utils.NotFoundResponse(c, "Auction")
			return
		}
		utils.InternalErrorResponse(c, "Failed to fetch bids")
		return
	}

	utils.SuccessResponse(c, bids)
}

// GET /auctions/:id/bids/highest
func (h *BidHandler) GetHighestBid(c *gin.Context) {
	auctionID, err := parseIDParam(c, "id")
	if err != nil {
		utils.BadRequestResponse(c, "Invalid auction id", nil)
		return
	}

	bid, err := h.bidService.GetHighestBid(auctionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			utils.NotFoundResponse(c, "Auction")
			return
		}
		utils.InternalErrorResponse(c, "Failed to fetch highest bid")
		return
	}
	if bid == nil {
		utils.SuccessResponse(c, gin.H{"highest_bid": nil})
		return
	}

	utils.SuccessResponse(c, gin.H{"highest_bid": bid})
}
