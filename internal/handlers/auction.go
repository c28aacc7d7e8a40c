// internal/handlers/auction.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Aaisha011/E-Auction/internal/apperrors"
	"github.com/Aaisha011/E-Auction/internal/models"
	"github.com/Aaisha011/E-Auction/internal/services"
	"github.com/Aaisha011/E-Auction/internal/utils"
)

type AuctionHandler struct {
	auctionService *services.AuctionService
	sweeper        *services.Sweeper
}

func NewAuctionHandler(auctionService *services.AuctionService, sweeper *services.Sweeper) *AuctionHandler {
	return &AuctionHandler{
		auctionService: auctionService,
		sweeper:        sweeper,
	}
}

// POST /auctions
func (h *AuctionHandler) CreateAuction(c *gin.Context) {
	var req services.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	auction, err := h.auctionService.CreateAuction(&req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			utils.NotFoundResponse(c, "Product")
		case errors.Is(err, apperrors.ErrInvalidWindow):
			utils.BadRequestResponse(c, err.Error(), nil)
		case errors.Is(err, apperrors.ErrProductAlreadyAuctioned):
			utils.ConflictResponse(c, err.Error())
		default:
			utils.BadRequestResponse(c, err.Error(), nil)
		}
		return
	}

	utils.CreatedResponse(c, auction)
}

// GET /auctions
func (h *AuctionHandler) GetAuctions(c *gin.Context) {
	var status *models.AuctionStatus
	if raw := c.Query("status"); raw != "" {
		s := models.AuctionStatus(raw)
		if s != models.AuctionStatusUpcoming && s != models.AuctionStatusOngoing && s != models.AuctionStatusCompleted {
			utils.BadRequestResponse(c, "Unknown auction status: "+raw, nil)
			return
		}
		status = &s
	}

	auctions, err := h.auctionService.ListAuctions(status)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch auctions")
		return
	}

	utils.SuccessResponse(c, auctions)
}

// GET /auctions/:id
func (h *AuctionHandler) GetAuction(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		utils.BadRequestResponse(c, "Invalid auction id", nil)
		return
	}

	detail, err := h.auctionService.GetAuctionDetail(id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			utils.NotFoundResponse(c, "Auction")
			return
		}
		utils.InternalErrorResponse(c, "Failed to fetch auction")
		return
	}

	utils.SuccessResponse(c, detail)
}

// DELETE /auctions/:id
func (h *AuctionHandler) DeleteAuction(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		utils.BadRequestResponse(c, "Invalid auction id", nil)
		return
	}

	if err := h.auctionService.DeleteAuction(id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			utils.NotFoundResponse(c, "Auction")
			return
		}
		utils.ConflictResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}

// POST /auctions/:id/settle
func (h *AuctionHandler) SettleAuction(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		utils.BadRequestResponse(c, "Invalid auction id", nil)
		return
	}

	result, err := h.auctionService.Settle(id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			utils.NotFoundResponse(c, "Auction")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, result)
}

// GET /auctions/:id/result
func (h *AuctionHandler) GetSettlementResult(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		utils.BadRequestResponse(c, "Invalid auction id", nil)
		return
	}

	result, err := h.auctionService.GetSettlementResult(id)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			utils.NotFoundResponse(c, "Auction")
		case errors.Is(err, apperrors.ErrAuctionNotSettled):
			utils.ConflictResponse(c, err.Error())
		default:
			utils.InternalErrorResponse(c, "Failed to fetch settlement result")
		}
		return
	}

	utils.SuccessResponse(c, result)
}

// GET /auctions/status-details
func (h *AuctionHandler) GetStatusDetails(c *gin.Context) {
	groups, err := h.auctionService.GetStatusDetails()
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch auction status details")
		return
	}

	utils.SuccessResponse(c, groups)
}

// POST /auctions/sweep
func (h *AuctionHandler) SweepNow(c *gin.Context) {
	transitions, err := h.sweeper.SweepOnce()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"transitions": transitions})
}
