// internal/handlers/chart.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Aaisha011/E-Auction/internal/services"
	"github.com/Aaisha011/E-Auction/internal/utils"
)

type ChartHandler struct {
	chartService *services.ChartService
}

func NewChartHandler(chartService *services.ChartService) *ChartHandler {
	return &ChartHandler{
		chartService: chartService,
	}
}

// GET /charts/dashboard
func (h *ChartHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.chartService.GetDashboardStats()
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch dashboard stats")
		return
	}

	utils.SuccessResponse(c, stats)
}

// GET /charts/auctions
func (h *ChartHandler) GetAuctionStatusCounts(c *gin.Context) {
	counts, err := h.chartService.GetAuctionStatusCounts()
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch auction counts")
		return
	}

	utils.SuccessResponse(c, counts)
}

// GET /charts/products
func (h *ChartHandler) GetProductStatusCounts(c *gin.Context) {
	counts, err := h.chartService.GetProductStatusCounts()
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch product counts")
		return
	}

	utils.SuccessResponse(c, counts)
}

// GET /charts/monthly-sales
func (h *ChartHandler) GetMonthlySales(c *gin.Context) {
	sales, err := h.chartService.GetMonthlySales()
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch monthly sales")
		return
	}

	utils.SuccessResponse(c, sales)
}
