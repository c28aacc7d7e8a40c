// internal/services/chart_service.go
package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Aaisha011/E-Auction/internal/models"
)

type ChartService struct {
	db *gorm.DB
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type DashboardStats struct {
	TotalUsers      int64           `json:"total_users"`
	TotalProducts   int64           `json:"total_products"`
	TotalAuctions   int64           `json:"total_auctions"`
	TotalBids       int64           `json:"total_bids"`
	AuctionsByState []StatusCount   `json:"auctions_by_state"`
	ProductsByState []StatusCount   `json:"products_by_state"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
}

type MonthlySales struct {
	Month   string          `json:"month"`
	Sold    int64           `json:"sold"`
	Revenue decimal.Decimal `json:"revenue"`
}

func NewChartService(db *gorm.DB) *ChartService {
	return &ChartService{db: db}
}

func (s *ChartService) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{TotalRevenue: decimal.Zero}

	if err := s.db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := s.db.Model(&models.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	if err := s.db.Model(&models.Auction{}).Count(&stats.TotalAuctions).Error; err != nil {
		return nil, fmt.Errorf("failed to count auctions: %w", err)
	}
	if err := s.db.Model(&models.Bid{}).Count(&stats.TotalBids).Error; err != nil {
		return nil, fmt.Errorf("failed to count bids: %w", err)
	}

	auctionCounts, err := s.countByStatus(&models.Auction{})
	if err != nil {
		return nil, fmt.Errorf("failed to group auctions: %w", err)
	}
	stats.AuctionsByState = auctionCounts

	productCounts, err := s.countByStatus(&models.Product{})
	if err != nil {
		return nil, fmt.Errorf("failed to group products: %w", err)
	}
	stats.ProductsByState = productCounts

	var revenue decimal.NullDecimal
	if err := s.db.Model(&models.Product{}).
		Where("status = ?", models.ProductStatusSold).
		Select("COALESCE(SUM(sold_price), 0)").
		Scan(&revenue).Error; err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	if revenue.Valid {
		stats.TotalRevenue = revenue.Decimal
	}

	return stats, nil
}

// GetMonthlySales reports sold products and revenue per calendar month over
// the trailing twelve months.
func (s *ChartService) GetMonthlySales() ([]MonthlySales, error) {
	since := time.Now().AddDate(-1, 0, 0)

	rows := []struct {
		Month   string
		Sold    int64
		Revenue decimal.Decimal
	}{}

	err := s.db.Model(&models.Product{}).
		Select("TO_CHAR(updated_at, 'YYYY-MM') AS month, COUNT(*) AS sold, COALESCE(SUM(sold_price), 0) AS revenue").
		Where("status = ? AND updated_at >= ?", models.ProductStatusSold, since).
		Group("TO_CHAR(updated_at, 'YYYY-MM')").
		Order("month ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch monthly sales: %w", err)
	}

	sales := make([]MonthlySales, 0, len(rows))
	for _, row := range rows {
		sales = append(sales, MonthlySales{Month: row.Month, Sold: row.Sold, Revenue: row.Revenue})
	}

	return sales, nil
}

// GetAuctionStatusCounts returns auctions bucketed by lifecycle state.
func (s *ChartService) GetAuctionStatusCounts() ([]StatusCount, error) {
	counts, err := s.countByStatus(&models.Auction{})
	if err != nil {
		return nil, fmt.Errorf("failed to group auctions: %w", err)
	}
	return counts, nil
}

// GetProductStatusCounts returns products bucketed by sale state.
func (s *ChartService) GetProductStatusCounts() ([]StatusCount, error) {
	counts, err := s.countByStatus(&models.Product{})
	if err != nil {
		return nil, fmt.Errorf("failed to group products: %w", err)
	}
	return counts, nil
}

func (s *ChartService) countByStatus(model interface{}) ([]StatusCount, error) {
	var counts []StatusCount
	err := s.db.Model(model).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status ASC").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}
