// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Aaisha011/E-Auction/internal/models"
	"github.com/Aaisha011/E-Auction/internal/utils"
)

type ProductService struct {
	db *gorm.DB
}

type CreateProductRequest struct {
	Name          string          `json:"name" validate:"required,min=3,max=255"`
	Description   string          `json:"description" validate:"required,min=10"`
	StartingPrice decimal.Decimal `json:"starting_price"`
	CategoryID    uint            `json:"category_id" validate:"required"`
	ImageURLs     []string        `json:"image_urls,omitempty"`
}

type UpdateProductRequest struct {
	Name          string           `json:"name,omitempty" validate:"omitempty,min=3,max=255"`
	Description   string           `json:"description,omitempty" validate:"omitempty,min=10"`
	StartingPrice *decimal.Decimal `json:"starting_price,omitempty"`
	CategoryID    uint             `json:"category_id,omitempty"`
	ImageURLs     []string         `json:"image_urls,omitempty"`
}

type ProductSearchParams struct {
	utils.PaginationParams
	CategoryID *uint                 `json:"category_id,omitempty"`
	Status     *models.ProductStatus `json:"status,omitempty"`
}

type ProductStatusGroup struct {
	Status   models.ProductStatus `json:"status"`
	Products []models.Product     `json:"products"`
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

func (s *ProductService) CreateProduct(req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if !req.StartingPrice.IsPositive() {
		return nil, errors.New("starting price must be positive")
	}

	var category models.Category
	if err := s.db.First(&category, req.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("category not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	product := &models.Product{
		Name:          req.Name,
		Description:   req.Description,
		StartingPrice: req.StartingPrice,
		CategoryID:    req.CategoryID,
		ImageURLs:     pq.StringArray(req.ImageURLs),
		Status:        models.ProductStatusPending,
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.db.Preload("Category").First(product, product.ID)

	return product, nil
}

func (s *ProductService) GetProduct(id uint) (*models.Product, error) {
	var product models.Product
	query := s.db.Preload("Category").Preload("Owner").
		Preload("Auctions").
		Preload("Bids", func(db *gorm.DB) *gorm.DB {
			return db.Order("amount DESC, created_at ASC")
		}).
		Preload("Bids.User")

	if err := query.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &product, nil
}

func (s *ProductService) SearchProducts(params ProductSearchParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{}).Preload("Category")

	if params.CategoryID != nil {
		query = query.Where("category_id = ?", *params.CategoryID)
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name", "starting_price", "status"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

func (s *ProductService) UpdateProduct(id uint, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if product.Status.IsTerminal() {
		return nil, errors.New("cannot update a settled product")
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.StartingPrice != nil {
		if !req.StartingPrice.IsPositive() {
			return nil, errors.New("starting price must be positive")
		}
		updates["starting_price"] = *req.StartingPrice
	}
	if req.CategoryID != 0 {
		updates["category_id"] = req.CategoryID
	}
	if req.ImageURLs != nil {
		updates["image_urls"] = pq.StringArray(req.ImageURLs)
	}

	if err := s.db.Model(&product).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.db.Preload("Category").First(&product, id)

	return &product, nil
}

func (s *ProductService) DeleteProduct(id uint) error {
	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("product not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	// A product referenced by an unfinished auction stays put.
	var activeAuctions int64
	if err := s.db.Model(&models.Auction{}).
		Where("product_id = ? AND status <> ?", id, models.AuctionStatusCompleted).
		Count(&activeAuctions).Error; err != nil {
		return fmt.Errorf("failed to check auctions: %w", err)
	}
	if activeAuctions > 0 {
		return errors.New("cannot delete product with an active auction")
	}

	if err := s.db.Delete(&product).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return nil
}

// GetProductStatusDetails returns products grouped by sale status, the shape
// the admin dashboard renders.
func (s *ProductService) GetProductStatusDetails() ([]ProductStatusGroup, error) {
	statuses := []models.ProductStatus{
		models.ProductStatusSold,
		models.ProductStatusUnsold,
		models.ProductStatusProcessing,
		models.ProductStatusPending,
	}

	groups := make([]ProductStatusGroup, 0, len(statuses))
	for _, status := range statuses {
		var products []models.Product
		if err := s.db.Where("status = ?", status).Find(&products).Error; err != nil {
			return nil, fmt.Errorf("failed to fetch %s products: %w", status, err)
		}
		groups = append(groups, ProductStatusGroup{Status: status, Products: products})
	}

	return groups, nil
}
