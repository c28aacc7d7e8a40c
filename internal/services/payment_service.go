// internal/services/payment_service.go
package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"gorm.io/gorm"

	"github.com/Aaisha011/E-Auction/internal/config"
	"github.com/Aaisha011/E-Auction/internal/models"
	"github.com/Aaisha011/E-Auction/internal/utils"
)

// Stripe amounts are integer cents.
var decimalHundred = decimal.NewFromInt(100)

// PaymentService creates Stripe payment intents for won products and tracks
// them as Transaction rows. Capture and webhooks live on the Stripe side.
type PaymentService struct {
	db     *gorm.DB
	config *config.Config
}

type CheckoutRequest struct {
	AuctionID uint   `json:"auction_id" validate:"required"`
	Currency  string `json:"currency,omitempty"`
}

type CheckoutResponse struct {
	TransactionID uint   `json:"transaction_id"`
	ClientSecret  string `json:"client_secret"`
	PaymentID     string `json:"payment_id"`
	Status        string `json:"status"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id" validate:"required"`
	TransactionID   uint   `json:"transaction_id" validate:"required"`
}

func NewPaymentService(db *gorm.DB, config *config.Config) *PaymentService {
	stripe.Key = config.Payment.StripeSecretKey

	return &PaymentService{
		db:     db,
		config: config,
	}
}

// Checkout creates a payment intent for the product the caller won. Only the
// recorded winner of a settled auction may pay, and only once.
func (s *PaymentService) Checkout(userID uint, req *CheckoutRequest) (*CheckoutResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}

	var auction models.Auction
	if err := s.db.Preload("Product").First(&auction, req.AuctionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("auction not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	product := auction.Product
	if product.Status != models.ProductStatusSold || product.SoldTo == nil || product.SoldPrice == nil {
		return nil, errors.New("auction has no sold product to pay for")
	}
	if *product.SoldTo != userID {
		return nil, errors.New("only the winning bidder can pay for this product")
	}

	var existing models.Transaction
	err := s.db.Where("auction_id = ? AND status <> ?", auction.ID, models.TransactionStatusFailed).
		First(&existing).Error
	if err == nil {
		return nil, errors.New("payment already initiated for this auction")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	amountInCents := product.SoldPrice.Mul(decimalHundred).IntPart()

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountInCents),
		Currency: stripe.String(currency),
	}
	params.AddMetadata("auction_id", strconv.FormatUint(uint64(auction.ID), 10))
	params.AddMetadata("product_id", strconv.FormatUint(uint64(product.ID), 10))
	params.AddMetadata("buyer_id", strconv.FormatUint(uint64(userID), 10))

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	transaction := &models.Transaction{
		BuyerID:          userID,
		ProductID:        product.ID,
		AuctionID:        auction.ID,
		Amount:           *product.SoldPrice,
		PaymentReference: pi.ID,
		Status:           models.TransactionStatusPending,
	}
	if err := s.db.Create(transaction).Error; err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	return &CheckoutResponse{
		TransactionID: transaction.ID,
		ClientSecret:  pi.ClientSecret,
		PaymentID:     pi.ID,
		Status:        string(pi.Status),
	}, nil
}

// ConfirmPayment reconciles a transaction against the Stripe intent status.
func (s *PaymentService) ConfirmPayment(userID uint, req *ConfirmPaymentRequest) (*models.Transaction, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var transaction models.Transaction
	if err := s.db.First(&transaction, req.TransactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("transaction not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if transaction.BuyerID != userID {
		return nil, errors.New("transaction belongs to another user")
	}
	if transaction.PaymentReference != req.PaymentIntentID {
		return nil, errors.New("payment intent does not match transaction")
	}
	if transaction.Status == models.TransactionStatusCompleted {
		return &transaction, nil
	}

	pi, err := paymentintent.Get(req.PaymentIntentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment intent: %w", err)
	}

	now := time.Now()
	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		transaction.Status = models.TransactionStatusCompleted
		transaction.ProcessedAt = &now
	case stripe.PaymentIntentStatusCanceled:
		transaction.Status = models.TransactionStatusFailed
		transaction.ProcessedAt = &now
	default:
		return nil, fmt.Errorf("payment not finished, current status: %s", pi.Status)
	}

	if err := s.db.Save(&transaction).Error; err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	return &transaction, nil
}

// GetTransactions lists the caller's transactions, newest first.
func (s *PaymentService) GetTransactions(userID uint, params utils.PaginationParams) ([]models.Transaction, int64, error) {
	query := s.db.Model(&models.Transaction{}).
		Preload("Product").
		Where("buyer_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	allowedSortFields := []string{"created_at", "amount", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var transactions []models.Transaction
	if err := query.Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	return transactions, total, nil
}
