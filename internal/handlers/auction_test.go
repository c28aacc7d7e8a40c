// internal/handlers/auction_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/Aaisha011/E-Auction/internal/models"
	"github.com/Aaisha011/E-Auction/internal/repository"
	"github.com/Aaisha011/E-Auction/internal/services"
)

type AuctionHandlerTestSuite struct {
	suite.Suite
	store   *repository.MemoryStore
	router  *gin.Engine
	product *models.Product
	bidder  *models.User

	clockMu sync.Mutex
	now     time.Time
}

var handlerBase = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func (s *AuctionHandlerTestSuite) Now() time.Time {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()
	return s.now
}

func (s *AuctionHandlerTestSuite) SetClock(t time.Time) {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()
	s.now = t
}

func (s *AuctionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	s.store = repository.NewMemoryStore()
	s.now = handlerBase

	s.product = s.store.PutProduct(&models.Product{
		Name:          "Antique clock",
		Description:   "Brass mantel clock, running",
		StartingPrice: decimal.RequireFromString("100.00"),
		CategoryID:    1,
		Status:        models.ProductStatusPending,
	})
	s.bidder = s.store.PutUser(&models.User{
		Username: "bidder",
		Email:    "bidder@example.com",
		Role:     models.UserRoleUser,
	})

	auctionService := services.NewAuctionService(s.store, nil).WithClock(s.Now)
	bidService := services.NewBidService(s.store).WithClock(s.Now)
	sweeper := services.NewSweeper(s.store, auctionService, time.Minute).WithClock(s.Now)

	auctionHandler := NewAuctionHandler(auctionService, sweeper)
	bidHandler := NewBidHandler(bidService)

	// Auth middleware replaced with a fixed identity.
	asBidder := func(c *gin.Context) {
		c.Set("user_id", s.bidder.ID)
		c.Set("user_role", string(models.UserRoleUser))
		c.Next()
	}

	s.router = gin.New()
	v1 := s.router.Group("/v1")
	{
		v1.POST("/auctions", auctionHandler.CreateAuction)
		v1.GET("/auctions", auctionHandler.GetAuctions)
		v1.GET("/auctions/:id", auctionHandler.GetAuction)
		v1.GET("/auctions/:id/result", auctionHandler.GetSettlementResult)
		v1.POST("/auctions/:id/settle", auctionHandler.SettleAuction)
		v1.POST("/auctions/sweep", auctionHandler.SweepNow)
		v1.GET("/auctions/:id/bids", bidHandler.GetBids)
		v1.POST("/auctions/:id/bids", asBidder, bidHandler.PlaceBid)
	}
}

func (s *AuctionHandlerTestSuite) request(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *AuctionHandlerTestSuite) createAuction() uint {
	w := s.request("POST", "/v1/auctions", gin.H{
		"product_id":    s.product.ID,
		"auction_start": handlerBase.Add(time.Hour).Format(time.RFC3339),
		"auction_end":   handlerBase.Add(2 * time.Hour).Format(time.RFC3339),
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var response struct {
		Success bool `json:"success"`
		Data    struct {
			ID uint `json:"id"`
		} `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	s.Require().True(response.Success)
	s.Require().NotZero(response.Data.ID)
	return response.Data.ID
}

func (s *AuctionHandlerTestSuite) TestCreateAuction() {
	id := s.createAuction()

	w := s.request("GET", fmt.Sprintf("/v1/auctions/%d", id), nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)

	var response struct {
		Data struct {
			Auction struct {
				Status string `json:"status"`
			} `json:"auction"`
			Product struct {
				Status string `json:"status"`
			} `json:"product"`
		} `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(s.T(), "upcoming", response.Data.Auction.Status)
	assert.Equal(s.T(), "processing", response.Data.Product.Status)
}

func (s *AuctionHandlerTestSuite) TestCreateAuctionRejectsPastWindow() {
	w := s.request("POST", "/v1/auctions", gin.H{
		"product_id":    s.product.ID,
		"auction_start": handlerBase.Add(-2 * time.Hour).Format(time.RFC3339),
		"auction_end":   handlerBase.Add(-time.Hour).Format(time.RFC3339),
	})
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *AuctionHandlerTestSuite) TestGetAuctionsRejectsUnknownStatus() {
	w := s.request("GET", "/v1/auctions?status=bogus", nil)
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *AuctionHandlerTestSuite) TestGetMissingAuction() {
	w := s.request("GET", "/v1/auctions/42", nil)
	assert.Equal(s.T(), http.StatusNotFound, w.Code)
}

func (s *AuctionHandlerTestSuite) TestBidAndSettleFlow() {
	id := s.createAuction()

	// Bidding before the window opens is rejected.
	w := s.request("POST", fmt.Sprintf("/v1/auctions/%d/bids", id), gin.H{"amount": "150.00"})
	assert.Equal(s.T(), http.StatusConflict, w.Code)

	s.SetClock(handlerBase.Add(90 * time.Minute))
	w = s.request("POST", fmt.Sprintf("/v1/auctions/%d/bids", id), gin.H{"amount": "150.00"})
	assert.Equal(s.T(), http.StatusCreated, w.Code, w.Body.String())

	// A lower bid is rejected.
	w = s.request("POST", fmt.Sprintf("/v1/auctions/%d/bids", id), gin.H{"amount": "120.00"})
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)

	// The result endpoint refuses before settlement.
	w = s.request("GET", fmt.Sprintf("/v1/auctions/%d/result", id), nil)
	assert.Equal(s.T(), http.StatusConflict, w.Code)

	// Window closes; the sweep completes and settles.
	s.SetClock(handlerBase.Add(3 * time.Hour))
	w = s.request("POST", "/v1/auctions/sweep", nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)

	w = s.request("GET", fmt.Sprintf("/v1/auctions/%d/result", id), nil)
	assert.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())

	var response struct {
		Data struct {
			Unsold bool `json:"unsold"`
			Winner *struct {
				ID uint `json:"id"`
			} `json:"winner"`
			Product struct {
				Status string `json:"status"`
			} `json:"product"`
		} `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.False(s.T(), response.Data.Unsold)
	s.Require().NotNil(response.Data.Winner)
	assert.Equal(s.T(), s.bidder.ID, response.Data.Winner.ID)
	assert.Equal(s.T(), "sold", response.Data.Product.Status)
}

func (s *AuctionHandlerTestSuite) TestSettleMissingAuction() {
	w := s.request("POST", "/v1/auctions/42/settle", nil)
	assert.Equal(s.T(), http.StatusNotFound, w.Code)
}

func (s *AuctionHandlerTestSuite) TestManualSettleIsIdempotent() {
	id := s.createAuction()

	s.SetClock(handlerBase.Add(3 * time.Hour))
	first := s.request("POST", fmt.Sprintf("/v1/auctions/%d/settle", id), nil)
	assert.Equal(s.T(), http.StatusOK, first.Code)

	second := s.request("POST", fmt.Sprintf("/v1/auctions/%d/settle", id), nil)
	assert.Equal(s.T(), http.StatusOK, second.Code)
	assert.JSONEq(s.T(), first.Body.String(), second.Body.String())
}

func TestAuctionHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AuctionHandlerTestSuite))
}
