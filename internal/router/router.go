// internal/router/router.go
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Aaisha011/E-Auction/internal/config"
	"github.com/Aaisha011/E-Auction/internal/handlers"
	"github.com/Aaisha011/E-Auction/internal/middleware"
	"github.com/Aaisha011/E-Auction/internal/repository"
	"github.com/Aaisha011/E-Auction/internal/services"
	"github.com/Aaisha011/E-Auction/internal/utils"
)

// Initialize wires services, handlers, and routes onto a gin engine. The
// returned sweeper is started by the caller so it shares the process
// lifecycle with the HTTP server.
func Initialize(db *gorm.DB, cfg *config.Config) (*gin.Engine, *services.Sweeper) {
	store := repository.NewGormStore(db)

	// Initialize services
	notificationService := services.NewNotificationService(cfg)
	storageService, _ := services.NewStorageService(cfg)

	authService := services.NewAuthService(db, cfg)
	userService := services.NewUserService(db)
	categoryService := services.NewCategoryService(db)
	productService := services.NewProductService(db)
	auctionService := services.NewAuctionService(store, notificationService)
	bidService := services.NewBidService(store)
	chartService := services.NewChartService(db)
	paymentService := services.NewPaymentService(db, cfg)

	sweepInterval := time.Duration(cfg.Sweeper.IntervalSeconds) * time.Second
	sweeper := services.NewSweeper(store, auctionService, sweepInterval)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, storageService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	productHandler := handlers.NewProductHandler(productService, storageService)
	auctionHandler := handlers.NewAuctionHandler(auctionService, sweeper)
	bidHandler := handlers.NewBidHandler(bidService)
	chartHandler := handlers.NewChartHandler(chartService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg))
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// User routes
		users := v1.Group("/users")
		users.Use(middleware.AuthRequired())
		{
			users.GET("", middleware.AdminRequired(), userHandler.GetUsers)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", middleware.AdminRequired(), userHandler.DeleteUser)
			users.POST("/upload-avatar", userHandler.UploadAvatar)
		}

		// Category routes
		categories := v1.Group("/categories")
		{
			categories.GET("", categoryHandler.GetCategories)
			categories.GET("/:id", categoryHandler.GetCategory)

			admin := categories.Group("")
			admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
			{
				admin.POST("", categoryHandler.CreateCategory)
				admin.PUT("/:id", categoryHandler.UpdateCategory)
				admin.DELETE("/:id", categoryHandler.DeleteCategory)
			}
		}

		// Product routes
		products := v1.Group("/products")
		{
			products.GET("", middleware.OptionalAuth(), productHandler.GetProducts)
			products.GET("/status-details", middleware.AuthRequired(), middleware.AdminRequired(), productHandler.GetProductStatusDetails)
			products.GET("/:id", middleware.OptionalAuth(), productHandler.GetProduct)

			admin := products.Group("")
			admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
			{
				admin.POST("", productHandler.CreateProduct)
				admin.PUT("/:id", productHandler.UpdateProduct)
				admin.DELETE("/:id", productHandler.DeleteProduct)
				admin.POST("/upload-images", productHandler.UploadImages)
			}
		}

		// Auction routes
		auctions := v1.Group("/auctions")
		{
			auctions.GET("", auctionHandler.GetAuctions)
			auctions.GET("/status-details", middleware.AuthRequired(), middleware.AdminRequired(), auctionHandler.GetStatusDetails)
			auctions.GET("/:id", auctionHandler.GetAuction)
			auctions.GET("/:id/result", auctionHandler.GetSettlementResult)
			auctions.GET("/:id/bids", bidHandler.GetBids)
			auctions.GET("/:id/bids/highest", bidHandler.GetHighestBid)

			auctions.POST("/:id/bids", middleware.AuthRequired(), middleware.BidRateLimit(), bidHandler.PlaceBid)

			admin := auctions.Group("")
			admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
			{
				admin.POST("", auctionHandler.CreateAuction)
				admin.DELETE("/:id", auctionHandler.DeleteAuction)
				admin.POST("/:id/settle", auctionHandler.SettleAuction)
				admin.POST("/sweep", auctionHandler.SweepNow)
			}
		}

		// Chart routes
		charts := v1.Group("/charts")
		charts.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			charts.GET("/dashboard", chartHandler.GetDashboardStats)
			charts.GET("/auctions", chartHandler.GetAuctionStatusCounts)
			charts.GET("/products", chartHandler.GetProductStatusCounts)
			charts.GET("/monthly-sales", chartHandler.GetMonthlySales)
		}

		// Payment routes
		payments := v1.Group("/payments")
		payments.Use(middleware.AuthRequired())
		{
			payments.POST("/intent", paymentHandler.Checkout)
			payments.POST("/confirm", paymentHandler.ConfirmPayment)
			payments.GET("/transactions", paymentHandler.GetTransactions)
		}
	}

	return r, sweeper
}
