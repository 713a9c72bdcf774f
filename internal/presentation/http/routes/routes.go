package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-billing-api/internal/application/service"
	"github.com/sangkips/pos-billing-api/internal/config"
	"github.com/sangkips/pos-billing-api/internal/presentation/http/handler"
	"github.com/sangkips/pos-billing-api/internal/presentation/http/middleware"
	"github.com/sangkips/pos-billing-api/pkg/metrics"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth    *handler.AuthHandler
	Product *handler.ProductHandler
	Bill    *handler.BillHandler
	History *handler.HistoryHandler
	Receipt *handler.ReceiptHandler
	Printer *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	AuthService *service.AuthService
	Cfg         *config.Config
	RateLimiter *middleware.DeviceRateLimiter
	// FilesDir is served under /files when receipts are stored locally.
	FilesDir string
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()
	secure := deps.Cfg.App.Env == "production"

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))
	router.Use(middleware.DeviceMiddleware(secure))
	router.Use(middleware.LoggerMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	if deps.FilesDir != "" {
		router.Static("/files", deps.FilesDir)
	}

	api := router.Group("/api")
	if deps.RateLimiter != nil {
		api.Use(deps.RateLimiter.Middleware())
	}
	{
		// Public routes (device identity only)
		registerPublicRoutes(api, h, deps)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(deps.AuthService))
		registerProtectedRoutes(protected, h)
	}

	return router
}

func registerPublicRoutes(rg *gin.RouterGroup, h *Handlers, deps *Deps) {
	auth := rg.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/logout", h.Auth.Logout)
	}
	rg.GET("/session", middleware.OptionalAuthMiddleware(deps.AuthService), h.Auth.Session)

	rg.GET("/products", h.Product.List)
	rg.POST("/products", h.Product.Create)

	rg.POST("/bills", h.Bill.Create)
	rg.GET("/bills/:deviceId", h.Bill.ListByDevice)

	receipts := rg.Group("/receipts/:id")
	{
		receipts.GET("", h.Receipt.Summary)
		receipts.GET("/print", h.Receipt.Print)
		receipts.GET("/pdf", h.Receipt.DownloadPDF)
		receipts.POST("/pdf", h.Receipt.Regenerate)
		receipts.POST("/thermal", h.Receipt.Thermal)
	}
}

func registerProtectedRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.DELETE("/products/:id", h.Product.Delete)

	history := rg.Group("/history")
	{
		history.GET("", h.History.List)
		history.GET("/export", h.History.Export)
	}

	printer := rg.Group("/printer")
	{
		printer.GET("/status", h.Printer.GetStatus)
		printer.POST("/test", h.Printer.TestPrint)
		printer.POST("/print", h.Printer.PrintReceipt)
	}
}
