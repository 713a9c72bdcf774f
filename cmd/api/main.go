package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-billing-api/internal/application/service"
	"github.com/sangkips/pos-billing-api/internal/config"
	"github.com/sangkips/pos-billing-api/internal/domain/repository"
	"github.com/sangkips/pos-billing-api/internal/infrastructure/cache"
	"github.com/sangkips/pos-billing-api/internal/infrastructure/database"
	"github.com/sangkips/pos-billing-api/internal/infrastructure/memory"
	infraRepo "github.com/sangkips/pos-billing-api/internal/infrastructure/repository"
	"github.com/sangkips/pos-billing-api/internal/infrastructure/storage"
	"github.com/sangkips/pos-billing-api/internal/presentation/http/handler"
	"github.com/sangkips/pos-billing-api/internal/presentation/http/middleware"
	"github.com/sangkips/pos-billing-api/internal/presentation/http/routes"
	"github.com/sangkips/pos-billing-api/pkg/logger"
	"github.com/sangkips/pos-billing-api/pkg/printer"
	"github.com/sangkips/pos-billing-api/pkg/receipt"
	"github.com/sangkips/pos-billing-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logFormat := cfg.Log.Format
	if logFormat == "" && cfg.App.Env == "production" {
		logFormat = "json"
	}
	log := logger.Setup(cfg.Log.Level, logFormat)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize repositories
	var (
		productRepo repository.ProductRepository
		billRepo    repository.BillRepository
	)
	switch cfg.Database.Driver {
	case "memory":
		store := memory.NewStore()
		productRepo = store.Products()
		billRepo = store.Bills()
		log.Warn("Using in-memory storage; bills are lost on restart")
	default:
		db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close(db)

		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		productRepo = infraRepo.NewProductRepository(db)
		billRepo = infraRepo.NewBillRepository(db)
	}

	// Product cache
	productCache, redisClient := cache.New(&cfg.Redis)
	if redisClient != nil {
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warnf("Redis unreachable, product cache disabled: %v", err)
			productCache = cache.NoopCache{}
		}
	}

	// Receipt storage
	uploader, err := storage.New(ctx, &cfg.Storage, cfg.App.BaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	if closer, ok := uploader.(interface{ Close() error }); ok {
		defer closer.Close()
	}
	var filesDir string
	if local, ok := uploader.(*storage.LocalUploader); ok {
		filesDir = local.Root()
	}
	log.WithField("provider", uploader.Provider()).Info("Receipt storage ready")

	// Receipt rendering
	loc := cfg.App.Location()
	fonts, err := receipt.NewFontSet(cfg.Receipt.FontPath)
	if err != nil {
		log.Fatalf("Failed to load receipt font: %v", err)
	}
	rasterizer := receipt.NewImageRasterizer(cfg.Receipt.SettleDelay, cfg.Receipt.PageWidthMM)
	rasterizer.Fonts = fonts
	generator := receipt.NewGenerator(rasterizer, receipt.TextLayout{Fonts: fonts})
	receiptService := service.NewReceiptService(
		billRepo,
		generator,
		receipt.NewHTMLRenderer(cfg.Receipt.PageWidthMM),
		uploader,
		service.ReceiptOptions{
			Header: receipt.Header{
				ShopName: cfg.Shop.Name,
				Tagline:  cfg.Shop.Tagline,
				Address:  cfg.Shop.Address,
				Phone:    cfg.Shop.Phone,
			},
			Symbol:        cfg.Shop.Symbol,
			Currency:      cfg.Shop.Currency,
			PayeeID:       cfg.Shop.UPIID,
			Disclaimer:    cfg.Shop.Disclaimer,
			Footer:        cfg.Shop.Footer,
			QRFixedAmount: cfg.Receipt.QRFixedAmount,
			Location:      loc,
		},
	)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.Warnf("Failed to initialize printer: %v", err)
		thermalPrinter = printer.NewNullPrinter()
	}

	// Initialize services
	jwtManager := utils.NewJWTManager(cfg.Session.Secret, cfg.Session.Timeout)
	authService := service.NewAuthService(service.Credentials{
		Username:     cfg.Auth.Username,
		Password:     cfg.Auth.Password,
		PasswordHash: cfg.Auth.PasswordHash,
		Role:         cfg.Auth.Role,
	}, jwtManager)
	productService := service.NewProductService(productRepo, productCache)
	billService := service.NewBillService(billRepo, receiptService, loc, cfg.Receipt.PDFOnCreate)
	exportService := service.NewExportService(billService)
	printerService := service.NewPrinterService(thermalPrinter, receiptService, cfg.Printer.CharWidth)

	// Initialize handlers
	secure := cfg.App.Env == "production"
	handlers := &routes.Handlers{
		Auth:    handler.NewAuthHandler(authService, secure),
		Product: handler.NewProductHandler(productService),
		Bill:    handler.NewBillHandler(billService),
		History: handler.NewHistoryHandler(billService, exportService),
		Receipt: handler.NewReceiptHandler(receiptService, printerService),
		Printer: handler.NewPrinterHandler(printerService),
	}

	rateLimiter := middleware.NewDeviceRateLimiter(
		middleware.RateLimiterConfigFor(cfg.RateLimit.Requests, cfg.RateLimit.Duration),
	)
	defer rateLimiter.Stop()

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		AuthService: authService,
		Cfg:         cfg,
		RateLimiter: rateLimiter,
		FilesDir:    filesDir,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{
			"port":     port,
			"env":      cfg.App.Env,
			"db":       cfg.Database.Driver,
			"timezone": loc.String(),
		}).Infof("Starting %s server", cfg.App.Name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}
}
