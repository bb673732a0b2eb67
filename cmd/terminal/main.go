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
	"github.com/rs/zerolog"
	"github.com/sangkips/investify-pos/internal/application/service"
	"github.com/sangkips/investify-pos/internal/config"
	"github.com/sangkips/investify-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/investify-pos/internal/domain/repository"
	"github.com/sangkips/investify-pos/internal/infrastructure/backend"
	"github.com/sangkips/investify-pos/internal/infrastructure/database"
	"github.com/sangkips/investify-pos/internal/infrastructure/repository"
	"github.com/sangkips/investify-pos/internal/metrics"
	"github.com/sangkips/investify-pos/internal/presentation/http/handler"
	"github.com/sangkips/investify-pos/internal/presentation/http/routes"
	"github.com/sangkips/investify-pos/pkg/logger"
	"github.com/sangkips/investify-pos/pkg/printer"
	"github.com/sangkips/investify-pos/pkg/utils"
)

const (
	shutdownTimeout        = 15 * time.Second
	idempotencyCleanupTick = time.Hour
)

func main() {
	cfg := config.Load()

	log := logger.New(logger.Options{
		ServiceName: cfg.App.Name,
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
	})

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	client, err := backend.NewClient(ctx, backend.Config{
		BaseURL:      cfg.Backend.BaseURL,
		Token:        cfg.Backend.APIToken,
		ClientID:     cfg.Backend.ClientID,
		ClientSecret: cfg.Backend.ClientSecret,
		TokenURL:     cfg.Backend.TokenURL,
		Scopes:       cfg.Backend.Scopes,
		Timeout:      cfg.Backend.Timeout,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure backend client")
	}

	catalog := backend.NewCatalogService(client)
	sales := backend.NewSaleService(client)
	journal := repository.NewPendingSaleRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	checkoutMetrics := metrics.NewCheckoutMetrics()

	thermalPrinter := newPrinter(cfg.Printer, log)
	defer thermalPrinter.Close()

	header := entity.ReceiptHeader{
		StoreName: cfg.Terminal.StoreName,
		Branch:    cfg.Terminal.BranchID,
		Address:   cfg.Terminal.StoreAddress,
		Phone:     cfg.Terminal.StorePhone,
		TaxID:     cfg.Terminal.TaxID,
	}
	printerService := service.NewPrinterService(thermalPrinter, sales, service.PrinterOptions{
		Mode:        cfg.Printer.Mode,
		PrinterType: cfg.Printer.Type,
		PaperWidth:  cfg.Printer.PaperWidth,
		Header:      header,
	}, log)

	sequencer := service.NewSubmissionSequencer(service.SequencerDeps{
		Catalog:  catalog,
		Sales:    sales,
		Payments: backend.NewPaymentService(client),
		Journal:  journal,
		Receipts: printerService,
		Header:   header,
		Metrics:  checkoutMetrics,
	}, log)

	checkoutService := service.NewCheckoutService(service.CheckoutDeps{
		Catalog:   catalog,
		Customers: backend.NewCustomerService(client),
		Discounts: backend.NewDiscountService(client),
		Sequencer: sequencer,
		Journal:   journal,
		Metrics:   checkoutMetrics,
	}, service.CheckoutConfig{
		Branch:    cfg.Terminal.BranchID,
		BannerTTL: cfg.Terminal.BannerTTL,
		IdleTTL:   cfg.Terminal.SessionIdle,
	}, log)

	go checkoutService.RunSweeper(ctx, cfg.Terminal.SweepInterval)
	go cleanupIdempotencyKeys(ctx, idempotencyRepo, log)

	rateLimiter := routes.NewRateLimiter(cfg.RateLimit)
	defer rateLimiter.Stop()

	handlers := &routes.Handlers{
		Health:      handler.NewHealthHandler(cfg.App.Name, func() error { return database.Ping(db) }, checkoutService, printerService),
		Checkout:    handler.NewCheckoutHandler(checkoutService),
		PendingSale: handler.NewPendingSaleHandler(service.NewPendingSaleService(journal)),
		Printer:     handler.NewPrinterHandler(printerService),
	}

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Issuer),
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		Log:             log,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8081"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", port).Str("env", cfg.App.Env).Msg("starting checkout terminal")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// close sessions first so open event streams end and the server can drain
	checkoutService.Shutdown(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}

func newPrinter(cfg config.PrinterConfig, log zerolog.Logger) printer.Printer {
	if cfg.Mode != service.PrintModeLocal {
		return printer.NewNullPrinter()
	}
	p, err := printer.New(cfg.Type, cfg.USBPath, cfg.Address)
	if err != nil {
		log.Warn().Err(err).Str("type", cfg.Type).Msg("failed to initialize printer, receipts will not print")
		return printer.NewNullPrinter()
	}
	return p
}

func cleanupIdempotencyKeys(ctx context.Context, repo domainRepo.IdempotencyRepository, log zerolog.Logger) {
	ticker := time.NewTicker(idempotencyCleanupTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.DeleteExpired(ctx)
			if err != nil {
				log.Error().Err(err).Msg("idempotency key cleanup failed")
				continue
			}
			if n > 0 {
				log.Debug().Int64("keys", n).Msg("expired idempotency keys removed")
			}
		}
	}
}
