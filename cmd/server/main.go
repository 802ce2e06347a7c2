package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/racional/portfolio-ledger/internal/api"
	"github.com/racional/portfolio-ledger/internal/config"
	"github.com/racional/portfolio-ledger/internal/database"
	"github.com/racional/portfolio-ledger/internal/repository"
	"github.com/racional/portfolio-ledger/internal/service"
	"github.com/robfig/cron/v3"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Apply schema migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Create repositories
	portfolioRepo := repository.NewPortfolioRepository(db)
	positionRepo := repository.NewPositionRepository(db)
	movementRepo := repository.NewCashMovementRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)
	stockRepo := repository.NewStockRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Create services
	systemService := service.NewSystemService(db)
	userService := service.NewUserService(userRepo)
	stockService := service.NewStockService(stockRepo)
	portfolioService := service.NewPortfolioService(
		db,
		portfolioRepo,
		positionRepo,
		movementRepo,
		orderRepo,
		snapshotRepo,
		userRepo,
	)
	movementService := service.NewCashMovementService(
		db,
		portfolioRepo,
		movementRepo,
		snapshotRepo,
	)
	orderService := service.NewOrderService(
		db,
		portfolioRepo,
		positionRepo,
		orderRepo,
		snapshotRepo,
		stockRepo,
	)
	positionService := service.NewPositionService(db, portfolioRepo, positionRepo)
	snapshotService := service.NewSnapshotService(db, portfolioRepo, snapshotRepo)

	// Seed demo data if requested
	if cfg.Seed.DemoData {
		if err := service.SeedDemoData(context.Background(), userService, portfolioService, userRepo); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
	}

	// Schedule the daily snapshot sweep
	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.Snapshot.CronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if err := snapshotService.CaptureAll(ctx, time.Now()); err != nil {
			log.Printf("Snapshot sweep failed: %v", err)
			return
		}
		log.Println("Snapshot sweep completed")
	})
	if err != nil {
		log.Fatalf("Failed to schedule snapshot sweep (%q): %v", cfg.Snapshot.CronSpec, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create router
	router := api.NewRouter(api.Services{
		System:       systemService,
		User:         userService,
		Stock:        stockService,
		Portfolio:    portfolioService,
		CashMovement: movementService,
		Order:        orderService,
		Position:     positionService,
		Snapshot:     snapshotService,
	}, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
