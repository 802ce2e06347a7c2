package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/racional/portfolio-ledger/internal/api/handlers"
	custommiddleware "github.com/racional/portfolio-ledger/internal/api/middleware"
	"github.com/racional/portfolio-ledger/internal/config"
	"github.com/racional/portfolio-ledger/internal/service"
)

// Services bundles the service dependencies the router wires into handlers.
type Services struct {
	System       *service.SystemService
	User         *service.UserService
	Stock        *service.StockService
	Portfolio    *service.PortfolioService
	CashMovement *service.CashMovementService
	Order        *service.OrderService
	Position     *service.PositionService
	Snapshot     *service.SnapshotService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svcs Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svcs.System, svcs.Snapshot)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)

			// Internal: on-demand snapshot sweep
			r.Group(func(r chi.Router) {
				r.Use(custommiddleware.APIKeyMiddleware)
				r.Post("/snapshots", systemHandler.CaptureSnapshots)
			})
		})

		r.Route("/user", func(r chi.Router) {
			userHandler := handlers.NewUserHandler(svcs.User, svcs.Portfolio)
			r.Post("/", userHandler.Create)
			r.Get("/", userHandler.List)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", userHandler.Get)
				r.Get("/portfolios", userHandler.Portfolios)
			})
		})

		r.Route("/stock", func(r chi.Router) {
			stockHandler := handlers.NewStockHandler(svcs.Stock)
			r.Post("/", stockHandler.Create)
			r.Get("/", stockHandler.List)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", stockHandler.Get)
			})
		})

		r.Route("/portfolio", func(r chi.Router) {
			portfolioHandler := handlers.NewPortfolioHandler(svcs.Portfolio)
			movementHandler := handlers.NewCashMovementHandler(svcs.CashMovement)
			orderHandler := handlers.NewOrderHandler(svcs.Order)
			positionHandler := handlers.NewPositionHandler(svcs.Position)
			snapshotHandler := handlers.NewSnapshotHandler(svcs.Snapshot)

			r.Post("/", portfolioHandler.Create)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", portfolioHandler.Get)
				r.Put("/info", portfolioHandler.UpdateInfo)
				r.Put("/totals", portfolioHandler.UpdateTotals)
				r.Get("/latest-actions", portfolioHandler.LatestActions)

				r.Post("/movements", movementHandler.Record)
				r.Get("/movements", movementHandler.List)

				r.Post("/orders", orderHandler.Place)
				r.Get("/orders", orderHandler.List)

				r.Get("/positions", positionHandler.List)
				r.Post("/positions/adjust", positionHandler.Adjust)

				r.Get("/snapshots", snapshotHandler.List)
			})
		})

		r.Route("/order", func(r chi.Router) {
			orderHandler := handlers.NewOrderHandler(svcs.Order)
			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", orderHandler.Get)
				r.Put("/status", orderHandler.UpdateStatus)
			})
		})
	})

	return r
}
