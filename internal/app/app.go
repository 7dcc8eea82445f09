package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/dealtracker/config"
	"github.com/guttosm/dealtracker/internal/api"
	"github.com/guttosm/dealtracker/internal/middleware"
	"github.com/guttosm/dealtracker/internal/service"
	"github.com/guttosm/dealtracker/internal/storage"
)

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Connects to PostgreSQL using InitPostgres().
//   - Initializes the repository layer (prices, users, wishlist, view history).
//   - Builds the services and the HTTP handler on top of them.
//   - Configures the Gin router with all API routes.
//   - Registers health and readiness probes.
//   - Provides a cleanup function to close resources (e.g., DB connection).
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp() (*gin.Engine, func(), error) {
	cfg := config.AppConfig

	// indirection for unit testing
	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	timeout := cfg.Store.QueryTimeout
	pricesRepo := storage.NewPricesRepository(db, timeout)
	usersRepo := storage.NewUsersRepository(db, timeout)
	wishlistRepo := storage.NewWishlistRepository(db, timeout)
	viewsRepo := storage.NewViewHistoryRepository(db, timeout)

	pricing := service.NewPricingService(pricesRepo, service.HistoryOptions{
		DefaultDays:       cfg.History.DefaultDays,
		MaxDays:           cfg.History.MaxDays,
		ExcludedPlatforms: cfg.History.ExcludedPlatforms,
	})
	users := service.NewUserService(usersRepo)
	wishlist := service.NewWishlistService(wishlistRepo, pricing)
	views := service.NewViewHistoryService(viewsRepo, pricing)

	if cfg.Server.RateLimitPerMinute > 0 {
		middleware.SetRateLimit(cfg.Server.RateLimitPerMinute)
	}

	handler := api.NewHandler(pricing, users, wishlist, views)
	router := api.NewRouter(handler)

	healthHandler := api.NewHealthHandler(db.PingContext)
	healthHandler.Register(router)

	cleanup := func() {
		_ = db.Close()
	}

	return router, cleanup, nil
}
