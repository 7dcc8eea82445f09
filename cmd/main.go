package main

//
//  @title           dealtracker API
//  @version         1.0
//  @description     Cross-platform product price tracking: current prices, daily history, users and wishlists.
//  @termsOfService  https://github.com/guttosm/dealtracker
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/dealtracker
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        prices
//  @tag.description Current prices and daily price history per product
//
//  @tag.name        users
//  @tag.description User registration, login and profile management
//
//  @tag.name        wishlist
//  @tag.description Tracked products and price alerts
//
//  @tag.name        view-history
//  @tag.description Recently viewed products per user
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guttosm/dealtracker/config"
	_ "github.com/guttosm/dealtracker/docs" // swagger docs
	"github.com/guttosm/dealtracker/internal/app"
	"github.com/guttosm/dealtracker/internal/ingestion"
	"github.com/guttosm/dealtracker/internal/logger"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown blocks until SIGINT or SIGTERM, then drains the server
// and runs cleanup.
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Error().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// runIngest loads every price file in dir.
func runIngest(ctx context.Context, cfg config.Config, dir string, parallel int, force bool) error {
	db, err := app.InitPostgres(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return ingestion.ProcessDirectory(ctx, dir, db, parallel, force)
}

// runMigrate applies pending schema migrations and exits.
func runMigrate(cfg config.Config) error {
	db, err := app.InitPostgres(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return app.RunMigrations(db)
}

// main is the entry point of the dealtracker application.
//
// Modes (selected via --mode flag):
//   - api:     Starts the REST API (prices, history, users, wishlist).
//   - ingest:  Loads every *_prices.csv file from --dir into the prices table.
//   - migrate: Applies the embedded schema migrations.
//
// Flags:
//   - --mode:     Execution mode. Default: "api".
//   - --dir:      Directory containing price files. Default: "./data/input".
//   - --parallel: Files processed concurrently (0 = auto, max 8).
//   - --force:    Reload files already recorded in ingestion_log.
//   - --port:     Port for the API server. Defaults to SERVER_PORT.
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	mode := flag.String("mode", "api", "Mode: api, ingest or migrate")
	dir := flag.String("dir", "./data/input", "Directory with *_prices.csv files")
	parallel := flag.Int("parallel", 0, "How many files to process concurrently (0=auto up to CPU, max 8)")
	force := flag.Bool("force", false, "Reload files even if already ingested (deletes their existing rows)")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	flag.Parse()

	switch *mode {
	case "ingest":
		logger.L().Info().Str("dir", *dir).Msg("running ingestion")

		ictx, stop := signalContext(ctx)
		defer stop()

		if err := runIngest(ictx, config.AppConfig, *dir, *parallel, *force); err != nil {
			logger.L().Fatal().Err(err).Msg("ingestion failed")
		}
		logger.L().Info().Msg("ingestion completed successfully")

	case "migrate":
		logger.L().Info().Msg("running migrations")
		if err := runMigrate(config.AppConfig); err != nil {
			logger.L().Fatal().Err(err).Msg("migrations failed")
		}
		logger.L().Info().Msg("migrations applied")

	case "api":
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(ctx, server, cleanup)

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
