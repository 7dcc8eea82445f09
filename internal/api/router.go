package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/dealtracker/internal/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// requestTimeout bounds every request context; store calls add their own, shorter bound.
const requestTimeout = 10 * time.Second

// NewRouter creates a Gin engine with routes configured.
// It receives a Handler instance with all business logic already injected.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, ErrorHandler, RateLimiter).
//   - Adds request timeout handling (10 seconds).
//   - Mounts Swagger docs (/swagger/*any).
//   - Configures the price, history, user, wishlist and view history routes.
//
// Parameters:
//   - handler (*Handler): The handler whose methods serve the routes.
//
// Returns:
//   - *gin.Engine: The router, ready to be wrapped by an http.Server.
//
// Note:
//   - Health and readiness endpoints (/healthz, /readyz) are registered in app.InitializeApp().
func NewRouter(handler *Handler) *gin.Engine {
	router := gin.New()

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		middleware.RateLimiter(),
	)

	// ─── Timeout ──────────────────────────────────
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	// ─── Swagger ──────────────────────────────────
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Browsers ask for it on every page load.
	router.GET("/favicon.ico", func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNoContent)
	})

	// ─── Prices ───────────────────────────────────
	router.GET("/price/:productId", handler.GetCurrentPrices)
	router.GET("/history/:productId", handler.GetHistory)

	// ─── Users ────────────────────────────────────
	users := router.Group("/user")
	{
		users.POST("/register", handler.RegisterUser)
		users.POST("/login", handler.LoginUser)
		users.GET("/:uid", handler.GetUser)
		users.PUT("/:uid", handler.UpdateUser)
		users.DELETE("/:uid", handler.DeleteUser)
	}

	// ─── Wishlist ─────────────────────────────────
	wishlist := router.Group("/wishlist")
	{
		wishlist.GET("", handler.GetWishlist)
		wishlist.POST("", handler.UpsertWishlistItem)
		wishlist.DELETE("", handler.RemoveWishlistItem)
		wishlist.GET("/alerts", handler.GetWishlistAlerts)
	}

	// ─── View history ─────────────────────────────
	views := router.Group("/view-history")
	{
		views.GET("/:uid", handler.GetViewHistory)
		views.POST("", handler.RecordView)
		views.DELETE("/user/:uid", handler.ClearViewHistory)
		views.DELETE("/:hid", handler.DeleteViewRecord)
	}

	return router
}
