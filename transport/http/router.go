package http

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/Kurooo23/AsiqTIX/internal/config"
	"github.com/Kurooo23/AsiqTIX/ports"
	"github.com/Kurooo23/AsiqTIX/service"
)

// RouterDeps bundles everything the router mounts.
type RouterDeps struct {
	Auth      *service.AuthService
	Prices    *service.PriceService
	Admins    ports.AdminRegistry
	Events    ports.EventRepository
	Txs       ports.TransactionRepository
	Publisher ports.EventPublisher
	Files     ports.FileStore

	// Redis is optional; without it the rate limiter is disabled.
	Redis *redis.Client

	// StaticDir, when set, is served under the upload base URL.
	StaticDir string

	Cfg config.Config
}

// SetupRouter builds the gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	router := gin.Default()

	if len(deps.Cfg.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.Cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", walletHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.Use(RateLimit(deps.Cfg.RateLimit, deps.Redis))

	authHandlers := NewAuthHandlers(deps.Auth, deps.Cfg.Env)
	adminHandlers := NewAdminHandlers(deps.Admins)
	eventHandlers := NewEventHandlers(deps.Events, deps.Files, deps.Cfg.MaxUploadSize)
	txHandlers := NewTxHandlers(deps.Txs, deps.Publisher)
	priceHandlers := NewPriceHandlers(deps.Prices)

	if deps.StaticDir != "" {
		router.Static(deps.Cfg.UploadBaseURL, deps.StaticDir)
	}

	api := router.Group("/api")
	{
		api.GET("/health", authHandlers.Health)
		api.GET("/nonce", authHandlers.Nonce)
		api.POST("/verify", authHandlers.Verify)
		api.GET("/price/pol", priceHandlers.Pol)
	}

	// Public reads with optional (possibly header-asserted) identity. The
	// header path only widens listing visibility; it never grants writes.
	public := router.Group("/api", OptionalIdentity(deps.Auth))
	{
		public.GET("/events", eventHandlers.List)
		public.GET("/events/:id", eventHandlers.Get)
	}

	// Verified sessions.
	authed := router.Group("/api", RequireAuth(deps.Auth))
	{
		authed.GET("/me", authHandlers.Me)
		authed.GET("/transactions", txHandlers.List)
		authed.POST("/topup", txHandlers.Topup)
		authed.POST("/purchase", txHandlers.Purchase)
	}

	if deps.Cfg.NFTContract != "" {
		mintHandlers, err := NewMintHandlers(deps.Cfg.NFTContract, deps.Cfg.FixedPriceWei)
		if err != nil {
			log.Printf("mint routes disabled: %v", err)
		} else {
			api.GET("/mint/price", mintHandlers.Price)
			authed.POST("/mint/prepare", mintHandlers.Prepare)
		}
	}

	// Administrator operations: verified sessions with the admin role only.
	admin := router.Group("/api", RequireAdmin(deps.Auth))
	{
		admin.GET("/admins", adminHandlers.List)
		admin.POST("/admins", adminHandlers.Add)
		admin.DELETE("/admins/:address", adminHandlers.Remove)

		admin.POST("/events", eventHandlers.Create)
		admin.PUT("/events/:id", eventHandlers.Update)
		admin.DELETE("/events/:id", eventHandlers.Delete)
		admin.PATCH("/events/:id/list", eventHandlers.SetListed)

		admin.POST("/upload", eventHandlers.Upload)
	}

	return router
}
