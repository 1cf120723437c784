package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nekogravitycat/hotel-booking-backend/internal/auth"
	"github.com/nekogravitycat/hotel-booking-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/hotel-booking-backend/internal/booking/http"
	"github.com/nekogravitycat/hotel-booking-backend/internal/logger"
	"github.com/nekogravitycat/hotel-booking-backend/internal/workflow"
	workflowHttp "github.com/nekogravitycat/hotel-booking-backend/internal/workflow/http"
)

// Config holds the services the router exposes.
type Config struct {
	IsProduction   bool
	ProdOrigins    string
	Logger         *zap.Logger
	RateLimiter    *RateLimiter
	BookingService booking.Service
	Registry       *workflow.Registry
	JWTManager     *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information through zap.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(logger.GinMiddleware(cfg.Logger), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{
		"http://localhost:5173", // Vite dev server
	}
	if cfg.IsProduction {
		config.AllowOrigins = splitOrigins(cfg.ProdOrigins)
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(config))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// optionalAuthMiddleware: Anonymous visitors may browse rooms.
	optionalAuthMiddleware := auth.OptionalAuth(cfg.JWTManager)
	// rateLimitMiddleware: Calls reaching the hotel API are limited per client IP.
	rateLimitMiddleware := cfg.RateLimiter.Middleware()

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	sessionHandler := workflowHttp.NewHandler(cfg.Registry)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		workflowHttp.RegisterRoutes(v1, sessionHandler, optionalAuthMiddleware, rateLimitMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware)
	}

	return r
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
