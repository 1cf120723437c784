package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nekogravitycat/hotel-booking-backend/internal/api"
	"github.com/nekogravitycat/hotel-booking-backend/internal/auth"
	"github.com/nekogravitycat/hotel-booking-backend/internal/availability"
	"github.com/nekogravitycat/hotel-booking-backend/internal/booking"
	"github.com/nekogravitycat/hotel-booking-backend/internal/hotelapi"
	"github.com/nekogravitycat/hotel-booking-backend/internal/workflow"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction       bool
	ProdOrigins        string
	JWTSecret          string
	HotelAPI           hotelapi.Config
	HotelLocation      *time.Location
	SessionTTL         time.Duration
	RateLimitPerMinute int
	Logger             *zap.Logger

	// BookingRepo stores receipts, usually booking.NewPgxRepository.
	BookingRepo booking.Repository
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router      *gin.Engine
	Registry    *workflow.Registry
	RateLimiter *api.RateLimiter
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	loc := cfg.HotelLocation
	if loc == nil {
		loc = time.UTC
	}

	// Init Components
	jwtManager := auth.NewJWTManager(cfg.JWTSecret)
	hotelClient := hotelapi.NewClient(cfg.HotelAPI, logger)
	rateLimiter := api.NewRateLimiter(cfg.RateLimitPerMinute, logger)

	// Booking Module
	bookingService := booking.NewService(cfg.BookingRepo, hotelClient, logger)

	// Workflow Sessions
	registry := workflow.NewRegistry(workflow.Config{
		Searcher: hotelClient,
		Bookings: bookingService,
		Today:    availability.TodayIn(loc),
		TTL:      cfg.SessionTTL,
		Logger:   logger,
	})

	// API Router Config
	routerParams := api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		Logger:         logger,
		RateLimiter:    rateLimiter,
		BookingService: bookingService,
		Registry:       registry,
		JWTManager:     jwtManager,
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:      router,
		Registry:    registry,
		RateLimiter: rateLimiter,
	}
}
