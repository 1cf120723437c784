package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/nekogravitycat/hotel-booking-backend/internal/app"
	"github.com/nekogravitycat/hotel-booking-backend/internal/booking"
	"github.com/nekogravitycat/hotel-booking-backend/internal/config"
	"github.com/nekogravitycat/hotel-booking-backend/internal/db"
	"github.com/nekogravitycat/hotel-booking-backend/internal/hotelapi"
	"github.com/nekogravitycat/hotel-booking-backend/internal/logger"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Init logger
	l, err := logger.New(cfg.IsProduction)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer l.Sync()
	zap.ReplaceGlobals(l)

	// Connect DB
	pool, err := db.NewPool(ctx, cfg.DBDSN, cfg.DBMaxConns)
	if err != nil {
		l.Fatal("failed to connect to db", zap.Error(err))
	}
	defer pool.Close()

	// Init components
	container := app.NewContainer(app.Config{
		IsProduction: cfg.IsProduction,
		ProdOrigins:  cfg.ProdOrigins,
		JWTSecret:    cfg.JWTSecret,
		HotelAPI: hotelapi.Config{
			BaseURL: cfg.HotelAPIBaseURL,
			APIKey:  cfg.HotelAPIKey,
			Timeout: cfg.HotelAPITimeout,
		},
		HotelLocation:      cfg.HotelLocation,
		SessionTTL:         cfg.SessionTTL,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Logger:             l,
		BookingRepo:        booking.NewPgxRepository(pool),
	})

	// Expire idle booking sessions and rate limiters in the background
	go container.Registry.RunSweeper(ctx, time.Minute)
	go container.RateLimiter.RunEvictor(ctx, time.Minute)

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: container.Router,
	}

	// Run server in separate goroutine
	go func() {
		l.Info("server running", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	l.Info("shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		l.Warn("server forced to shutdown", zap.Error(err))
	}

	l.Info("server exited gracefully")
}
