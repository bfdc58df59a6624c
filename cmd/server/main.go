package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/eventspace/hall-booking/internal/config"
	"github.com/eventspace/hall-booking/internal/database"
	"github.com/eventspace/hall-booking/internal/handler"
	"github.com/eventspace/hall-booking/internal/keepalive"
	"github.com/eventspace/hall-booking/internal/middleware"
	"github.com/eventspace/hall-booking/internal/queue"
	"github.com/eventspace/hall-booking/internal/repository"
	"github.com/eventspace/hall-booking/internal/router"
	queue_publisher "github.com/eventspace/hall-booking/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	// Redis backs the response cache and the rate limiter.  A nil client
	// (Redis unreachable) simply disables both.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; cache and rate limiting disabled")
	}

	events := handler.NewEventHandler(repository.NewEventRepo(db), queue_publisher.PublishBookingActivity)
	var auth *handler.AuthHandler
	if cfg.JWTSecret != "" {
		auth = handler.NewAuthHandler(repository.NewUserRepo(db), cfg.JWTSecret, cfg.AccessTTLMin, cfg.BcryptCost)
	}

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterRoutes(e, db, events, auth, cfg.JWTSecret)

	// Background booking log consumer; reconnects on its own.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	// Periodic self-ping for free-tier hosting (no-op when unset).
	keepalive.Start(cfg.KeepAliveURL)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err)
	}
}
