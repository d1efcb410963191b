package main

import (
	"context"
	"fmt"
	"log"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/GhOsCoDeR/electrify-ecom-hub-sub000/internal/cart"
	"github.com/GhOsCoDeR/electrify-ecom-hub-sub000/internal/checkout"
	"github.com/GhOsCoDeR/electrify-ecom-hub-sub000/internal/config"
	"github.com/GhOsCoDeR/electrify-ecom-hub-sub000/internal/http"
	"github.com/GhOsCoDeR/electrify-ecom-hub-sub000/internal/metrics"
	"github.com/GhOsCoDeR/electrify-ecom-hub-sub000/internal/repository"
	"github.com/GhOsCoDeR/electrify-ecom-hub-sub000/internal/status"
	"github.com/GhOsCoDeR/electrify-ecom-hub-sub000/pkg/auth"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx := context.Background()

	creds := &repository.Credentials{
		Host:              cfg.DBHost,
		Port:              cfg.DBPort,
		User:              cfg.DBUser,
		Password:          cfg.DBPassword,
		DBName:            cfg.DBName,
		MigrationsDirPath: cfg.MigrationsDir,
	}
	repo, err := repository.NewRepository(creds)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(creds); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	log.Printf("connected to postgres at %s:%d", cfg.DBHost, cfg.DBPort)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis connection failed: %v", err)
	}
	log.Printf("connected to redis at %s", cfg.RedisAddr)

	carts := cart.NewService(cart.NewRedisStore(redisClient))
	builder := checkout.NewBuilder(cfg.ShippingFee, cfg.TaxRate)
	pipeline := checkout.NewPipeline(repo, carts)

	sources := func(userID string) status.EventSource {
		// One consumer group per connection so every open view sees
		// every update.
		group := fmt.Sprintf("storefront-%s-%s", userID, uuid.NewString()[:8])
		return status.NewKafkaSource(cfg.KafkaBrokers, cfg.OrderStatusTopic, group)
	}

	authManager := auth.NewManager(cfg.JWTSecret, 24*time.Hour)
	serverMetrics := metrics.NewServerMetrics("api")

	router := http.NewRouter(http.RouterDeps{
		Auth:     authManager,
		Metrics:  serverMetrics,
		Cart:     http.NewCartHandler(carts, repo),
		Checkout: http.NewCheckoutHandler(carts, builder, pipeline),
		Orders:   http.NewOrdersHandler(repo, sources),
		Products: http.NewProductHandler(repo),
	})

	server := &nethttp.Server{
		Addr:              fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: cfg.RequestTimeout,
	}

	go func() {
		log.Printf("storefront listening on port %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != nethttp.ErrServerClosed {
			log.Fatalf("failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
	log.Println("server stopped")
}
