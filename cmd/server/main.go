package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging

	"bolso_aberto/internal/api"    // Custom package for API handlers
	"bolso_aberto/internal/config" // Custom package for configuration
	"bolso_aberto/internal/db"     // Custom package for the database

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Connect to the database
	conn, err := db.Connect(cfg.DSN())
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin with every route wired
	r := api.NewRouter(conn, redisClient, cfg)

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	log.Println("Server running on " + cfg.AppPort) // Log server start
	if err := r.Run(":" + cfg.AppPort); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}
