package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/mswatii/cs2-vault/internal/api"
	"github.com/mswatii/cs2-vault/internal/config"
	"github.com/mswatii/cs2-vault/internal/database"
	"github.com/mswatii/cs2-vault/internal/floatsvc"
	"github.com/mswatii/cs2-vault/internal/logger"
	"github.com/mswatii/cs2-vault/internal/pricing"
	"github.com/mswatii/cs2-vault/internal/steam"
	"github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or cannot be loaded")
	}

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.NewDatabase(cfg.DatabaseURL())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Create tables if they don't exist
	if err := db.CreateTables(); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	// Memory tier: in-process map by default, shared Redis when configured
	var memoryTier pricing.MemoryTier
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		memoryTier = pricing.NewRedisTier(client, 5*time.Minute)
		logger.Log.Infof("price memory tier backed by redis at %s", cfg.RedisAddr)
	} else {
		memoryTier = pricing.NewMapTier(5*time.Minute, nil)
	}

	priceCache := pricing.NewCache(
		memoryTier,
		db,
		pricing.NewBuffClient(cfg.BuffSession),
		cfg.PriceStaleAfter(),
		nil,
	)

	fetcher := steam.NewFetcher(cfg.SteamAPIKey)
	floatService := floatsvc.NewService(db, cfg.CSFloatAPIKey)

	// Initialize the display exchange rate (this caches the first value)
	rate := pricing.GetCNYtoUSDRate()
	logger.Log.Infof("initial CNY to USD exchange rate: %f", rate)

	// Initialize API handler
	handler := api.NewHandler(db, fetcher, floatService, priceCache)

	// Start server
	logger.Log.Infof("starting server on port %s", cfg.Port)
	if err := fasthttp.ListenAndServe(":"+cfg.Port, handler.HandleRequest); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}
