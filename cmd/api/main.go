package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"universal-portfolio/internal/api"
	"universal-portfolio/internal/api/handlers"
	"universal-portfolio/internal/data"
	"universal-portfolio/internal/store"

	"github.com/gin-gonic/gin"
)

func main() {
	// Get configuration from environment
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	ttl := time.Hour
	if s := os.Getenv("RUN_TTL"); s != "" {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			log.Fatalf("Invalid RUN_TTL %q: %v", s, err)
		}
		ttl = parsed
	}

	dataDir := handlers.DefaultDataDir()
	if info, err := os.Stat(dataDir); err == nil && info.IsDir() {
		log.Printf("Data directory found: %s", dataDir)
	} else {
		log.Printf("Data directory not found at: %s (error: %v)", dataDir, err)
	}

	var runs store.RunStore
	if dbPath := os.Getenv("RESULTS_DB"); dbPath != "" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			log.Fatalf("Failed to create results directory: %v", err)
		}
		db, err := store.OpenSQLite(dbPath)
		if err != nil {
			log.Fatalf("Failed to open results db: %v", err)
		}
		defer db.Close()
		runs = db
		log.Printf("Persisting runs to %s", dbPath)
	} else {
		mem := store.NewMemoryStore(ttl)
		defer mem.Close()
		runs = mem
		log.Printf("Keeping runs in memory for %v", ttl)
	}

	prices := data.NewPriceCache(ttl)
	defer prices.Close()

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := api.NewRouter(api.Deps{
		Sources: &handlers.Sources{
			DataDir:        dataDir,
			PriceSourceURL: os.Getenv("PRICE_SOURCE_URL"),
			PriceAPIKey:    os.Getenv("PRICE_API_KEY"),
			Cache:          prices,
		},
		Runs:        runs,
		CORSOrigins: os.Getenv("CORS_ORIGINS"),
	})

	addr := fmt.Sprintf(":%s", port)
	log.Printf("Starting API server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
