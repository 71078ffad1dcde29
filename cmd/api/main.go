package main

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/yigit/hostelpg/internal/pkg/logger"
	"github.com/yigit/hostelpg/internal/server"
)

// @title HostelPG API
// @version 1.0
// @description Student accommodation API: hostel and PG listings, bookings, allotments and administration

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

func main() {
	// A missing .env is fine; real environments set variables directly
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = filepath.Join("configs", "config.yaml")
	}

	srv, err := server.NewServer(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until shutdown signal
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
