// Package main is the entry point for the bandolera server.
//
// main stays minimal: load configuration, build the logger, hand off to
// internal/server. All real logic lives in the imported packages.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/sakif/bandolera/internal/server"
)

func main() {
	// .env is optional — real deployments set env vars directly.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	dbPath := "data/bandolera.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", filepath.Dir(dbPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// JWT_SECRET must be a long random string, e.g.
	// JWT_SECRET=$(openssl rand -hex 32). The server refuses to start
	// without it — every data route depends on token auth.
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Error("JWT_SECRET not set")
		os.Exit(1)
	}

	// JWT_EXPIRY is a Go duration ("168h", "15m"). Empty means 7 days.
	var jwtExpiry time.Duration
	if expiryStr := os.Getenv("JWT_EXPIRY"); expiryStr != "" {
		var err error
		jwtExpiry, err = time.ParseDuration(expiryStr)
		if err != nil {
			logger.Error("invalid JWT_EXPIRY value", slog.String("value", expiryStr))
			os.Exit(1)
		}
	}

	cfg := server.Config{
		Port:      port,
		DBPath:    dbPath,
		JWTSecret: jwtSecret,
		JWTExpiry: jwtExpiry,
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
