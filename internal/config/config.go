// Package config reads runtime configuration from environment variables,
// with an optional .env file for local development.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values for the application.
type Config struct {
	Port        string // TCP port the HTTP server listens on
	DatabaseURL string // PostgreSQL connection string
	JWTSecret   string // HMAC secret for signing and verifying auth tokens
	Env         string // "development", "staging" or "production"
}

// Load reads configuration from environment variables. A .env file is loaded
// first when present; its absence is not an error.
func Load() *Config {
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	env := os.Getenv("ENV")
	if env == "" {
		env = "development"
	}

	return &Config{
		Port:        port,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		Env:         env,
	}
}
