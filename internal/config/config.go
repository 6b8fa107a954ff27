// Package config reads application settings from environment variables,
// falling back to sensible local-development defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime settings for the server and database layer.
type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	SSLMode    string

	// PoolSize is the fixed number of database handles the connection
	// pool opens at startup.
	PoolSize int

	// AllowedOrigin is echoed in the Access-Control-Allow-Origin header.
	AllowedOrigin string
}

// FromEnv builds a Config from well-known environment variables.
func FromEnv() Config {
	return Config{
		Port:          getEnv("PORT", "8080"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", "postgres"),
		DBName:        getEnv("DB_NAME", "clubhub"),
		SSLMode:       getEnv("DB_SSLMODE", "disable"),
		PoolSize:      getInt("POOL_SIZE", 5),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
	}
}

// DSN builds a libpq-compatible connection string.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
