package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// DevelopmentSecret is the session key used when SECRET_KEY is unset.
const DevelopmentSecret = "development-key"

// Config holds all application configuration
type Config struct {
	Port string
	Env  string

	Database Database

	// SecretKey signs the session cookie.
	SecretKey string

	LogFile  string
	LogLevel string

	BcryptCost int
}

// Database describes how to reach the relational store.
type Database struct {
	// Driver is "postgres" or "sqlite".
	Driver string
	// URL, when set, is used verbatim as the DSN.
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Load reads configuration from the environment, after loading .env if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port: getEnv("PORT", "5000"),
		Env:  getEnv("ENV", "development"),
		Database: Database{
			Driver:   getEnv("DB_DRIVER", "sqlite"),
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "warbler"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		SecretKey:  getEnv("SECRET_KEY", DevelopmentSecret),
		LogFile:    getEnv("LOG_FILE", ""),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		BcryptCost: getEnvInt("BCRYPT_COST", bcrypt.DefaultCost),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.Database.Driver)
	}
	if c.Database.Driver == "postgres" && c.Database.URL == "" && c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY is required")
	}
	if c.IsProduction() && c.SecretKey == DevelopmentSecret {
		return fmt.Errorf("SECRET_KEY must be changed in production")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// DSN builds the connection string for the configured driver.
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	if d.Driver == "sqlite" {
		return fmt.Sprintf("%s.db?_foreign_keys=on", d.Name)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
