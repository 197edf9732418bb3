// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Backend  BackendConfig
	Session  SessionConfig
	Database DatabaseConfig
	App      AppConfig
	POS      POSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	ReadTimeout        int // seconds
	WriteTimeout       int // seconds
	IdleTimeout        int // seconds
	LoginRatePerMinute int
}

// BackendConfig points at the REST API that owns the business data.
type BackendConfig struct {
	URL     string
	Timeout time.Duration
}

// SessionConfig holds cookie/session settings.
type SessionConfig struct {
	Secret  string
	TTL     time.Duration
	Cleanup time.Duration
}

// DatabaseConfig holds the local store connection settings. The store only
// keeps sessions and POS carts.
type DatabaseConfig struct {
	Driver   string // sqlite or postgres
	Path     string // sqlite file
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev         bool
	LogLevel    string
	DefaultLang string
	RolesFile   string
	// Timezone names the zone list date filters count days in.
	Timezone string
}

// Location loads the configured time zone.
func (a AppConfig) Location() (*time.Location, error) {
	return time.LoadLocation(a.Timezone)
}

// POSConfig holds point-of-sale settings.
type POSConfig struct {
	TaxRate           float64
	Currency          string
	LowStockThreshold float64
}

// DSN returns the connection string for the configured driver.
func (d DatabaseConfig) DSN() string {
	if d.Driver == "postgres" {
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
		)
	}
	return d.Path
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			ReadTimeout:        getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout:       getEnvInt("SERVER_WRITE_TIMEOUT", 30),
			IdleTimeout:        getEnvInt("SERVER_IDLE_TIMEOUT", 60),
			LoginRatePerMinute: getEnvInt("LOGIN_RATE_PER_MINUTE", 10),
		},
		Backend: BackendConfig{
			URL:     strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:4000/api"), "/"),
			Timeout: time.Duration(getEnvInt("BACKEND_TIMEOUT", 20)) * time.Second,
		},
		Session: SessionConfig{
			Secret:  getEnv("SESSION_SECRET", "devsessionsecret"),
			TTL:     time.Duration(getEnvInt("SESSION_TTL_HOURS", 12)) * time.Hour,
			Cleanup: time.Duration(getEnvInt("SESSION_CLEANUP_MINUTES", 30)) * time.Minute,
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "sqlite"),
			Path:     getEnv("DB_PATH", "stock-admin.db"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "stockadmin"),
			Password: getEnv("DB_PASSWORD", "stockadmin"),
			DBName:   getEnv("DB_NAME", "stockadmin"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		App: AppConfig{
			Dev:         getEnvBool("DEV", false),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			DefaultLang: getEnv("DEFAULT_LANG", "fr"),
			RolesFile:   getEnv("ROLES_FILE", ""),
			Timezone:    getEnv("TIMEZONE", "UTC"),
		},
		POS: POSConfig{
			TaxRate:           getEnvFloat("POS_TAX_RATE", 0.19),
			Currency:          getEnv("POS_CURRENCY", "DZD"),
			LowStockThreshold: getEnvFloat("LOW_STOCK_THRESHOLD", 10),
		},
	}
}

// Validate reports configuration that would make the server misbehave.
func (c *Config) Validate() error {
	var problems []string
	u, err := url.Parse(c.Backend.URL)
	if c.Backend.URL == "" || err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		problems = append(problems, "BACKEND_URL must be an absolute http(s) URL")
	}
	if c.Database.Driver != "sqlite" && c.Database.Driver != "postgres" {
		problems = append(problems, "DB_DRIVER must be sqlite or postgres")
	}
	if c.POS.TaxRate < 0 || c.POS.TaxRate > 1 {
		problems = append(problems, "POS_TAX_RATE must be between 0 and 1")
	}
	if !c.App.Dev && len(c.Session.Secret) < 32 {
		problems = append(problems, "SESSION_SECRET must be at least 32 bytes outside DEV")
	}
	if _, err := c.App.Location(); err != nil {
		problems = append(problems, "TIMEZONE must be an IANA zone name")
	}
	if c.Session.TTL <= 0 {
		problems = append(problems, "SESSION_TTL_HOURS must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}
