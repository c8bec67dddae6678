package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Retention RetentionConfig
	App       AppConfig
}

type ServerConfig struct {
	Port string
}

// StoreConfig selects exactly one storage backend at process start.
// A non-empty DatabaseURL always wins and selects the relational backend.
type StoreConfig struct {
	Driver      string
	DatabaseURL string
	RedisAddr   string
	DataDir     string
}

type RetentionConfig struct {
	WindowDays int
	Schedule   string
}

type AppConfig struct {
	Environment  string
	Version      string
	SeedDemoData bool
}

const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
		},
		Store: StoreConfig{
			Driver:      getEnv("STORE_DRIVER", DriverFile),
			DatabaseURL: getEnv("DATABASE_URL", ""),
			RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
			DataDir:     getEnv("DATA_DIR", "./data"),
		},
		Retention: RetentionConfig{
			WindowDays: getEnvAsInt("RETENTION_DAYS", 30),
			Schedule:   getEnv("SWEEP_SCHEDULE", "0 0 0 * * *"),
		},
		App: AppConfig{
			Environment:  getEnv("APP_ENV", "development"),
			Version:      getEnv("APP_VERSION", "1.0.0"),
			SeedDemoData: getEnvAsBool("SEED_DEMO_DATA", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Store.ResolveDriver() {
	case DriverMemory, DriverFile, DriverPostgres, DriverRedis:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}

	if c.Retention.WindowDays <= 0 {
		return fmt.Errorf("RETENTION_DAYS must be positive")
	}

	return nil
}

// ResolveDriver names the single active backend. The presence of a
// connection string selects the relational backend regardless of STORE_DRIVER.
func (s StoreConfig) ResolveDriver() string {
	if s.DatabaseURL != "" {
		return DriverPostgres
	}
	if s.Driver == "" {
		return DriverFile
	}
	return s.Driver
}

// Window converts the configured retention days into a duration.
func (r RetentionConfig) Window() time.Duration {
	return time.Duration(r.WindowDays) * 24 * time.Hour
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}
