package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Storage   StorageConfig
	Public    PublicConfig
	Bulk      BulkConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	Environment  string
	ServiceName  string
	ReadTimeout  int
	WriteTimeout int
	CORSOrigins  string // Comma-separated list of allowed origins
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL      string // full connection string, takes precedence when set
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
	MinConns int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// RateLimitConfig holds rate limiting for the public scan endpoint
type RateLimitConfig struct {
	Enabled       bool
	WindowSeconds int
	ScanLimit     int // requests per window per client IP
	RedisPrefix   string
}

// StorageConfig holds archive storage configuration
type StorageConfig struct {
	Provider  string // "s3" or "local"
	Bucket    string
	Region    string
	Endpoint  string // for S3-compatible storage
	AccessKey string
	SecretKey string
	BaseURL   string // public URL prefix
	LocalPath string
}

// PublicConfig holds the externally visible serving origin
type PublicConfig struct {
	BaseURL string // embedded into every redemption payload
}

// BulkConfig holds bulk generation defaults
type BulkConfig struct {
	BatchSize int
}

// Load loads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Environment:  getEnv("ENVIRONMENT", "development"),
			ServiceName:  serviceName,
			ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
			WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 10),
			CORSOrigins:  getEnv("CORS_ORIGINS", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("PGHOST", "localhost"),
			Port:     getEnv("PGPORT", "5432"),
			User:     getEnv("PGUSER", "postgres"),
			Password: getEnv("PGPASSWORD", ""),
			DBName:   getEnv("PGDATABASE", "cardlink"),
			SSLMode:  getEnv("PGSSLMODE", "disable"),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			Enabled:       getEnvAsBool("RATE_LIMIT_ENABLED", false),
			WindowSeconds: getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 60),
			ScanLimit:     getEnvAsInt("RATE_LIMIT_SCAN_LIMIT", 120),
			RedisPrefix:   getEnv("RATE_LIMIT_REDIS_PREFIX", "rl"),
		},
		Storage: StorageConfig{
			Provider:  getEnv("STORAGE_PROVIDER", "local"),
			Bucket:    getEnv("STORAGE_BUCKET", ""),
			Region:    getEnv("STORAGE_REGION", "us-east-1"),
			Endpoint:  getEnv("STORAGE_ENDPOINT", ""),
			AccessKey: getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey: getEnv("STORAGE_SECRET_KEY", ""),
			BaseURL:   getEnv("STORAGE_BASE_URL", ""),
			LocalPath: getEnv("STORAGE_LOCAL_PATH", "qr_exports"),
		},
		Public: PublicConfig{
			BaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		},
		Bulk: BulkConfig{
			BatchSize: getEnvAsInt("BULK_BATCH_SIZE", 1000),
		},
	}

	return cfg, nil
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Window returns the rate limit window as a duration-friendly second count
func (c *RateLimitConfig) Window() int {
	if c.WindowSeconds <= 0 {
		return 60
	}
	return c.WindowSeconds
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
