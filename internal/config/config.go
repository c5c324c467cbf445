package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Processor ProcessorConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Secrets   SecretsConfig
	Ops       OpsConfig
	Logger    LoggerConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int
	Host            string
	MetricsPort     int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// ProcessorConfig holds payment processor refund API configuration
type ProcessorConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// AuthConfig holds JWT validation configuration
type AuthConfig struct {
	Issuer string
	// PrivateKeySecret names the secret holding the RSA signing key. The
	// key is fetched through the configured secrets backend at startup.
	PrivateKeySecret string
	TokenExpiry      time.Duration
}

// RateLimitConfig holds per-caller throttling configuration
type RateLimitConfig struct {
	ReadRPS    float64
	ReadBurst  int
	WriteRPS   float64
	WriteBurst int
}

// SecretsConfig selects the secrets backend: "aws" or "local"
type SecretsConfig struct {
	Backend     string
	Region      string
	Profile     string
	Endpoint    string
	LocalPrefix string
}

// OpsConfig holds operator alerting configuration
type OpsConfig struct {
	// AlertRecipient receives notifications for failed refunds. Empty
	// disables operator alerts.
	AlertRecipient *uuid.UUID
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level       string // debug, info, warn, error
	Development bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			MetricsPort:     getEnvAsInt("METRICS_PORT", 9090),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 20*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "dispute_service"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
			MaxConns: int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns: int32(getEnvAsInt("DB_MIN_CONNS", 5)),
		},
		Processor: ProcessorConfig{
			BaseURL: getEnv("PROCESSOR_BASE_URL", "https://sandbox.processor.example.com"),
			APIKey:  getEnv("PROCESSOR_API_KEY", ""),
			Timeout: getEnvAsDuration("PROCESSOR_TIMEOUT", 10*time.Second),
		},
		Auth: AuthConfig{
			Issuer:           getEnv("JWT_ISSUER", "dispute-service"),
			PrivateKeySecret: getEnv("JWT_PRIVATE_KEY_SECRET", "dispute-service/jwt-private-key"),
			TokenExpiry:      getEnvAsDuration("JWT_TOKEN_EXPIRY", time.Hour),
		},
		RateLimit: RateLimitConfig{
			ReadRPS:    getEnvAsFloat("RATE_LIMIT_READ_RPS", 20),
			ReadBurst:  getEnvAsInt("RATE_LIMIT_READ_BURST", 40),
			WriteRPS:   getEnvAsFloat("RATE_LIMIT_WRITE_RPS", 2),
			WriteBurst: getEnvAsInt("RATE_LIMIT_WRITE_BURST", 5),
		},
		Secrets: SecretsConfig{
			Backend:     getEnv("SECRETS_BACKEND", "local"),
			Region:      getEnv("AWS_REGION", "us-east-1"),
			Profile:     getEnv("AWS_PROFILE", ""),
			Endpoint:    getEnv("AWS_ENDPOINT_URL", ""),
			LocalPrefix: getEnv("SECRETS_LOCAL_PREFIX", "SECRET_"),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
	}

	if raw := getEnv("OPS_ALERT_RECIPIENT", ""); raw != "" {
		recipient, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("OPS_ALERT_RECIPIENT is not a valid UUID: %w", err)
		}
		cfg.Ops.AlertRecipient = &recipient
	}

	// Validate required fields
	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}
	if cfg.Processor.APIKey == "" {
		return nil, fmt.Errorf("PROCESSOR_API_KEY is required")
	}
	switch cfg.Secrets.Backend {
	case "aws", "local":
	default:
		return nil, fmt.Errorf("SECRETS_BACKEND must be \"aws\" or \"local\", got %q", cfg.Secrets.Backend)
	}

	return cfg, nil
}

// ConnectionString returns PostgreSQL connection string
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// Helper functions

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
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
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
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
