package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the whole application configuration, populated from
// environment variables.
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	SMTP      SMTPConfig
	Token     TokenConfig
	Chapa     ChapaConfig
	MinIO     MinIOConfig
	RateLimit RateLimitConfig
	Auth      AuthConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	Domain      string // public application domain, used to build verification links
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// TokenConfig points at the RS256 keypair used for email verification links.
type TokenConfig struct {
	PrivateKeyPath string
	PublicKeyPath  string
}

type ChapaConfig struct {
	SecretKey   string
	APIURL      string
	CallbackURL string
	Currency    string
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// RateLimitConfig is the per-IP write guard: at most Ceiling requests per
// WindowSeconds from one address.
type RateLimitConfig struct {
	WindowSeconds int
	Ceiling       int
}

type AuthConfig struct {
	SessionTTLHours int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Staybook API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Domain:      getEnv("APP_DOMAIN", "http://localhost:8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "staybook"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "localhost"),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "noreply@staybook.dev"),
		},
		Token: TokenConfig{
			PrivateKeyPath: getEnv("TOKEN_PRIVATE_KEY_PATH", "private.pem"),
			PublicKeyPath:  getEnv("TOKEN_PUBLIC_KEY_PATH", "public.pem"),
		},
		Chapa: ChapaConfig{
			SecretKey:   getEnv("CHAPA_SECRET_KEY", ""),
			APIURL:      getEnv("CHAPA_API_URL", "https://api.chapa.co"),
			CallbackURL: getEnv("CHAPA_CALLBACK_URL", "http://localhost:8080/api/v1/payments/callback"),
			Currency:    getEnv("CHAPA_CURRENCY", "ETB"),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "staybook"),
			UseSSL:    getEnv("MINIO_USE_SSL", "false") == "true",
		},
		RateLimit: RateLimitConfig{
			WindowSeconds: getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 120),
			Ceiling:       getEnvInt("RATE_LIMIT_CEILING", 3),
		},
		Auth: AuthConfig{
			SessionTTLHours: getEnvInt("AUTH_SESSION_TTL_HOURS", 168),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that production deployments carry real secrets.
func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if c.SMTP.Username == "" || c.SMTP.Password == "" {
			return fmt.Errorf("SMTP credentials must be set in production")
		}
		if c.Chapa.SecretKey == "" {
			fmt.Println("WARNING: Chapa secret key not set - payment confirmation will not work")
		}
	}

	if c.RateLimit.WindowSeconds <= 0 || c.RateLimit.Ceiling <= 0 {
		return fmt.Errorf("rate limit window and ceiling must be positive")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
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
