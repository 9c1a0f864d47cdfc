package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	SMTP       SMTPConfig
	RateLimit  RateLimitConfig
	Setup      SetupConfig
	Settlement SettlementConfig
	Security   SecurityConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode + "&prepare_threshold=0"
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	Password string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// SMTPConfig holds outbound mail configuration
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled reports whether a mail transport is configured.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.Username != ""
}

// RateLimitConfig bounds sign-in and OTP issuance attempts.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// SetupConfig holds account-setup flow knobs.
type SetupConfig struct {
	OTPExpiry     time.Duration
	SweepInterval time.Duration
}

// SettlementConfig holds the current split rule and the revenue
// window anchor. The split applies to new figures only; persisted
// per-entry breakdowns are never recomputed.
type SettlementConfig struct {
	ExpertShare        float64
	OrgShare           float64
	TaxShare           float64
	AdminShare         float64
	CancellationFeePct float64
	RevenueAnchorYears int // window start: Jan 1, this many years back
}

// SecurityConfig holds encryption keys
type SecurityConfig struct {
	SessionEncryptionKey string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "mindnamo_admin"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "change-this-in-production"),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASS", ""),
			From:     getEnv("SMTP_FROM", "no-reply@mindnamo.com"),
		},
		RateLimit: RateLimitConfig{
			Requests: getEnvAsInt("RATE_LIMIT_REQUESTS", 5),
			Window:   getEnvAsDuration("RATE_LIMIT_WINDOW", 60*time.Second),
		},
		Setup: SetupConfig{
			OTPExpiry:     getEnvAsDuration("SETUP_OTP_EXPIRY", 10*time.Minute),
			SweepInterval: getEnvAsDuration("SETUP_SWEEP_INTERVAL", 5*time.Minute),
		},
		Settlement: SettlementConfig{
			ExpertShare:        getEnvAsFloat("SETTLEMENT_EXPERT_SHARE", 0.60),
			OrgShare:           getEnvAsFloat("SETTLEMENT_ORG_SHARE", 0.20),
			TaxShare:           getEnvAsFloat("SETTLEMENT_TAX_SHARE", 0.10),
			AdminShare:         getEnvAsFloat("SETTLEMENT_ADMIN_SHARE", 0.10),
			CancellationFeePct: getEnvAsFloat("SETTLEMENT_CANCELLATION_FEE", 0.10),
			RevenueAnchorYears: getEnvAsInt("REVENUE_ANCHOR_YEARS", 1),
		},
		Security: SecurityConfig{
			SessionEncryptionKey: getEnv("SESSION_ENCRYPTION_KEY", "0000000000000000000000000000000000000000000000000000000000000000"), // 32-bytes hex string
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if fv, err := strconv.ParseFloat(value, 64); err == nil {
			return fv
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
