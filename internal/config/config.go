package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App         AppConfig
	Backend     BackendConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Session     SessionConfig
	Idempotency IdempotencyConfig
	Jobs        JobsConfig
	Kiosk       KioskConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	CORSOrigins []string
}

// BackendConfig points at the payroll REST backend. A zero Timeout imposes none.
type BackendConfig struct {
	URL          string
	Timeout      time.Duration
	ServiceToken string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
}

// SessionConfig selects where console sessions and the activity journal live.
type SessionConfig struct {
	TTL   time.Duration
	Store string
}

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type IdempotencyConfig struct {
	TTL time.Duration
}

type JobsConfig struct {
	AbsenceInterval time.Duration
}

type KioskConfig struct {
	CameraURL      string
	PayRunID       string
	SampleInterval time.Duration
	Throttle       time.Duration
}

// Load reads the environment. Required settings differ per binary, so callers
// check them with Validate or ValidateKiosk.
func Load() (*Config, error) {
	// .env is optional; the environment wins
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to read .env file", "error", err)
	}

	config := &Config{}
	var errs []error

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid APP_PORT: %w", err))
	}
	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: getEnvSlice("CORS_ORIGINS", "http://localhost:3000"),
	}

	config.Backend = BackendConfig{
		URL:          getEnv("BACKEND_URL", "http://localhost:3001/api"),
		Timeout:      getDuration("BACKEND_TIMEOUT", "0", &errs),
		ServiceToken: getEnv("BACKEND_SERVICE_TOKEN", ""),
	}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid DB_PORT: %w", err))
	}
	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "10"))
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid DB_MAX_CONNS: %w", err))
	}
	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "payroll_console"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
	}

	// Redis configuration
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid REDIS_DB: %w", err))
	}
	config.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getDuration("JWT_ACCESS_EXPIRATION_TIME", "1h", &errs),
	}
	config.Session = SessionConfig{
		TTL:   getDuration("SESSION_TTL", "12h", &errs),
		Store: strings.ToLower(getEnv("SESSION_STORE", StorePostgres)),
	}
	config.Idempotency = IdempotencyConfig{TTL: getDuration("IDEMPOTENCY_TTL", "24h", &errs)}
	config.Jobs = JobsConfig{AbsenceInterval: getDuration("ABSENCE_AUTOMATION_INTERVAL", "1h", &errs)}

	config.Kiosk = KioskConfig{
		CameraURL:      getEnv("KIOSK_CAMERA_URL", ""),
		PayRunID:       getEnv("KIOSK_PAYRUN_ID", ""),
		SampleInterval: getDuration("KIOSK_SAMPLE_INTERVAL", "500ms", &errs),
		Throttle:       getDuration("KIOSK_THROTTLE", "2s", &errs),
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration needed by the console API.
func (c *Config) Validate() error {
	if c.Backend.URL == "" {
		return fmt.Errorf("BACKEND_URL is required")
	}
	switch c.Session.Store {
	case StorePostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("SESSION_STORE must be %q or %q, got %q", StorePostgres, StoreMemory, c.Session.Store)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.JWT.AccessExpiration <= 0 {
		return fmt.Errorf("JWT_ACCESS_EXPIRATION_TIME must be positive")
	}
	if c.Session.TTL < c.JWT.AccessExpiration {
		return fmt.Errorf("SESSION_TTL must not be shorter than JWT_ACCESS_EXPIRATION_TIME")
	}
	return nil
}

// ValidateKiosk checks the settings the kiosk binary needs.
func (c *Config) ValidateKiosk() error {
	if c.Kiosk.CameraURL == "" {
		return fmt.Errorf("KIOSK_CAMERA_URL is required")
	}
	if c.Kiosk.PayRunID == "" {
		return fmt.Errorf("KIOSK_PAYRUN_ID is required")
	}
	if c.Backend.ServiceToken == "" {
		return fmt.Errorf("BACKEND_SERVICE_TOKEN is required")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}

func getDuration(key, fallback string, errs *[]error) time.Duration {
	d, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
	}
	return d
}
