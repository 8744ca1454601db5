package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Finance  FinanceConfig
	Renewals RenewalsConfig
	Reserve  ReserveConfig
	Expenses ExpensesConfig
	Storage  StorageConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	Expiration        time.Duration
	RefreshExpiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// FinanceConfig tunes the monthly financial report.
type FinanceConfig struct {
	CacheEnabled       bool
	CacheTTL           time.Duration
	SettledEpsilon     float64
	ProjectionSpan     int
	ReserveTargetRatio float64
}

// RenewalsConfig controls the renewal follow-up window.
type RenewalsConfig struct {
	ExpiringWindowDays int
}

// ReserveConfig carries the default yield assumptions for cash-reserve projections.
type ReserveConfig struct {
	DefaultAnnualRate  float64
	TradingDaysPerYear int
}

// ExpensesConfig governs installment expansion on expense entry.
type ExpensesConfig struct {
	RecurringMonths int
}

// StorageConfig locates exported files and signs their download links.
type StorageConfig struct {
	Dir             string
	SignedURLSecret string
	SignedURLTTL    time.Duration
	CleanupInterval time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:            v.GetString("JWT_SECRET"),
		Expiration:        parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		RefreshExpiration: parseDuration(v.GetString("REFRESH_TOKEN_EXPIRATION"), 7*24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Finance = FinanceConfig{
		CacheEnabled:       v.GetBool("FINANCE_CACHE_ENABLED"),
		CacheTTL:           parseDuration(v.GetString("FINANCE_CACHE_TTL"), 5*time.Minute),
		SettledEpsilon:     v.GetFloat64("FINANCE_SETTLED_EPSILON"),
		ProjectionSpan:     v.GetInt("FINANCE_PROJECTION_MONTHS"),
		ReserveTargetRatio: v.GetFloat64("FINANCE_RESERVE_TARGET_RATIO"),
	}

	cfg.Renewals = RenewalsConfig{
		ExpiringWindowDays: v.GetInt("RENEWALS_EXPIRING_WINDOW_DAYS"),
	}

	cfg.Reserve = ReserveConfig{
		DefaultAnnualRate:  v.GetFloat64("RESERVE_DEFAULT_ANNUAL_RATE"),
		TradingDaysPerYear: v.GetInt("RESERVE_TRADING_DAYS"),
	}

	cfg.Expenses = ExpensesConfig{
		RecurringMonths: v.GetInt("EXPENSES_RECURRING_MONTHS"),
	}

	cfg.Storage = StorageConfig{
		Dir:             v.GetString("STORAGE_DIR"),
		SignedURLSecret: v.GetString("STORAGE_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("STORAGE_SIGNED_URL_TTL"), 24*time.Hour),
		CleanupInterval: parseDuration(v.GetString("STORAGE_CLEANUP_INTERVAL"), 6*time.Hour),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "studio")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("REFRESH_TOKEN_EXPIRATION", "168h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("FINANCE_CACHE_ENABLED", false)
	v.SetDefault("FINANCE_CACHE_TTL", "5m")
	v.SetDefault("FINANCE_SETTLED_EPSILON", 0.01)
	v.SetDefault("FINANCE_PROJECTION_MONTHS", 12)
	v.SetDefault("FINANCE_RESERVE_TARGET_RATIO", 12)

	v.SetDefault("RENEWALS_EXPIRING_WINDOW_DAYS", 30)

	v.SetDefault("RESERVE_DEFAULT_ANNUAL_RATE", 0.105)
	v.SetDefault("RESERVE_TRADING_DAYS", 252)

	v.SetDefault("EXPENSES_RECURRING_MONTHS", 12)

	v.SetDefault("STORAGE_DIR", "./data/exports")
	v.SetDefault("STORAGE_SIGNED_URL_SECRET", "dev_export_secret")
	v.SetDefault("STORAGE_SIGNED_URL_TTL", "24h")
	v.SetDefault("STORAGE_CLEANUP_INTERVAL", "6h")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
