package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported values for DB_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var (
	ErrMissingJWTSecret        = errors.New("JWT_SECRET must be set")
	ErrMissingJWTRefreshSecret = errors.New("JWT_REFRESH_SECRET must be set")
	ErrIdenticalJWTSecrets     = errors.New("JWT_SECRET and JWT_REFRESH_SECRET must differ")
	ErrInvalidDuration         = errors.New("invalid duration")
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool
	LogLevel     string
	LogFormat    string

	DBDriver    string
	DatabaseURL string
	SQLitePath  string

	JWTSecret                  string
	JWTExpiryDuration          time.Duration
	JWTIssuer                  string
	RefreshTokenSecret         string
	RefreshTokenExpiryDuration time.Duration

	AuthRateLimit      string
	GlobalRateLimit    string
	CORSAllowedOrigins []string

	// External OAuth Providers
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	PosthogAPIKey   string
	PosthogEndpoint string

	HousekeepingInterval time.Duration
	ShutdownGracePeriod  time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if
// present. Missing or identical signing secrets are fatal; there is no
// built-in fallback key.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "3000")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("DB_DRIVER", DriverPostgres)
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("SQLITE_PATH", "fuel_credit.db")
	viper.SetDefault("JWT_EXPIRES_IN", "24h")
	viper.SetDefault("JWT_REFRESH_EXPIRES_IN", "168h")
	viper.SetDefault("JWT_ISSUER", "fuel-credit-app")
	viper.SetDefault("AUTH_RATE_LIMIT", "5-15M")
	viper.SetDefault("GLOBAL_RATE_LIMIT", "100-15M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "https://us.i.posthog.com")
	viper.SetDefault("HOUSEKEEPING_INTERVAL", "1h")
	viper.SetDefault("SHUTDOWN_GRACE_PERIOD", "10s")

	// Values from .env are already in the process environment; real
	// environment variables win because godotenv never overwrites them.
	viper.AutomaticEnv()

	cfg := &Config{
		Port:               viper.GetString("PORT"),
		IsProduction:       viper.GetBool("IS_PRODUCTION"),
		LogLevel:           viper.GetString("LOG_LEVEL"),
		LogFormat:          viper.GetString("LOG_FORMAT"),
		DBDriver:           strings.ToLower(strings.TrimSpace(viper.GetString("DB_DRIVER"))),
		DatabaseURL:        viper.GetString("PGSQL_URL"),
		SQLitePath:         viper.GetString("SQLITE_PATH"),
		JWTSecret:          viper.GetString("JWT_SECRET"),
		JWTIssuer:          viper.GetString("JWT_ISSUER"),
		RefreshTokenSecret: viper.GetString("JWT_REFRESH_SECRET"),
		AuthRateLimit:      viper.GetString("AUTH_RATE_LIMIT"),
		GlobalRateLimit:    viper.GetString("GLOBAL_RATE_LIMIT"),
		CORSAllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		GoogleClientID:     viper.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: viper.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  viper.GetString("GOOGLE_REDIRECT_URL"),
		PosthogAPIKey:      viper.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint:    viper.GetString("POSTHOG_ENDPOINT"),
	}

	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	if cfg.RefreshTokenSecret == "" {
		return nil, ErrMissingJWTRefreshSecret
	}
	if cfg.JWTSecret == cfg.RefreshTokenSecret {
		return nil, ErrIdenticalJWTSecrets
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"JWT_EXPIRES_IN", &cfg.JWTExpiryDuration},
		{"JWT_REFRESH_EXPIRES_IN", &cfg.RefreshTokenExpiryDuration},
		{"HOUSEKEEPING_INTERVAL", &cfg.HousekeepingInterval},
		{"SHUTDOWN_GRACE_PERIOD", &cfg.ShutdownGracePeriod},
	}
	for _, d := range durations {
		v, err := parseDuration(viper.GetString(d.key))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dst = v
	}

	if cfg.Port == "" {
		cfg.Port = "3000"
		slog.Warn("PORT not set. Defaulting.", slog.String("port", cfg.Port))
	}

	switch cfg.DBDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL must be set when DB_DRIVER=%s", DriverPostgres)
		}
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("SQLITE_PATH must be set when DB_DRIVER=%s", DriverSQLite)
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	// Log warnings for missing optional provider settings
	if cfg.GoogleClientID == "" {
		slog.Warn("GOOGLE_CLIENT_ID not set. Google sign-in will not function.")
	}
	if cfg.GoogleClientSecret == "" || cfg.GoogleRedirectURL == "" {
		slog.Warn("GOOGLE_CLIENT_SECRET or GOOGLE_REDIRECT_URL not set. Google code exchange will not function.")
	}

	return cfg, nil
}

// parseDuration accepts Go durations ("90m", "24h") and whole days ("7d").
// Anything else, or a value that is not positive, is an error.
func parseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	var d time.Duration
	if days, ok := strings.CutSuffix(raw, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("%w %q", ErrInvalidDuration, raw)
		}
		d = time.Duration(n) * 24 * time.Hour
	} else {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return 0, fmt.Errorf("%w %q", ErrInvalidDuration, raw)
		}
		d = parsed
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w %q: must be positive", ErrInvalidDuration, raw)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
