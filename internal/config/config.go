package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App        AppConfig
	Postgres   PostgresConfig
	Redis      RedisConfig
	Logger     LoggerConfig
	Auth       AuthConfig
	Pass       PassConfig
	Membership MembershipConfig
	Metrics    MetricsConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	AppName        string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values. URL, when set, wins over the
// discrete fields.
type RedisConfig struct {
	URL         string
	Addr        string
	Password    string
	DB          int
	OpTimeoutMS int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig describes how access tokens from the identity provider are verified.
type AuthConfig struct {
	JWTSecret             string
	Issuer                string
	AccessTokenTTLMinutes int
}

// PassConfig tunes the rotating membership pass.
type PassConfig struct {
	RotationIntervalMS int
	ViewTTLSeconds     int
	QRSize             int
}

// MembershipConfig tunes the expiry summary.
type MembershipConfig struct {
	WindowDays int
}

// MetricsConfig toggles the prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

const devJWTSecret = "dev-secret"

// Load reads configuration from the environment (and an optional .env
// file), applies defaults and validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	appName := getEnv("APP_NAME", "membership-pass")
	cfg := &Config{
		App: AppConfig{
			Name:                  appName,
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			AppName:        appName,
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			URL:         os.Getenv("REDIS_URL"),
			Addr:        getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:    os.Getenv("REDIS_PASSWORD"),
			DB:          redisDB,
			OpTimeoutMS: getEnvAsInt("REDIS_OP_TIMEOUT_MS", 500),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", devJWTSecret),
			Issuer:                os.Getenv("AUTH_ISSUER"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
		},
		Pass: PassConfig{
			RotationIntervalMS: getEnvAsInt("PASS_ROTATION_INTERVAL_MS", 1000),
			ViewTTLSeconds:     getEnvAsInt("PASS_VIEW_TTL_SECONDS", 300),
			QRSize:             getEnvAsInt("PASS_QR_SIZE", 256),
		},
		Membership: MembershipConfig{
			WindowDays: getEnvAsInt("MEMBERSHIP_WINDOW_DAYS", 30),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvAsBool("METRICS_ENABLED", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Pass.RotationIntervalMS <= 0 {
		errs = append(errs, fmt.Errorf("invalid PASS_ROTATION_INTERVAL_MS: %d", c.Pass.RotationIntervalMS))
	}
	if c.Pass.QRSize < 64 || c.Pass.QRSize > 2048 {
		errs = append(errs, fmt.Errorf("invalid PASS_QR_SIZE: %d (want 64..2048)", c.Pass.QRSize))
	}
	if c.Membership.WindowDays <= 0 {
		errs = append(errs, fmt.Errorf("invalid MEMBERSHIP_WINDOW_DAYS: %d", c.Membership.WindowDays))
	}
	if c.App.IsProduction() && c.Auth.JWTSecret == devJWTSecret {
		errs = append(errs, errors.New("AUTH_JWT_SECRET must be set in production"))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether APP_ENV is production.
func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Env, "production")
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// RotationInterval returns the token regeneration cadence.
func (p PassConfig) RotationInterval() time.Duration {
	return time.Duration(p.RotationIntervalMS) * time.Millisecond
}

// ViewTTL returns how long a pass view may stay active without being closed.
// Zero disables the limit.
func (p PassConfig) ViewTTL() time.Duration {
	if p.ViewTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(p.ViewTTLSeconds) * time.Second
}

// Window returns the rolling window used for expiry progress.
func (m MembershipConfig) Window() time.Duration {
	return time.Duration(m.WindowDays) * 24 * time.Hour
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
