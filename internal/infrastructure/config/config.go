package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Log       LogConfig       `mapstructure:"log"`
	Event     EventConfig     `mapstructure:"event"`
	Redis     RedisConfig     `mapstructure:"redis"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	LogLevel        string        `mapstructure:"log_level"`
}

// JWTConfig holds JWT authentication configuration
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	RefreshSecret      string        `mapstructure:"refresh_secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_token_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_token_expiry"`
	Issuer             string        `mapstructure:"issuer"`
	MaxRefreshCount    int           `mapstructure:"max_refresh_count"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string `mapstructure:"level"`  // debug, info, warn, error
	Format     string `mapstructure:"format"` // json, console
	Output     string `mapstructure:"output"` // stdout, stderr, or file path
	TimeFormat string `mapstructure:"time_format"`
}

// EventConfig holds outbox relay configuration
type EventConfig struct {
	OutboxBatchSize        int           `mapstructure:"outbox_batch_size"`
	OutboxPollInterval     time.Duration `mapstructure:"outbox_poll_interval"`
	OutboxMaxRetries       int           `mapstructure:"outbox_max_retries"`
	OutboxCleanupRetention time.Duration `mapstructure:"outbox_cleanup_retention"`
	OutboxCleanupInterval  time.Duration `mapstructure:"outbox_cleanup_interval"`
}

// RedisConfig holds Redis connection configuration.
// Redis backs the event idempotency store in multi-instance deployments;
// when unavailable the application falls back to an in-memory store.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	RateLimitRPS    int           `mapstructure:"rate_limit_rps"`
	RateLimitBurst  int           `mapstructure:"rate_limit_burst"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// SchedulerConfig holds background sweep configuration
type SchedulerConfig struct {
	Enabled             bool          `mapstructure:"enabled"`
	PermitSweepInterval time.Duration `mapstructure:"permit_sweep_interval"`
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	ServiceName  string  `mapstructure:"service_name"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	Insecure     bool    `mapstructure:"insecure"`
	TraceDB      bool    `mapstructure:"trace_db"`
}

// Load reads configuration from file and environment variables.
// Environment variables use the WELLFIELD_ prefix with underscores,
// e.g. WELLFIELD_DATABASE_HOST overrides database.host.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/wellfield")

	v.SetEnvPrefix("WELLFIELD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file is optional; env vars and defaults suffice
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "wellfield")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 8080)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "wellfield")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "wellfield")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "5m")
	v.SetDefault("database.conn_max_idle_time", "10m")
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.refresh_secret", "")
	v.SetDefault("jwt.access_token_expiry", "15m")
	v.SetDefault("jwt.refresh_token_expiry", "168h")
	v.SetDefault("jwt.issuer", "wellfield")
	v.SetDefault("jwt.max_refresh_count", 10)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.time_format", "2006-01-02 15:04:05")

	v.SetDefault("event.outbox_batch_size", 100)
	v.SetDefault("event.outbox_poll_interval", "5s")
	v.SetDefault("event.outbox_max_retries", 5)
	v.SetDefault("event.outbox_cleanup_retention", "168h")
	v.SetDefault("event.outbox_cleanup_interval", "1h")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("http.read_timeout", "15s")
	v.SetDefault("http.write_timeout", "15s")
	v.SetDefault("http.idle_timeout", "60s")
	v.SetDefault("http.shutdown_timeout", "30s")
	v.SetDefault("http.max_body_size", 1<<20)
	v.SetDefault("http.rate_limit_rps", 100)
	v.SetDefault("http.rate_limit_burst", 200)
	v.SetDefault("http.cors_origins", []string{"*"})

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.permit_sweep_interval", "1h")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "wellfield-backend")
	v.SetDefault("telemetry.otlp_endpoint", "localhost:4317")
	v.SetDefault("telemetry.sample_ratio", 1.0)
	v.SetDefault("telemetry.insecure", true)
	v.SetDefault("telemetry.trace_db", false)
}

func (c *Config) validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("invalid app port: %d", c.App.Port)
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Event.OutboxBatchSize <= 0 {
		return fmt.Errorf("outbox batch size must be positive")
	}

	if c.IsProduction() {
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt secret must be at least 32 characters in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database ssl_mode must not be disabled in production")
		}
		for _, origin := range c.HTTP.CORSOrigins {
			if origin == "*" {
				return fmt.Errorf("wildcard CORS origin is not allowed in production")
			}
		}
	}

	return nil
}

// IsProduction returns true when running in the production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true when running in the development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// Addr returns the HTTP listen address
func (c *AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DSN builds the PostgreSQL connection string
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
