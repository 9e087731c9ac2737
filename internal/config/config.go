package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`
	// MigrateOnStart runs the embedded schema migrations before serving.
	MigrateOnStart bool `toml:"migrate_on_start"`

	// auth
	LoginSessionTTL             Duration `toml:"login_session_ttl"`
	LoginRateLimitAllowedPerMin int      `toml:"login_rate_limit_allowed_per_min"`
	VerificationTokenTTL        Duration `toml:"verification_token_ttl"`
	PasswordHashCost            int      `toml:"password_hash_cost"`

	AllowedOrigins []string `toml:"allowed_origins"`
}

// Duration allows "1h30m" style values in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("config section for env [%s] missing", env)
	}
	return cfg, nil
}

// Load reads the TOML file at path and returns the section for env.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode toml config [%s]: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LoginSessionTTL.Duration == 0 {
		c.LoginSessionTTL.Duration = 7 * 24 * time.Hour
	}
	if c.VerificationTokenTTL.Duration == 0 {
		c.VerificationTokenTTL.Duration = 24 * time.Hour
	}
	if c.LoginRateLimitAllowedPerMin == 0 {
		c.LoginRateLimitAllowedPerMin = 15
	}
	if c.PasswordHashCost == 0 {
		c.PasswordHashCost = 14
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
}

// Secrets are never kept in the config file.
type Secrets struct {
	RedisPassword      string `env:"WT_REDIS_PASS"`
	PostgresPassword   string `env:"WT_POSTGRES_PASS"`
	VerificationSecret string `env:"WT_VERIFICATION_SECRET"`
	SentryDSN          string `env:"SENTRY_DSN"`
	HoneycombEnabled   bool   `env:"HONEYCOMB_ENABLED, default=false"`
	HoneycombAPIKey    string `env:"HONEYCOMB_API_KEY"`
	OtelServiceName    string `env:"OTEL_SERVICE_NAME"`
}

func LoadSecrets(ctx context.Context) (*Secrets, error) {
	return loadSecrets(ctx, envconfig.OsLookuper())
}

func loadSecrets(ctx context.Context, lookuper envconfig.Lookuper) (*Secrets, error) {
	var s Secrets
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &s,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("process env secrets: %w", err)
	}
	return &s, nil
}
