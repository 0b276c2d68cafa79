package config

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	AppEnv         string        `envconfig:"APP_ENV" default:"development"`
	Port           int           `envconfig:"PORT" default:"8080"`
	MetricsPort    int           `envconfig:"METRICS_PORT" default:"9091"`
	DatabaseURL    string        `envconfig:"DATABASE_URL"`
	DatabasePath   string        `envconfig:"DATABASE_PATH" default:"usersphere.db"`
	MigrationsPath string        `envconfig:"MIGRATIONS_PATH"`
	SecretKey      string        `envconfig:"SECRET_KEY"`
	JWTSecretKey   string        `envconfig:"JWT_SECRET_KEY"`
	TokenTTL       time.Duration `envconfig:"TOKEN_TTL" default:"1h"`
	OTLPEndpoint   string        `envconfig:"OTLP_ENDPOINT" default:"localhost:4317"`
	LokiURL        string        `envconfig:"LOKI_URL"`
	RedisAddr      string        `envconfig:"REDIS_ADDR"`
	CacheEnabled   bool          `envconfig:"CACHE_ENABLED" default:"true"`
	EnforceHTTPS   bool          `envconfig:"ENFORCE_HTTPS"`
}

func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if cfg.TokenSecret() == "" {
		return nil, errors.New("SECRET_KEY must be set")
	}

	return &cfg, nil
}

// TokenSecret prefers JWT_SECRET_KEY and falls back to SECRET_KEY.
func (c *Config) TokenSecret() string {
	if c.JWTSecretKey != "" {
		return c.JWTSecretKey
	}

	return c.SecretKey
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
