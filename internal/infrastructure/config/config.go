package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
}

// AuthConfig holds the two signing secrets and token/cookie policy. Both
// secrets are required; their absence fails startup.
type AuthConfig struct {
	AccessSecret   string        `env:"JWT_SECRET, required"`
	RefreshSecret  string        `env:"REFRESH_TOKEN_SECRET, required"`
	AccessTTL      time.Duration `env:"ACCESS_TOKEN_TTL,  default=15m"`
	RefreshTTL     time.Duration `env:"REFRESH_TOKEN_TTL, default=168h"`
	CookieSecure   bool          `env:"REFRESH_COOKIE_SECURE,   default=true"`
	CookieHTTPOnly bool          `env:"REFRESH_COOKIE_HTTPONLY, default=true"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=auth_api"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
