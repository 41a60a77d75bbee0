package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWT   JWTConfig
	Login LoginConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type JWTConfig struct {
	Secret     string        `env:"JWT_SECRET, required"`
	AccessTTL  time.Duration `env:"JWT_ACCESS_TTL,  default=10m"`
	RefreshTTL time.Duration `env:"JWT_REFRESH_TTL, default=168h"`
}

// LoginConfig bounds authentication attempts per e-mail.
type LoginConfig struct {
	MaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=10"`
	Window      time.Duration `env:"LOGIN_WINDOW,       default=15m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=gym_checkin"`
}

// RedisConfig holds the connection settings for the daily check-in guard and
// the login throttle. PoolSize 0 keeps the go-redis default.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,      default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,        default=0"`
	PoolSize int           `env:"REDIS_POOL_SIZE, default=0"`
	Timeout  time.Duration `env:"REDIS_TIMEOUT,   default=5s"`
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from the process environment. In development a
// .env file in the working directory is loaded first; variables already set
// in the environment win.
func Load(ctx context.Context) (*Config, error) {
	if env := os.Getenv("ENV"); env == "" || env == "development" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load .env: %w", err)
		}
	}
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through an arbitrary lookuper.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if cfg.Login.MaxAttempts < 1 {
		return nil, fmt.Errorf("config: LOGIN_MAX_ATTEMPTS must be positive, got %d", cfg.Login.MaxAttempts)
	}
	return &cfg, nil
}
