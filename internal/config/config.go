package config

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

var digitsOnly = regexp.MustCompile(`^\d+$`)

type Config struct {
	TelegramToken   string        `env:"TELEGRAM_TOKEN,required,notEmpty"`
	WorkerChatID    int64         `env:"WORKER_CHAT_ID,required"`
	OwnerChatID     int64         `env:"OWNER_CHAT_ID,required"`
	MomoNumber      string        `env:"MOMO_NUMBER,required,notEmpty"`
	Port            int           `env:"PORT" envDefault:"5000"`
	WebhookURL      string        `env:"WEBHOOK_URL"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	CatalogFile     string        `env:"CATALOG_FILE"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	StoreDriver string   `env:"STORE_DRIVER" envDefault:"memory"`
	Redis       Redis    `envPrefix:"REDIS_"`
	Database    Database `envPrefix:"DB_"`
}

type Redis struct {
	Addr     string        `env:"ADDR"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB" envDefault:"0"`
	TTL      time.Duration `env:"TTL" envDefault:"0s"`
}

type Database struct {
	Host            string        `env:"HOST"`
	Port            int           `env:"PORT" envDefault:"5432"`
	User            string        `env:"USER"`
	Password        string        `env:"PASSWORD"`
	Name            string        `env:"NAME"`
	SSLMode         string        `env:"SSLMODE" envDefault:"disable"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"5m"`
	ConnMaxIdleTime time.Duration `env:"CONN_MAX_IDLE_TIME" envDefault:"2m"`
}

// DSN builds a lib/pq connection string.
func (d Database) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate fails fast on settings that would otherwise break on first use.
func (c *Config) Validate() error {
	var errs []error

	if c.WorkerChatID == 0 {
		errs = append(errs, errors.New("WORKER_CHAT_ID must be non-zero"))
	}
	if c.OwnerChatID == 0 {
		errs = append(errs, errors.New("OWNER_CHAT_ID must be non-zero"))
	}
	if !digitsOnly.MatchString(c.MomoNumber) {
		errs = append(errs, fmt.Errorf("MOMO_NUMBER %q must contain digits only", c.MomoNumber))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d is out of range", c.Port))
	}

	switch c.StoreDriver {
	case StoreMemory:
	case StoreRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for the redis store"))
		}
	case StorePostgres:
		if c.Database.Host == "" || c.Database.User == "" || c.Database.Name == "" {
			errs = append(errs, errors.New("DB_HOST, DB_USER and DB_NAME are required for the postgres store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
