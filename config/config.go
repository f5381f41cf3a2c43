package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"reminder-backend/utils"
)

var ErrMissingDestination = errors.New("REMINDER_TO is required when Twilio is configured")

type Config struct {
	HTTP     HTTP
	Database Database
	Twilio   Twilio
	Dispatch Dispatch
	Logger   Logger
}

type HTTP struct {
	Port                 string        `env:"PORT" env-default:"9000"`
	Mode                 string        `env:"GIN_MODE" env-default:"release"`
	AllowOrigins         []string      `env:"CORS_ALLOW_ORIGINS" env-default:"*" env-separator:","`
	SlowRequestThreshold time.Duration `env:"SLOW_REQUEST_THRESHOLD" env-default:"200ms"`
	ShutdownTimeout      time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type Database struct {
	Driver          string        `env:"DB_DRIVER" env-default:"postgres"`
	URL             string        `env:"DB_URL" env-default:"host=localhost user=postgres dbname=reminders sslmode=disable"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"5m"`
}

type Twilio struct {
	AccountSID string `env:"TWILIO_ACCOUNT_SID"`
	AuthToken  string `env:"TWILIO_AUTH_TOKEN"`
	From       string `env:"TWILIO_FROM" env-default:"whatsapp:+14155238886"`
}

// Enabled reports whether credentials for the Twilio API are present.
func (t Twilio) Enabled() bool {
	return t.AccountSID != "" && t.AuthToken != ""
}

type Dispatch struct {
	Schedule string `env:"DISPATCH_SCHEDULE" env-default:"@every 60s"`
	Mode     string `env:"DISPATCH_MODE" env-default:"mark-then-send"`
	Workers  int    `env:"DISPATCH_WORKERS" env-default:"4"`
	OnStart  bool   `env:"DISPATCH_ON_START" env-default:"false"`
	To       string `env:"REMINDER_TO"`
}

type Logger struct {
	Level      string `env:"LOG_LEVEL" env-default:"info"`
	FormatJSON bool   `env:"LOG_FORMAT_JSON" env-default:"true"`
	File       string `env:"LOG_FILE"`
	MaxSize    int    `env:"LOG_MAX_SIZE" env-default:"100"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" env-default:"3"`
	MaxAge     int    `env:"LOG_MAX_AGE" env-default:"28"`
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Dispatch.Workers < 1 {
		return fmt.Errorf("DISPATCH_WORKERS must be positive, got %d", c.Dispatch.Workers)
	}

	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	if !c.Twilio.Enabled() {
		return nil
	}

	if c.Dispatch.To == "" {
		return ErrMissingDestination
	}
	if !utils.ValidateAddress(c.Dispatch.To) {
		return fmt.Errorf("invalid REMINDER_TO %q", c.Dispatch.To)
	}
	if !utils.ValidateAddress(c.Twilio.From) {
		return fmt.Errorf("invalid TWILIO_FROM %q", c.Twilio.From)
	}

	return nil
}
