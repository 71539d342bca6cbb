// Package config loads the application configuration from the environment.
// A .env file is honored when present; envconfig maps the variables onto the
// typed Config struct.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	// --- Server ---
	Port     string `envconfig:"PORT" default:"5000"`
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"APP_LOG_LEVEL" default:"info"`

	// --- Database ---
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"postgres"`
	DBName     string `envconfig:"DB_NAME" default:"paygrow"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	// --- Redis ---
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     string `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// --- Auth ---
	JWTSecret     string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL      time.Duration `envconfig:"TOKEN_TTL" default:"720h"`
	AdminUsername string        `envconfig:"ADMIN_USERNAME" default:""`
	AdminPassword string        `envconfig:"ADMIN_PASSWORD" default:""`

	// --- Ledger ---
	MinWithdrawal decimal.Decimal `envconfig:"MIN_WITHDRAWAL" default:"300"`

	// --- Investments ---
	PlanName      string          `envconfig:"PLAN_NAME" default:"Daily Growth Plan"`
	DailyProfit   decimal.Decimal `envconfig:"DAILY_PROFIT" default:"100"`
	AccrualPeriod time.Duration   `envconfig:"ACCRUAL_PERIOD" default:"24h"`
	PlanDays      int             `envconfig:"PLAN_DAYS" default:"365"`
	SweepSchedule string          `envconfig:"SWEEP_SCHEDULE" default:"0 0 * * *"`

	// --- Payment channels ---
	ChannelCapacity int    `envconfig:"CHANNEL_CAPACITY" default:"10"`
	ChannelSeed     string `envconfig:"CHANNEL_SEED" default:""`

	// --- Daily check-in ---
	CheckinMin int `envconfig:"CHECKIN_MIN" default:"10"`
	CheckinMax int `envconfig:"CHECKIN_MAX" default:"60"`
}

// DatabaseDSN returns the PostgreSQL connection string.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}

// RedisAddr returns the host:port address of the Redis server.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if c.AccrualPeriod <= 0 {
		return fmt.Errorf("ACCRUAL_PERIOD must be positive")
	}
	if c.ChannelCapacity <= 0 {
		return fmt.Errorf("CHANNEL_CAPACITY must be positive")
	}
	if c.CheckinMin <= 0 || c.CheckinMax < c.CheckinMin {
		return fmt.Errorf("invalid CHECKIN_MIN/CHECKIN_MAX range")
	}
	if c.MinWithdrawal.IsNegative() {
		return fmt.Errorf("MIN_WITHDRAWAL must not be negative")
	}
	return nil
}

// Load reads the environment (plus an optional .env file) into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env file loaded: %v", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction checks if the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
