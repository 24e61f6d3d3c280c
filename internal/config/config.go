package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server    ServerConfig
	Limits    LimitsConfig
	Lifecycle LifecycleConfig
	Fanout    FanoutConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port int    `envconfig:"SERVER_PORT" default:"8080"`
}

// LimitsConfig holds the anti-abuse bidding limits.
type LimitsConfig struct {
	BidCooldown     time.Duration `envconfig:"BID_COOLDOWN" default:"60s"`
	DailyPerAuction int           `envconfig:"DAILY_BIDS_PER_AUCTION" default:"20"`
	DailyTotal      int           `envconfig:"DAILY_BIDS_TOTAL" default:"50"`
}

// LifecycleConfig holds the background sweep settings.
type LifecycleConfig struct {
	SweepInterval time.Duration `envconfig:"SWEEP_INTERVAL" default:"1m"`
	EndingSoon    time.Duration `envconfig:"ENDING_SOON_WINDOW" default:"30m"`
}

// FanoutConfig holds event delivery settings.
type FanoutConfig struct {
	QueueSize int `envconfig:"FANOUT_QUEUE_SIZE" default:"64"`
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
