package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/stitts-dev/draft-sim/internal/draft"
	"github.com/stitts-dev/draft-sim/internal/models"
	"github.com/stitts-dev/draft-sim/pkg/utils"
)

type Config struct {
	// Server
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	// Logging
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Database
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Redis
	RedisURL string `mapstructure:"REDIS_URL"`

	// Player pool
	PlayerSource        string        `mapstructure:"PLAYER_SOURCE"` // "db", "csv:<path>" or a path
	PoolCacheTTL        time.Duration `mapstructure:"POOL_CACHE_TTL"`
	PoolRefreshInterval time.Duration `mapstructure:"POOL_REFRESH_INTERVAL"`

	// Simulation
	Trials     int `mapstructure:"TRIALS"`
	Teams      int `mapstructure:"TEAMS"`
	HeroSeat   int `mapstructure:"HERO_SEAT"`
	Randomness int `mapstructure:"RANDOMNESS"`
	TopK       int `mapstructure:"TOP_K"`
	Workers    int `mapstructure:"WORKERS"`
	MaxTrials  int `mapstructure:"MAX_TRIALS"`

	// Roster
	RosterQB   int `mapstructure:"ROSTER_QB"`
	RosterRB   int `mapstructure:"ROSTER_RB"`
	RosterWR   int `mapstructure:"ROSTER_WR"`
	RosterTE   int `mapstructure:"ROSTER_TE"`
	RosterFlex int `mapstructure:"ROSTER_FLEX"`

	// API protection
	SimulationRateLimit     int           `mapstructure:"SIMULATION_RATE_LIMIT"` // requests per minute
	CircuitBreakerThreshold int           `mapstructure:"CIRCUIT_BREAKER_THRESHOLD"`
	CircuitBreakerTimeout   time.Duration `mapstructure:"CIRCUIT_BREAKER_TIMEOUT"`
}

var defaults = map[string]interface{}{
	"PORT":                      "8080",
	"ENV":                       "development",
	"LOG_LEVEL":                 "",
	"DATABASE_URL":              "",
	"REDIS_URL":                 "",
	"PLAYER_SOURCE":             "data/rankings.csv",
	"POOL_CACHE_TTL":            "1h",
	"POOL_REFRESH_INTERVAL":     "0s",
	"TRIALS":                    10000,
	"TEAMS":                     10,
	"HERO_SEAT":                 10,
	"RANDOMNESS":                5,
	"TOP_K":                     20,
	"WORKERS":                   0, // one per CPU
	"MAX_TRIALS":                100000,
	"ROSTER_QB":                 1,
	"ROSTER_RB":                 2,
	"ROSTER_WR":                 3,
	"ROSTER_TE":                 1,
	"ROSTER_FLEX":               1,
	"SIMULATION_RATE_LIMIT":     30,
	"CIRCUIT_BREAKER_THRESHOLD": 5,
	"CIRCUIT_BREAKER_TIMEOUT":   "30s",
}

// FlagKey maps a kebab-case flag name to its config key, "hero-seat" to HERO_SEAT
func FlagKey(flagName string) string {
	return strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}

// LoadConfig reads .env, the environment and any changed flags, in rising
// order of precedence. flags may be nil.
func LoadConfig(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// Read from environment
	v.AutomaticEnv()

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			key := FlagKey(f.Name)
			if _, known := defaults[key]; !known || bindErr != nil {
				return
			}
			bindErr = v.BindPFlag(key, f)
		})
		if bindErr != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", bindErr)
		}
	}

	// Read config file if exists
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

func (c *Config) Roster() draft.RosterShape {
	return draft.RosterShape{
		models.PositionQB:   c.RosterQB,
		models.PositionRB:   c.RosterRB,
		models.PositionWR:   c.RosterWR,
		models.PositionTE:   c.RosterTE,
		models.PositionFLEX: c.RosterFlex,
	}
}

func (c *Config) EngineConfig() draft.EngineConfig {
	return draft.EngineConfig{
		Teams:      c.Teams,
		HeroSeat:   c.HeroSeat,
		Randomness: c.Randomness,
		Roster:     c.Roster(),
	}
}

// Validate checks everything a batch needs before any trial starts
func (c *Config) Validate() error {
	if err := c.EngineConfig().Validate(); err != nil {
		return err
	}
	if c.Trials <= 0 {
		return fmt.Errorf("%w: trials must be positive, got %d", utils.ErrInvalidConfig, c.Trials)
	}
	if c.MaxTrials > 0 && c.Trials > c.MaxTrials {
		return fmt.Errorf("%w: trials %d exceeds max %d", utils.ErrInvalidConfig, c.Trials, c.MaxTrials)
	}
	if c.TopK < 0 {
		return fmt.Errorf("%w: top-k must not be negative, got %d", utils.ErrInvalidConfig, c.TopK)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", utils.ErrInvalidConfig, c.Workers)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
