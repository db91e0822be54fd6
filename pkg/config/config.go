package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	StrategyBacktracking = "backtracking"
	StrategySat          = "sat"

	FormatCsv  = "csv"
	FormatJson = "json"
)

type Config struct {
	Env    string
	Log    LogConfig
	Solver SolverConfig
	Output OutputConfig
}

type LogConfig struct {
	Level  string
	Format string
}

// SolverConfig selects the search strategy and how it is driven
type SolverConfig struct {
	Strategy string
	Seed     uint64        // 0 means a randomly seeded value order
	Timeout  time.Duration // 0 means no deadline
}

type OutputConfig struct {
	Format string
}

// Load reads ".env" when present, then the optional config file at path, then TIMETABLE_* environment variables
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("TIMETABLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext == "" {
			v.SetConfigType("env")
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("cannot read config file %q: %w", path, err)
			}
		}
	}

	cfg := &Config{
		Env: v.GetString("ENV"),
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Solver: SolverConfig{
			Strategy: strings.ToLower(v.GetString("SOLVER_STRATEGY")),
			Seed:     v.GetUint64("SOLVER_SEED"),
			Timeout:  parseDuration(v.GetString("SOLVER_TIMEOUT"), 0),
		},
		Output: OutputConfig{
			Format: strings.ToLower(v.GetString("OUTPUT_FORMAT")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the CLI cannot act upon
func (cfg *Config) Validate() error {
	switch cfg.Solver.Strategy {
	case StrategyBacktracking, StrategySat:
	default:
		return fmt.Errorf("%v is not a valid strategy", cfg.Solver.Strategy)
	}
	switch cfg.Output.Format {
	case FormatCsv, FormatJson:
	default:
		return fmt.Errorf("%v is not a valid output format", cfg.Output.Format)
	}
	if cfg.Solver.Timeout < 0 {
		return fmt.Errorf("solver timeout must not be negative: %v", cfg.Solver.Timeout)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("SOLVER_STRATEGY", StrategyBacktracking)
	v.SetDefault("SOLVER_SEED", 0)
	v.SetDefault("SOLVER_TIMEOUT", "0s")

	v.SetDefault("OUTPUT_FORMAT", FormatCsv)
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
