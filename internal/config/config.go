// Package config reads process configuration from the environment. A .env
// file in the working directory is loaded first when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"fieldops/internal/flags"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	StoreDriver         string
	DatabaseURL         string
	SQLitePath          string
	ServerPort          string
	AllowedOrigins      string
	Flags               flags.Set
	OpenAIAPIKey        string
	DefaultTaxRate      decimal.Decimal
	WeeklyCapacityHours float64
	LogLevel            string
}

// Load reads .env (if any) and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, validating every value.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		StoreDriver:    strings.ToLower(orDefault(getenv("STORE_DRIVER"), DriverMemory)),
		DatabaseURL:    getenv("DATABASE_URL"),
		SQLitePath:     orDefault(getenv("SQLITE_PATH"), "./data/fieldops.db"),
		ServerPort:     orDefault(getenv("SERVER_PORT"), "8080"),
		AllowedOrigins: getenv("ALLOWED_ORIGINS"),
		OpenAIAPIKey:   getenv("OPENAI_API_KEY"),
		LogLevel:       getenv("LOG_LEVEL"),
	}

	switch cfg.StoreDriver {
	case DriverMemory, DriverSQLite:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable not set (required by STORE_DRIVER=postgres)")
		}
	default:
		return nil, fmt.Errorf("STORE_DRIVER %q: expected memory, postgres or sqlite", cfg.StoreDriver)
	}

	fs, err := flags.Parse(getenv("FEATURE_FLAGS"))
	if err != nil {
		return nil, fmt.Errorf("FEATURE_FLAGS: %w", err)
	}
	cfg.Flags = fs

	rate, err := decimal.NewFromString(orDefault(getenv("DEFAULT_TAX_RATE"), "0.077"))
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_TAX_RATE: %w", err)
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("DEFAULT_TAX_RATE must be within [0, 1], got %s", rate)
	}
	cfg.DefaultTaxRate = rate

	hours, err := strconv.ParseFloat(orDefault(getenv("WEEKLY_CAPACITY_HOURS"), "40"), 64)
	if err != nil {
		return nil, fmt.Errorf("WEEKLY_CAPACITY_HOURS: %w", err)
	}
	if hours <= 0 {
		return nil, fmt.Errorf("WEEKLY_CAPACITY_HOURS must be > 0, got %v", hours)
	}
	cfg.WeeklyCapacityHours = hours

	return cfg, nil
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return strings.TrimSpace(v)
}
