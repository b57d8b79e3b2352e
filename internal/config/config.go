package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/criteria"
)

// Config holds the settings of the HTTP service
type Config struct {
	Server   ServerConfig
	Criteria criteria.Criteria
}

// ServerConfig configures the listener and per-client rate limiting
type ServerConfig struct {
	Addr      string
	RateLimit float64 // requests per second per client
	RateBurst int
}

// Load reads configuration from the environment, loading .env files first when present.
// GLOBALCHECK_CRITERIA_FILE is applied before GLOBALCHECK_STRUCTURE and GLOBALCHECK_DRIFT_LIMIT.
func Load(envFiles ...string) (*Config, error) {
	// A missing .env file is not an error
	_ = godotenv.Load(envFiles...)

	cfg := &Config{
		Server: ServerConfig{
			Addr:      getEnvOrDefault("GLOBALCHECK_ADDR", ":8080"),
			RateLimit: 5,
			RateBurst: 10,
		},
		Criteria: criteria.Default(),
	}

	if v := os.Getenv("GLOBALCHECK_RATE_LIMIT"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("GLOBALCHECK_RATE_LIMIT: invalid value %q", v)
		}
		cfg.Server.RateLimit = parsed
	}
	if v := os.Getenv("GLOBALCHECK_RATE_BURST"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("GLOBALCHECK_RATE_BURST: invalid value %q", v)
		}
		cfg.Server.RateBurst = parsed
	}

	if path := os.Getenv("GLOBALCHECK_CRITERIA_FILE"); path != "" {
		c, err := criteria.LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("GLOBALCHECK_CRITERIA_FILE: %w", err)
		}
		cfg.Criteria = c
	}
	if v := os.Getenv("GLOBALCHECK_STRUCTURE"); v != "" {
		var st criteria.StructureType
		if err := st.Set(v); err != nil {
			return nil, fmt.Errorf("GLOBALCHECK_STRUCTURE: %w", err)
		}
		cfg.Criteria = cfg.Criteria.WithStructure(st)
	}
	if v := os.Getenv("GLOBALCHECK_DRIFT_LIMIT"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("GLOBALCHECK_DRIFT_LIMIT: invalid value %q", v)
		}
		cfg.Criteria.DriftLimit = parsed
	}

	if err := cfg.Criteria.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
