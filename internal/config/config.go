package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/lehigh-university-libraries/letterbox/internal/models"
	"github.com/lehigh-university-libraries/letterbox/internal/upload"
)

// Config holds upload settings resolved from the environment. Command-line
// flags are applied on top by the commands.
type Config struct {
	Endpoint       string
	Nested         bool
	ResponseFormat models.ResultFormat
	Timeout        time.Duration
	MaxDimension   uint
}

// Load reads LETTERBOX_* variables, falling back to defaults when unset
func Load() (*Config, error) {
	cfg := &Config{
		Endpoint:       upload.DefaultEndpoint,
		ResponseFormat: models.FormatGrouped,
		Timeout:        5 * time.Minute,
	}

	if v := os.Getenv("LETTERBOX_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}

	if v := os.Getenv("LETTERBOX_NESTED"); v != "" {
		nested, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid LETTERBOX_NESTED: %w", err)
		}
		cfg.Nested = nested
	}

	if v := os.Getenv("LETTERBOX_RESPONSE_FORMAT"); v != "" {
		format, ok := models.ParseResultFormat(v)
		if !ok {
			return nil, fmt.Errorf("invalid LETTERBOX_RESPONSE_FORMAT %q (flat or grouped)", v)
		}
		cfg.ResponseFormat = format
	}

	if v := os.Getenv("LETTERBOX_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid LETTERBOX_TIMEOUT: %w", err)
		}
		cfg.Timeout = timeout
	}

	if v := os.Getenv("LETTERBOX_MAX_DIMENSION"); v != "" {
		dim, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid LETTERBOX_MAX_DIMENSION: %w", err)
		}
		cfg.MaxDimension = uint(dim)
	}

	return cfg, nil
}
