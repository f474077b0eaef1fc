package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/flowbit/flowbit/pkg/formatting"
	"github.com/flowbit/flowbit/pkg/middleware"
	"github.com/flowbit/flowbit/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "FLOWBIT_CORS_ENABLED",
	Origins:          "FLOWBIT_CORS_ORIGINS",
	AllowedMethods:   "FLOWBIT_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "FLOWBIT_CORS_ALLOWED_HEADERS",
	AllowCredentials: "FLOWBIT_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "FLOWBIT_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "FLOWBIT_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "FLOWBIT_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, CORS, pagination, and batch settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	BatchWorkers  int                   `toml:"batch_workers"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
}

func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return 10 * 1024 * 1024 // 10MB fallback
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if c.BatchWorkers < 1 {
		return fmt.Errorf("invalid batch_workers: %d", c.BatchWorkers)
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}
	if overlay.BatchWorkers != 0 {
		c.BatchWorkers = overlay.BatchWorkers
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "10MB"
	}
	if c.BatchWorkers == 0 {
		c.BatchWorkers = 4
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("FLOWBIT_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("FLOWBIT_API_MAX_UPLOAD_SIZE"); v != "" {
		c.MaxUploadSize = v
	}
	if v := os.Getenv("FLOWBIT_API_BATCH_WORKERS"); v != "" {
		if workers, err := strconv.Atoi(v); err == nil {
			c.BatchWorkers = workers
		}
	}
}
