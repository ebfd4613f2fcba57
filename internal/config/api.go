package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/wayfound/atlas/pkg/formatting"
	"github.com/wayfound/atlas/pkg/middleware"
	"github.com/wayfound/atlas/pkg/openapi"
	"github.com/wayfound/atlas/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "ATLAS_CORS_ENABLED",
	Origins:          "ATLAS_CORS_ORIGINS",
	AllowedMethods:   "ATLAS_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "ATLAS_CORS_ALLOWED_HEADERS",
	AllowCredentials: "ATLAS_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "ATLAS_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "ATLAS_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "ATLAS_PAGINATION_MAX_PAGE_SIZE",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "ATLAS_OPENAPI_TITLE",
	Description: "ATLAS_OPENAPI_DESCRIPTION",
}

// APIConfig holds API routing, request limit, CORS, pagination, and
// OpenAPI settings.
type APIConfig struct {
	BasePath     string                `toml:"base_path"`
	MaxBodySize  string                `toml:"max_body_size"`
	MaxBatchSize int                   `toml:"max_batch_size"`
	BatchWorkers int                   `toml:"batch_workers"`
	CORS         middleware.CORSConfig `toml:"cors"`
	Pagination   pagination.Config     `toml:"pagination"`
	OpenAPI      openapi.Config        `toml:"openapi"`
}

// MaxBodySizeBytes returns the request body limit in bytes.
func (c *APIConfig) MaxBodySizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxBodySize)
	if err != nil {
		return 1024 * 1024 // 1MB fallback
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and
// validation for the API config and its nested configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if _, err := formatting.ParseBytes(c.MaxBodySize); err != nil {
		return fmt.Errorf("invalid max_body_size: %w", err)
	}
	if c.MaxBatchSize < 1 {
		return fmt.Errorf("invalid max_batch_size: %d", c.MaxBatchSize)
	}
	if c.BatchWorkers < 1 {
		return fmt.Errorf("invalid batch_workers: %d", c.BatchWorkers)
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxBodySize != "" {
		c.MaxBodySize = overlay.MaxBodySize
	}
	if overlay.MaxBatchSize != 0 {
		c.MaxBatchSize = overlay.MaxBatchSize
	}
	if overlay.BatchWorkers != 0 {
		c.BatchWorkers = overlay.BatchWorkers
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "1MB"
	}
	if c.MaxBatchSize == 0 {
		c.MaxBatchSize = 100
	}
	if c.BatchWorkers == 0 {
		c.BatchWorkers = 8
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("ATLAS_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("ATLAS_API_MAX_BODY_SIZE"); v != "" {
		c.MaxBodySize = v
	}
	if v := os.Getenv("ATLAS_API_MAX_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxBatchSize = n
		}
	}
	if v := os.Getenv("ATLAS_API_BATCH_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.BatchWorkers = n
		}
	}
}
