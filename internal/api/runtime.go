package api

import (
	"github.com/wayfound/atlas/internal/config"
	"github.com/wayfound/atlas/internal/infrastructure"
	"github.com/wayfound/atlas/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	API        config.APIConfig
	Models     config.ModelsConfig
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Pagination: cfg.API.Pagination,
		API:        cfg.API,
		Models:     cfg.Models,
	}
}
