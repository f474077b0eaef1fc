package api

import (
	"github.com/flowbit/flowbit/internal/actions"
	"github.com/flowbit/flowbit/internal/config"
	"github.com/flowbit/flowbit/internal/infrastructure"
	"github.com/flowbit/flowbit/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Actions    actions.Config
	Pagination pagination.Config
	Workers    int
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Cache:     infra.Cache,
		},
		Actions:    cfg.Actions,
		Pagination: cfg.API.Pagination,
		Workers:    cfg.API.BatchWorkers,
	}
}
