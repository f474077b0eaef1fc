package api

import (
	"github.com/flowbit/flowbit/internal/actions"
	"github.com/flowbit/flowbit/internal/agents"
	"github.com/flowbit/flowbit/internal/classify"
	"github.com/flowbit/flowbit/internal/processes"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Processes processes.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	router := actions.NewRouter(
		actions.NewClient(&runtime.Actions),
		runtime.Logger,
	)

	processSystem := processes.New(
		runtime.Database.Connection(),
		classify.New(),
		agents.NewSet(runtime.Logger),
		router,
		runtime.Logger,
		runtime.Pagination,
		runtime.Workers,
	)

	processSystem = processes.WithCache(
		processSystem,
		runtime.Cache,
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Processes: processSystem,
	}
}
