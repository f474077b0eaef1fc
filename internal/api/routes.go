package api

import (
	"net/http"

	"github.com/flowbit/flowbit/internal/config"
	"github.com/flowbit/flowbit/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) {
	routes.Register(
		mux,
		domain.Processes.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
	)
}
