package api

import (
	"net/http"

	"github.com/wayfound/atlas/internal/config"
	"github.com/wayfound/atlas/internal/models"
	"github.com/wayfound/atlas/pkg/openapi"
	"github.com/wayfound/atlas/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	routes.Register(
		mux,
		domain.Classifications.Handler().Routes(),
		domain.Analytics.Handler().Routes(),
		models.NewHandler(domain.Models, runtime.Logger, cfg.API.MaxBodySizeBytes()).Routes(),
	)

	if spec, err := openapi.MarshalJSON(buildSpec(cfg)); err == nil {
		mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(spec))
	} else {
		runtime.Logger.Warn("openapi spec generation failed", "error", err)
	}
}
