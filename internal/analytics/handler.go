package analytics

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/wayfound/atlas/pkg/handlers"
	"github.com/wayfound/atlas/pkg/routes"
)

// Handler provides HTTP endpoints for analytics queries.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "analytics"),
	}
}

// Routes returns the route group definition for analytics endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/analytics",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/stats", Handler: h.Stats},
			{Method: "GET", Pattern: "/trending", Handler: h.Trending},
			{Method: "GET", Pattern: "/insights", Handler: h.Insights},
		},
	}
}

// Stats returns corpus-wide classification statistics.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.sys.Stats(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, stats)
}

// Trending returns the most active categories within a timeframe.
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	timeframe := r.URL.Query().Get("timeframe")
	if timeframe == "" {
		timeframe = DefaultTimeframe
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidLimit)
			return
		}
		limit = parsed
	}

	trending, err := h.sys.Trending(r.Context(), timeframe, limit)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, trending)
}

// Insights returns windowed classification activity.
func (h *Handler) Insights(w http.ResponseWriter, r *http.Request) {
	timeframe := r.URL.Query().Get("timeframe")
	if timeframe == "" {
		timeframe = DefaultTimeframe
	}

	insights, err := h.sys.Insights(r.Context(), timeframe)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, insights)
}
