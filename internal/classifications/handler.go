package classifications

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/wayfound/atlas/pkg/handlers"
	"github.com/wayfound/atlas/pkg/pagination"
	"github.com/wayfound/atlas/pkg/routes"
)

// Handler provides HTTP endpoints for classification operations.
type Handler struct {
	sys         System
	logger      *slog.Logger
	pagination  pagination.Config
	maxBodySize int64
}

// DeleteResult reports whether a delete removed a record.
type DeleteResult struct {
	Deleted bool `json:"deleted"`
}

// NewHandler creates a Handler with the given system, logger, pagination
// config, and request body size limit.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
	maxBodySize int64,
) *Handler {
	return &Handler{
		sys:         sys,
		logger:      logger.With("handler", "classifications"),
		pagination:  pagination,
		maxBodySize: maxBodySize,
	}
}

// Routes returns the route group definition for classification endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/classifications",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Classify},
			{Method: "POST", Pattern: "/batch", Handler: h.Batch},
			{Method: "POST", Pattern: "/predict", Handler: h.Predict},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "GET", Pattern: "/analysis/{id}", Handler: h.ByTextAnalysis},
			{Method: "GET", Pattern: "/user/{id}", Handler: h.ByUser},
			{Method: "GET", Pattern: "/category/{category}", Handler: h.ByCategory},
			{Method: "GET", Pattern: "/model/{type}", Handler: h.ByModelType},
			{Method: "GET", Pattern: "/confidence", Handler: h.ByConfidence},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
	}
}

// Classify scores text against a model and persists the result.
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	var cmd ClassifyCommand
	if !h.decode(w, r, &cmd) {
		return
	}

	c, err := h.sys.Classify(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, c)
}

// Batch scores multiple texts, returning per-item results in input order.
func (h *Handler) Batch(w http.ResponseWriter, r *http.Request) {
	var cmd BatchCommand
	if !h.decode(w, r, &cmd) {
		return
	}

	results, err := h.sys.BatchClassify(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, results)
}

// Predict scores text without persisting the result.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	var cmd PredictCommand
	if !h.decode(w, r, &cmd) {
		return
	}

	p, err := h.sys.Predict(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, p)
}

// Find returns a single classification by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	c, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}

// ByTextAnalysis returns every classification for a text analysis,
// newest first.
func (h *Handler) ByTextAnalysis(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	items, err := h.sys.FindByTextAnalysis(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, items)
}

// ByUser returns a paginated list of a user's classifications.
func (h *Handler) ByUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	page := pagination.FromQuery(r.URL.Query(), h.pagination)
	result, err := h.sys.ListByUser(r.Context(), id, page)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// ByCategory returns a paginated list filtered by top category.
func (h *Handler) ByCategory(w http.ResponseWriter, r *http.Request) {
	page := pagination.FromQuery(r.URL.Query(), h.pagination)
	result, err := h.sys.ListByCategory(r.Context(), r.PathValue("category"), page)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// ByModelType returns a paginated list filtered by model type.
func (h *Handler) ByModelType(w http.ResponseWriter, r *http.Request) {
	page := pagination.FromQuery(r.URL.Query(), h.pagination)
	result, err := h.sys.ListByModelType(r.Context(), r.PathValue("type"), page)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// ByConfidence returns a paginated list within an inclusive confidence
// range. Bounds default to the full [0, 1] range.
func (h *Handler) ByConfidence(w http.ResponseWriter, r *http.Request) {
	min, ok := h.bound(w, r, "min", 0)
	if !ok {
		return
	}
	max, ok := h.bound(w, r, "max", 1)
	if !ok {
		return
	}

	page := pagination.FromQuery(r.URL.Query(), h.pagination)
	result, err := h.sys.ListByConfidence(r.Context(), min, max, page)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Update applies a manual category correction to a classification.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var cmd UpdateCommand
	if !h.decode(w, r, &cmd) {
		return
	}

	c, err := h.sys.Update(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}

// Delete removes a classification, reporting whether one existed.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	deleted, err := h.sys.Delete(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, DeleteResult{Deleted: deleted})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, h.maxBodySize)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return false
	}
	return true
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) bound(w http.ResponseWriter, r *http.Request, name string, fallback float64) (float64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRange)
		return 0, false
	}
	return value, true
}
