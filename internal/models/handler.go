package models

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/wayfound/atlas/pkg/handlers"
	"github.com/wayfound/atlas/pkg/routes"
)

// Handler provides HTTP endpoints for model management.
type Handler struct {
	sys         System
	logger      *slog.Logger
	maxBodySize int64
}

// ModelStatus summarizes one model type's training state.
type ModelStatus struct {
	ModelType ModelType  `json:"modelType"`
	Trained   bool       `json:"trained"`
	Version   int        `json:"version,omitempty"`
	TrainedAt *time.Time `json:"trainedAt,omitempty"`
}

// TrainResult is the response body for a completed training run.
type TrainResult struct {
	ModelType        ModelType    `json:"modelType"`
	Version          int          `json:"version"`
	TrainedAt        time.Time    `json:"trainedAt"`
	TrainingExamples int          `json:"trainingExamples"`
	Performance      *Performance `json:"performance"`
}

// PerformanceResponse reports a model's held-out evaluation metrics.
type PerformanceResponse struct {
	ModelType   ModelType    `json:"modelType"`
	Version     int          `json:"version"`
	TrainedAt   time.Time    `json:"trainedAt"`
	Performance *Performance `json:"performance"`
}

// HistoryEntry summarizes a superseded model version.
type HistoryEntry struct {
	Version          int       `json:"version"`
	TrainedAt        time.Time `json:"trainedAt"`
	TrainingExamples int       `json:"trainingExamples"`
	Accuracy         float64   `json:"accuracy"`
}

// ImportanceResponse reports a model's most influential features per
// category.
type ImportanceResponse struct {
	ModelType  ModelType             `json:"modelType"`
	Version    int                   `json:"version"`
	Categories []*CategoryImportance `json:"categories"`
}

// NewHandler creates a Handler with the given system, logger, and
// request body size limit.
func NewHandler(sys System, logger *slog.Logger, maxBodySize int64) *Handler {
	return &Handler{
		sys:         sys,
		logger:      logger.With("handler", "models"),
		maxBodySize: maxBodySize,
	}
}

// Routes returns the route group definition for model endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/models",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "/{type}/train", Handler: h.Train},
			{Method: "GET", Pattern: "/{type}/performance", Handler: h.Performance},
			{Method: "GET", Pattern: "/{type}/importance", Handler: h.Importance},
			{Method: "GET", Pattern: "/{type}/history", Handler: h.History},
		},
	}
}

// List reports the training state of every configured model type.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	statuses := make([]ModelStatus, 0, len(h.sys.Types()))
	for _, mt := range h.sys.Types() {
		status := ModelStatus{ModelType: mt}
		if snapshot, err := h.sys.Snapshot(mt); err == nil {
			status.Trained = true
			status.Version = snapshot.Version
			status.TrainedAt = &snapshot.TrainedAt
		}
		statuses = append(statuses, status)
	}
	handlers.RespondJSON(w, http.StatusOK, statuses)
}

// Train accepts a labeled corpus and publishes a new model version.
func (h *Handler) Train(w http.ResponseWriter, r *http.Request) {
	mt, err := h.sys.Parse(r.PathValue("type"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	var req TrainingRequest
	body := http.MaxBytesReader(w, r.Body, h.maxBodySize)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	snapshot, err := h.sys.Train(r.Context(), mt, req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, TrainResult{
		ModelType:        snapshot.ModelType,
		Version:          snapshot.Version,
		TrainedAt:        snapshot.TrainedAt,
		TrainingExamples: snapshot.TrainingExamples,
		Performance:      snapshot.Performance,
	})
}

// Performance returns the active model's evaluation metrics.
func (h *Handler) Performance(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	handlers.RespondJSON(w, http.StatusOK, PerformanceResponse{
		ModelType:   snapshot.ModelType,
		Version:     snapshot.Version,
		TrainedAt:   snapshot.TrainedAt,
		Performance: snapshot.Performance,
	})
}

// Importance returns the active model's strongest features per category.
func (h *Handler) Importance(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	handlers.RespondJSON(w, http.StatusOK, ImportanceResponse{
		ModelType:  snapshot.ModelType,
		Version:    snapshot.Version,
		Categories: snapshot.Importance,
	})
}

// History lists superseded model versions, oldest first.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	mt, err := h.sys.Parse(r.PathValue("type"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	snapshots := h.sys.History(mt)
	entries := make([]HistoryEntry, 0, len(snapshots))
	for _, s := range snapshots {
		entry := HistoryEntry{
			Version:          s.Version,
			TrainedAt:        s.TrainedAt,
			TrainingExamples: s.TrainingExamples,
		}
		if s.Performance != nil {
			entry.Accuracy = s.Performance.Accuracy
		}
		entries = append(entries, entry)
	}
	handlers.RespondJSON(w, http.StatusOK, entries)
}

func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) (*Snapshot, bool) {
	mt, err := h.sys.Parse(r.PathValue("type"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return nil, false
	}
	snapshot, err := h.sys.Snapshot(mt)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return nil, false
	}
	return snapshot, true
}
