package models_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wayfound/atlas/internal/features"
	"github.com/wayfound/atlas/internal/models"
	"github.com/wayfound/atlas/pkg/lifecycle"
)

type mockSystem struct {
	trainFn    func(ctx context.Context, mt models.ModelType, req models.TrainingRequest) (*models.Snapshot, error)
	snapshotFn func(mt models.ModelType) (*models.Snapshot, error)
	historyFn  func(mt models.ModelType) []*models.Snapshot
}

func (m *mockSystem) Start(lc *lifecycle.Coordinator) {}

func (m *mockSystem) Types() []models.ModelType {
	return models.DefaultTypes()
}

func (m *mockSystem) Parse(raw string) (models.ModelType, error) {
	return models.NewTypeSet(models.DefaultTypes()...).Parse(raw)
}

func (m *mockSystem) Train(ctx context.Context, mt models.ModelType, req models.TrainingRequest) (*models.Snapshot, error) {
	return m.trainFn(ctx, mt, req)
}

func (m *mockSystem) Snapshot(mt models.ModelType) (*models.Snapshot, error) {
	return m.snapshotFn(mt)
}

func (m *mockSystem) History(mt models.ModelType) []*models.Snapshot {
	if m.historyFn == nil {
		return nil
	}
	return m.historyFn(mt)
}

func (m *mockSystem) Extractor() *features.Extractor {
	return features.NewExtractor()
}

func setupMux(sys models.System) *http.ServeMux {
	h := models.NewHandler(sys, slog.New(slog.NewTextHandler(io.Discard, nil)), 1<<20)
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

func sampleSnapshot() *models.Snapshot {
	return &models.Snapshot{
		ModelType: models.TypeSentiment,
		Version:   3,
		Labels:    []string{"negative", "positive"},
		TrainedAt: time.Now().UTC().Truncate(time.Second),
		Performance: &models.Performance{
			Accuracy:          0.9,
			EvaluatedExamples: 10,
		},
		Importance: []*models.CategoryImportance{
			{Category: "positive", Features: []models.FeatureWeight{{Term: "amazing", Weight: 1.2}}},
		},
	}
}

func TestHandlerTrain(t *testing.T) {
	t.Run("returns published version", func(t *testing.T) {
		sys := &mockSystem{
			trainFn: func(_ context.Context, mt models.ModelType, req models.TrainingRequest) (*models.Snapshot, error) {
				if len(req.Examples) != 4 {
					t.Errorf("examples = %d, want 4", len(req.Examples))
				}
				return sampleSnapshot(), nil
			},
		}
		mux := setupMux(sys)

		body, _ := json.Marshal(models.TrainingRequest{Examples: []models.Example{
			{Text: "amazing trip", Label: "positive"},
			{Text: "wonderful stay", Label: "positive"},
			{Text: "awful hotel", Label: "negative"},
			{Text: "terrible food", Label: "negative"},
		}})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/models/sentiment/train", bytes.NewReader(body))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var result models.TrainResult
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if result.Version != 3 {
			t.Errorf("version = %d, want 3", result.Version)
		}
	})

	t.Run("unknown model type returns 400", func(t *testing.T) {
		mux := setupMux(&mockSystem{})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/models/fantasy/train", bytes.NewReader([]byte("{}")))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		mux := setupMux(&mockSystem{})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/models/general/train", bytes.NewReader([]byte("{not json")))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("insufficient data returns 500", func(t *testing.T) {
		sys := &mockSystem{
			trainFn: func(_ context.Context, _ models.ModelType, _ models.TrainingRequest) (*models.Snapshot, error) {
				return nil, fmt.Errorf("train: %w", models.ErrInsufficientData)
			},
		}
		mux := setupMux(sys)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/models/general/train", bytes.NewReader([]byte(`{"examples":[]}`)))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
	})
}

func TestHandlerPerformance(t *testing.T) {
	t.Run("returns metrics for trained model", func(t *testing.T) {
		sys := &mockSystem{
			snapshotFn: func(mt models.ModelType) (*models.Snapshot, error) {
				return sampleSnapshot(), nil
			},
		}
		mux := setupMux(sys)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/models/sentiment/performance", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var result models.PerformanceResponse
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if result.Performance.Accuracy != 0.9 {
			t.Errorf("accuracy = %g, want 0.9", result.Performance.Accuracy)
		}
	})

	t.Run("untrained model returns 404", func(t *testing.T) {
		sys := &mockSystem{
			snapshotFn: func(mt models.ModelType) (*models.Snapshot, error) {
				return nil, models.ErrModelUnavailable
			},
		}
		mux := setupMux(sys)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/models/topic/performance", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestHandlerImportance(t *testing.T) {
	sys := &mockSystem{
		snapshotFn: func(mt models.ModelType) (*models.Snapshot, error) {
			return sampleSnapshot(), nil
		},
	}
	mux := setupMux(sys)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/models/sentiment/importance", nil)
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var result models.ImportanceResponse
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result.Categories) != 1 || result.Categories[0].Category != "positive" {
		t.Errorf("categories = %+v, want positive entry", result.Categories)
	}
}

func TestHandlerList(t *testing.T) {
	sys := &mockSystem{
		snapshotFn: func(mt models.ModelType) (*models.Snapshot, error) {
			if mt == models.TypeSentiment {
				return sampleSnapshot(), nil
			}
			return nil, models.ErrModelUnavailable
		},
	}
	mux := setupMux(sys)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/models", nil)
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var statuses []models.ModelStatus
	if err := json.NewDecoder(rec.Body).Decode(&statuses); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(statuses) != 4 {
		t.Fatalf("statuses = %d, want 4", len(statuses))
	}
	var trained int
	for _, s := range statuses {
		if s.Trained {
			trained++
			if s.ModelType != models.TypeSentiment {
				t.Errorf("trained type = %s, want SENTIMENT", s.ModelType)
			}
		}
	}
	if trained != 1 {
		t.Errorf("trained count = %d, want 1", trained)
	}
}

func TestHandlerHistory(t *testing.T) {
	t.Run("lists superseded versions oldest first", func(t *testing.T) {
		sys := &mockSystem{
			historyFn: func(mt models.ModelType) []*models.Snapshot {
				older := sampleSnapshot()
				older.Version = 1
				newer := sampleSnapshot()
				newer.Version = 2
				return []*models.Snapshot{older, newer}
			},
		}
		mux := setupMux(sys)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/models/sentiment/history", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var entries []models.HistoryEntry
		if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("entries = %d, want 2", len(entries))
		}
		if entries[0].Version != 1 || entries[1].Version != 2 {
			t.Errorf("versions = [%d %d], want [1 2]", entries[0].Version, entries[1].Version)
		}
		if entries[0].Accuracy != 0.9 {
			t.Errorf("accuracy = %g, want 0.9", entries[0].Accuracy)
		}
	})

	t.Run("no history returns empty list", func(t *testing.T) {
		mux := setupMux(&mockSystem{})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/models/general/history", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var entries []models.HistoryEntry
		if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("entries = %d, want 0", len(entries))
		}
	})

	t.Run("unknown model type returns 400", func(t *testing.T) {
		mux := setupMux(&mockSystem{})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/models/fantasy/history", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}
