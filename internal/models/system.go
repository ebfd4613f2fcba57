package models

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/wayfound/atlas/internal/features"
	"github.com/wayfound/atlas/pkg/lifecycle"
)

// System is the model management surface: training, snapshot access,
// and feature extraction for the classification pipeline.
type System interface {
	Start(lc *lifecycle.Coordinator)
	Types() []ModelType
	Parse(raw string) (ModelType, error)
	Train(ctx context.Context, mt ModelType, req TrainingRequest) (*Snapshot, error)
	Snapshot(mt ModelType) (*Snapshot, error)
	History(mt ModelType) []*Snapshot
	Extractor() *features.Extractor
}

type system struct {
	types     *TypeSet
	registry  *Registry
	trainer   *Trainer
	extractor *features.Extractor
	artifacts *ArtifactStore
	logger    *slog.Logger

	mu       sync.Mutex
	training map[ModelType]*sync.Mutex
}

// New builds the model System. The artifact store may be nil, in which
// case snapshots live only in memory.
func New(types *TypeSet, trainer *Trainer, extractor *features.Extractor, artifacts *ArtifactStore, logger *slog.Logger) System {
	return &system{
		types:     types,
		registry:  NewRegistry(),
		trainer:   trainer,
		extractor: extractor,
		artifacts: artifacts,
		logger:    logger.With("system", "models"),
		training:  make(map[ModelType]*sync.Mutex),
	}
}

// Start warms the registry from persisted artifacts before the server
// accepts traffic.
func (s *system) Start(lc *lifecycle.Coordinator) {
	if s.artifacts == nil {
		return
	}
	lc.OnStartup(func() {
		g, ctx := errgroup.WithContext(lc.Context())
		g.SetLimit(4)
		for _, mt := range s.types.Types() {
			g.Go(func() error {
				snapshot, err := s.artifacts.LoadCurrent(ctx, mt)
				if err != nil {
					return err
				}
				if snapshot == nil {
					return nil
				}
				s.registry.Install(snapshot)
				s.logger.Info("model restored",
					"modelType", mt,
					"version", snapshot.Version,
					"trainedAt", snapshot.TrainedAt)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			s.logger.Warn("model warm start incomplete", "error", err)
		}
	})
}

func (s *system) Types() []ModelType {
	return s.types.Types()
}

func (s *system) Parse(raw string) (ModelType, error) {
	return s.types.Parse(raw)
}

// Train fits and publishes a new snapshot for a model type. Training
// runs for the same type serialize on a per-type mutex; classification
// reads proceed against the active snapshot throughout.
func (s *system) Train(ctx context.Context, mt ModelType, req TrainingRequest) (*Snapshot, error) {
	lock := s.trainLock(mt)
	lock.Lock()
	defer lock.Unlock()

	snapshot, err := s.trainer.Train(mt, req)
	if err != nil {
		return nil, fmt.Errorf("train %s: %w", mt, err)
	}
	s.registry.Publish(snapshot)

	if s.artifacts != nil {
		if err := s.artifacts.Save(ctx, snapshot); err != nil {
			s.logger.Warn("model published but not persisted",
				"modelType", mt,
				"version", snapshot.Version,
				"error", err)
		}
	}

	s.logger.Info("model published",
		"modelType", mt,
		"version", snapshot.Version,
		"examples", snapshot.TrainingExamples,
		"accuracy", snapshot.Performance.Accuracy)
	return snapshot, nil
}

func (s *system) Snapshot(mt ModelType) (*Snapshot, error) {
	return s.registry.Get(mt)
}

func (s *system) History(mt ModelType) []*Snapshot {
	return s.registry.History(mt)
}

func (s *system) Extractor() *features.Extractor {
	return s.extractor
}

func (s *system) trainLock(mt ModelType) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.training[mt]
	if !ok {
		lock = &sync.Mutex{}
		s.training[mt] = lock
	}
	return lock
}
