package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/wayfound/atlas/pkg/storage"
)

// ArtifactStore persists model snapshots to blob storage so trained
// models survive restarts. Each published version is written immutably
// alongside a current.json marker per model type.
type ArtifactStore struct {
	storage storage.System
}

// NewArtifactStore builds an ArtifactStore over the given blob storage.
func NewArtifactStore(s storage.System) *ArtifactStore {
	return &ArtifactStore{storage: s}
}

func versionKey(mt ModelType, version int) string {
	return fmt.Sprintf("models/%s/v%d.json", strings.ToLower(string(mt)), version)
}

func currentKey(mt ModelType) string {
	return fmt.Sprintf("models/%s/current.json", strings.ToLower(string(mt)))
}

// Save writes a snapshot under its version key and updates the model
// type's current marker.
func (a *ArtifactStore) Save(ctx context.Context, snapshot *Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	key := versionKey(snapshot.ModelType, snapshot.Version)
	if err := a.storage.Put(ctx, key, data, "application/json"); err != nil {
		return fmt.Errorf("store snapshot %s: %w", key, err)
	}
	if err := a.storage.Put(ctx, currentKey(snapshot.ModelType), data, "application/json"); err != nil {
		return fmt.Errorf("store current marker for %s: %w", snapshot.ModelType, err)
	}
	return nil
}

// LoadCurrent reads the most recently persisted snapshot for a model
// type. A missing artifact returns (nil, nil): the model has simply
// never been trained.
func (a *ArtifactStore) LoadCurrent(ctx context.Context, mt ModelType) (*Snapshot, error) {
	data, err := a.storage.Get(ctx, currentKey(mt))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load snapshot for %s: %w", mt, err)
	}
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot for %s: %w", mt, err)
	}
	return &snapshot, nil
}
