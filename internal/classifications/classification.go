// Package classifications implements the classification domain for Atlas.
// It provides types, data access, and business logic for scoring text
// against trained models and for storing, querying, and correcting the
// resulting classification records.
package classifications

import (
	"time"

	"github.com/google/uuid"

	"github.com/wayfound/atlas/internal/models"
)

// Classification is a stored classification result. Categories holds the
// full distribution ordered by descending score; Confidence always equals
// the top category's score.
type Classification struct {
	ID                uuid.UUID              `json:"id"`
	TextAnalysisID    *uuid.UUID             `json:"textAnalysisId"`
	UserID            *uuid.UUID             `json:"userId"`
	InputText         string                 `json:"inputText"`
	ModelType         models.ModelType       `json:"modelType"`
	ModelVersion      int                    `json:"modelVersion"`
	Categories        []models.CategoryScore `json:"categories"`
	Confidence        float64                `json:"confidence"`
	CreatedAt         time.Time              `json:"createdAt"`
	CorrectedAt       *time.Time             `json:"correctedAt"`
	CorrectionHistory []Correction           `json:"correctionHistory"`
}

// Correction is one superseded category distribution, recorded when a
// classification is manually corrected.
type Correction struct {
	Categories  []models.CategoryScore `json:"categories"`
	CorrectedAt time.Time              `json:"correctedAt"`
}

// Correct replaces the category distribution with a manual correction.
// The superseded distribution is appended to the correction history as
// a single entry and confidence is recomputed from the new top
// category. The input is copied and re-ranked so corrected
// distributions order the same way model output does.
func (c *Classification) Correct(categories []models.CategoryScore, now time.Time) {
	corrected := make([]models.CategoryScore, len(categories))
	copy(corrected, categories)
	sortCategories(corrected)

	c.CorrectionHistory = append(c.CorrectionHistory, Correction{
		Categories:  c.Categories,
		CorrectedAt: now,
	})
	c.Categories = corrected
	c.Confidence = corrected[0].Score
	c.CorrectedAt = &now
}

// ClassifyCommand carries the input for a persisted classification.
// ModelType falls back to the default type when empty.
type ClassifyCommand struct {
	Text           string     `json:"text"`
	ModelType      string     `json:"modelType"`
	TextAnalysisID *uuid.UUID `json:"textAnalysisId"`
	UserID         *uuid.UUID `json:"userId"`
}

// PredictCommand carries the input for an ephemeral prediction.
type PredictCommand struct {
	Text      string `json:"text"`
	ModelType string `json:"modelType"`
}

// Prediction is the unpersisted result of a predict request.
type Prediction struct {
	ModelType    models.ModelType       `json:"modelType"`
	ModelVersion int                    `json:"modelVersion"`
	Categories   []models.CategoryScore `json:"categories"`
	Confidence   float64                `json:"confidence"`
}

// BatchCommand carries the inputs for a batch classification.
type BatchCommand struct {
	Items []ClassifyCommand `json:"items"`
}

// BatchResult reports one batch item's outcome. Exactly one of
// Classification and Error is set; results keep input order.
type BatchResult struct {
	Classification *Classification `json:"classification,omitempty"`
	Error          string          `json:"error,omitempty"`
}

// UpdateCommand carries a manual correction. Categories replaces the
// stored distribution and must be non-empty.
type UpdateCommand struct {
	Categories []models.CategoryScore `json:"categories"`
}
