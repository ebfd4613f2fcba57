package classifications

import (
	"encoding/json"
	"fmt"

	"github.com/wayfound/atlas/pkg/repository"
)

const classificationTable = "classifications"

// classificationColumns orders the scanned columns. top_category is
// denormalized from categories[0] so category filters stay indexable;
// it is never read back into the record.
var classificationColumns = []string{
	"id",
	"text_analysis_id",
	"user_id",
	"input_text",
	"model_type",
	"model_version",
	"categories",
	"confidence",
	"created_at",
	"corrected_at",
	"correction_history",
}

func scanClassification(s repository.Scanner) (Classification, error) {
	var c Classification
	var categoriesRaw, historyRaw []byte

	err := s.Scan(
		&c.ID,
		&c.TextAnalysisID,
		&c.UserID,
		&c.InputText,
		&c.ModelType,
		&c.ModelVersion,
		&categoriesRaw,
		&c.Confidence,
		&c.CreatedAt,
		&c.CorrectedAt,
		&historyRaw,
	)
	if err != nil {
		return c, err
	}

	if err := json.Unmarshal(categoriesRaw, &c.Categories); err != nil {
		return c, fmt.Errorf("unmarshal categories: %w", err)
	}
	if len(historyRaw) > 0 {
		if err := json.Unmarshal(historyRaw, &c.CorrectionHistory); err != nil {
			return c, fmt.Errorf("unmarshal correction_history: %w", err)
		}
	}
	if c.CorrectionHistory == nil {
		c.CorrectionHistory = []Correction{}
	}

	return c, nil
}

func marshalCategories(c Classification) ([]byte, []byte, error) {
	categories, err := json.Marshal(c.Categories)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal categories: %w", err)
	}
	history, err := json.Marshal(c.CorrectionHistory)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal correction_history: %w", err)
	}
	return categories, history, nil
}
