package models

// Performance captures held-out evaluation metrics recorded when a model
// version is published.
type Performance struct {
	Accuracy          float64            `json:"accuracy"`
	Precision         map[string]float64 `json:"precision"`
	Recall            map[string]float64 `json:"recall"`
	Confusion         ConfusionMatrix    `json:"confusionMatrix"`
	EvaluatedExamples int                `json:"evaluatedExamples"`
}

// ConfusionMatrix counts predictions by actual label (rows) against
// predicted label (columns). Labels orders both axes.
type ConfusionMatrix struct {
	Labels []string `json:"labels"`
	Counts [][]int  `json:"counts"`
}

// FeatureWeight is a single term's learned weight toward a category.
type FeatureWeight struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

// CategoryImportance lists a category's most influential features,
// ordered by descending absolute weight.
type CategoryImportance struct {
	Category string          `json:"category"`
	Features []FeatureWeight `json:"features"`
}
