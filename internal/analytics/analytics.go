// Package analytics computes aggregate views over stored classifications:
// corpus-wide stats, trending categories, and windowed insights.
package analytics

import "time"

// Stats summarizes the full classification store.
type Stats struct {
	TotalCount        int64            `json:"totalCount"`
	CountByCategory   map[string]int64 `json:"countByCategory"`
	CountByModelType  map[string]int64 `json:"countByModelType"`
	AverageConfidence float64          `json:"averageConfidence"`
}

// TrendingCategory is one category's activity within a time window.
type TrendingCategory struct {
	Category string    `json:"category"`
	Count    int       `json:"count"`
	LastSeen time.Time `json:"lastSeen"`
}

// Bucket is one confidence histogram bucket.
type Bucket struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

// Insights reports windowed classification activity.
type Insights struct {
	Timeframe           string             `json:"timeframe"`
	Volume              int                `json:"volume"`
	AverageConfidence   float64            `json:"averageConfidence"`
	TopCategories       []TrendingCategory `json:"topCategories"`
	ConfidenceHistogram []Bucket           `json:"confidenceHistogram"`
}

// Row is one windowed classification observation, the input to the pure
// ranking and histogram functions.
type Row struct {
	Category   string
	Confidence float64
	CreatedAt  time.Time
}
