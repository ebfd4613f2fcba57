package models

import (
	"math"
	"sort"
	"time"

	"github.com/wayfound/atlas/internal/features"
)

// CategoryScore is one label's share of a prediction's probability mass.
type CategoryScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Snapshot is an immutable trained model version. Once published a
// snapshot is never mutated; retraining produces a new snapshot.
type Snapshot struct {
	ModelType        ModelType             `json:"modelType"`
	Version          int                   `json:"version"`
	Vocabulary       *features.Vocabulary  `json:"vocabulary"`
	Labels           []string              `json:"labels"`
	Priors           []float64             `json:"priors"`
	Weights          map[string][]float64  `json:"weights"`
	TrainedAt        time.Time             `json:"trainedAt"`
	TrainingExamples int                   `json:"trainingExamples"`
	Performance      *Performance          `json:"performance"`
	Importance       []*CategoryImportance `json:"importance"`
}

// Score computes the category distribution for a feature vector. Raw
// per-label scores pass through a softmax so the results sum to one, and
// the output is ordered by descending score with ties broken by label so
// identical inputs always rank identically.
func (s *Snapshot) Score(vec features.SparseVector) []CategoryScore {
	raw := make([]float64, len(s.Labels))
	for i, label := range s.Labels {
		raw[i] = s.Priors[i] + vec.Dot(s.Weights[label])
	}

	max := math.Inf(-1)
	for _, v := range raw {
		if v > max {
			max = v
		}
	}

	var sum float64
	exp := make([]float64, len(raw))
	for i, v := range raw {
		exp[i] = math.Exp(v - max)
		sum += exp[i]
	}

	scores := make([]CategoryScore, len(s.Labels))
	for i, label := range s.Labels {
		scores[i] = CategoryScore{Label: label, Score: exp[i] / sum}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].Label < scores[j].Label
	})
	return scores
}

// Top returns the highest ranked category score.
func (s *Snapshot) Top(vec features.SparseVector) CategoryScore {
	return s.Score(vec)[0]
}
