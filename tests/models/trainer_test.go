package models_test

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/wayfound/atlas/internal/features"
	"github.com/wayfound/atlas/internal/models"
)

func testTrainer() *models.Trainer {
	return models.NewTrainer(features.NewExtractor(), models.TrainerConfig{
		MinExamples:  4,
		HoldoutRatio: 0.2,
		MinDocFreq:   1,
		Smoothing:    1.0,
		TopFeatures:  10,
		Seed:         42,
	})
}

func travelCorpus() models.TrainingRequest {
	return models.TrainingRequest{
		Examples: []models.Example{
			{Text: "amazing trip to the beach", Label: "positive"},
			{Text: "wonderful amazing vacation trip", Label: "positive"},
			{Text: "terrible awful trip", Label: "negative"},
			{Text: "horrible hotel experience", Label: "negative"},
		},
	}
}

func TestTrain(t *testing.T) {
	trainer := testTrainer()

	t.Run("publishes evaluated snapshot", func(t *testing.T) {
		snapshot, err := trainer.Train(models.TypeSentiment, travelCorpus())
		if err != nil {
			t.Fatalf("Train: %v", err)
		}

		if snapshot.ModelType != models.TypeSentiment {
			t.Errorf("ModelType = %s, want SENTIMENT", snapshot.ModelType)
		}
		if snapshot.TrainingExamples != 4 {
			t.Errorf("TrainingExamples = %d, want 4", snapshot.TrainingExamples)
		}
		if snapshot.Performance == nil {
			t.Fatal("Performance is nil")
		}
		if snapshot.Performance.Accuracy <= 0 {
			t.Errorf("Accuracy = %g, want > 0", snapshot.Performance.Accuracy)
		}
		if got := snapshot.Labels; !reflect.DeepEqual(got, []string{"negative", "positive"}) {
			t.Errorf("Labels = %v, want sorted [negative positive]", got)
		}
		if len(snapshot.Priors) != len(snapshot.Labels) {
			t.Errorf("len(Priors) = %d, want %d", len(snapshot.Priors), len(snapshot.Labels))
		}
	})

	t.Run("identical corpus trains identical model", func(t *testing.T) {
		a, err := trainer.Train(models.TypeSentiment, travelCorpus())
		if err != nil {
			t.Fatalf("Train: %v", err)
		}
		b, err := trainer.Train(models.TypeSentiment, travelCorpus())
		if err != nil {
			t.Fatalf("Train: %v", err)
		}

		if !reflect.DeepEqual(a.Vocabulary.Terms, b.Vocabulary.Terms) {
			t.Error("vocabularies differ between runs")
		}
		if !reflect.DeepEqual(a.Weights, b.Weights) {
			t.Error("weights differ between runs")
		}
		if !reflect.DeepEqual(a.Priors, b.Priors) {
			t.Error("priors differ between runs")
		}
		if a.Performance.Accuracy != b.Performance.Accuracy {
			t.Errorf("accuracy differs: %g vs %g",
				a.Performance.Accuracy, b.Performance.Accuracy)
		}
	})

	t.Run("confusion matrix covers all labels", func(t *testing.T) {
		snapshot, err := trainer.Train(models.TypeSentiment, travelCorpus())
		if err != nil {
			t.Fatalf("Train: %v", err)
		}

		confusion := snapshot.Performance.Confusion
		if len(confusion.Labels) != 2 {
			t.Fatalf("confusion labels = %v, want 2", confusion.Labels)
		}
		var total int
		for _, row := range confusion.Counts {
			if len(row) != 2 {
				t.Fatalf("row length = %d, want 2", len(row))
			}
			for _, n := range row {
				total += n
			}
		}
		if total != snapshot.Performance.EvaluatedExamples {
			t.Errorf("confusion total = %d, want %d",
				total, snapshot.Performance.EvaluatedExamples)
		}
	})
}

func TestTrainValidation(t *testing.T) {
	trainer := testTrainer()

	tests := []struct {
		name     string
		examples []models.Example
	}{
		{
			name: "too few examples",
			examples: []models.Example{
				{Text: "great beach", Label: "positive"},
				{Text: "bad hotel", Label: "negative"},
			},
		},
		{
			name: "single label",
			examples: []models.Example{
				{Text: "great beach", Label: "positive"},
				{Text: "lovely resort", Label: "positive"},
				{Text: "wonderful food", Label: "positive"},
				{Text: "amazing view", Label: "positive"},
			},
		},
		{
			name: "empty text",
			examples: []models.Example{
				{Text: "  ", Label: "positive"},
				{Text: "lovely resort", Label: "positive"},
				{Text: "bad hotel", Label: "negative"},
				{Text: "awful food", Label: "negative"},
			},
		},
		{
			name: "empty label",
			examples: []models.Example{
				{Text: "great beach", Label: ""},
				{Text: "lovely resort", Label: "positive"},
				{Text: "bad hotel", Label: "negative"},
				{Text: "awful food", Label: "negative"},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := trainer.Train(models.TypeGeneral,
				models.TrainingRequest{Examples: tc.examples})
			if !errors.Is(err, models.ErrInsufficientData) {
				t.Errorf("err = %v, want ErrInsufficientData", err)
			}
		})
	}
}

func TestSnapshotScore(t *testing.T) {
	trainer := testTrainer()
	extractor := features.NewExtractor()

	snapshot, err := trainer.Train(models.TypeSentiment, travelCorpus())
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	t.Run("positive text ranks positive first", func(t *testing.T) {
		vec := extractor.Extract("amazing trip", snapshot.Vocabulary)
		scores := snapshot.Score(vec)

		if scores[0].Label != "positive" {
			t.Errorf("top label = %s, want positive", scores[0].Label)
		}
	})

	t.Run("scores sum to one and sort descending", func(t *testing.T) {
		vec := extractor.Extract("terrible hotel", snapshot.Vocabulary)
		scores := snapshot.Score(vec)

		var sum float64
		for i, s := range scores {
			sum += s.Score
			if i > 0 && s.Score > scores[i-1].Score {
				t.Errorf("scores not sorted at index %d", i)
			}
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("sum = %g, want 1", sum)
		}
	})

	t.Run("identical inputs rank identically", func(t *testing.T) {
		vec := extractor.Extract("amazing trip", snapshot.Vocabulary)
		a := snapshot.Score(vec)
		b := snapshot.Score(vec)
		if !reflect.DeepEqual(a, b) {
			t.Error("rankings differ for identical input")
		}
	})

	t.Run("ties break by label", func(t *testing.T) {
		uniform := &models.Snapshot{
			Vocabulary: snapshot.Vocabulary,
			Labels:     []string{"b", "a"},
			Priors:     []float64{0, 0},
			Weights: map[string][]float64{
				"a": make([]float64, snapshot.Vocabulary.Size()),
				"b": make([]float64, snapshot.Vocabulary.Size()),
			},
		}
		scores := uniform.Score(features.SparseVector{})
		if scores[0].Label != "a" || scores[1].Label != "b" {
			t.Errorf("tie order = %v, want label ascending", scores)
		}
	})
}

func TestFeatureImportance(t *testing.T) {
	trainer := testTrainer()

	snapshot, err := trainer.Train(models.TypeSentiment, travelCorpus())
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	if len(snapshot.Importance) != 2 {
		t.Fatalf("importance categories = %d, want 2", len(snapshot.Importance))
	}
	for _, ci := range snapshot.Importance {
		if len(ci.Features) == 0 {
			t.Errorf("category %s has no features", ci.Category)
		}
		if len(ci.Features) > 10 {
			t.Errorf("category %s has %d features, want <= 10",
				ci.Category, len(ci.Features))
		}
		for i := 1; i < len(ci.Features); i++ {
			if math.Abs(ci.Features[i].Weight) > math.Abs(ci.Features[i-1].Weight) {
				t.Errorf("category %s features not sorted by magnitude", ci.Category)
			}
		}
	}
}

func opt[T any](v T) *T { return &v }

func TestTrainOptions(t *testing.T) {
	trainer := testTrainer()

	t.Run("top features override caps importance lists", func(t *testing.T) {
		req := travelCorpus()
		req.Options = &models.TrainingOptions{TopFeatures: opt(1)}

		snapshot, err := trainer.Train(models.TypeSentiment, req)
		if err != nil {
			t.Fatalf("Train: %v", err)
		}
		for _, ci := range snapshot.Importance {
			if len(ci.Features) != 1 {
				t.Errorf("category %s has %d features, want 1",
					ci.Category, len(ci.Features))
			}
		}
	})

	t.Run("min doc freq override prunes the vocabulary", func(t *testing.T) {
		baseline, err := trainer.Train(models.TypeSentiment, travelCorpus())
		if err != nil {
			t.Fatalf("Train: %v", err)
		}

		req := travelCorpus()
		req.Options = &models.TrainingOptions{MinDocFreq: opt(2)}
		pruned, err := trainer.Train(models.TypeSentiment, req)
		if err != nil {
			t.Fatalf("Train: %v", err)
		}

		if pruned.Vocabulary.Size() == 0 {
			t.Fatal("pruned vocabulary is empty")
		}
		if pruned.Vocabulary.Size() >= baseline.Vocabulary.Size() {
			t.Errorf("pruned vocabulary = %d terms, want fewer than %d",
				pruned.Vocabulary.Size(), baseline.Vocabulary.Size())
		}
	})

	t.Run("overrides do not stick between runs", func(t *testing.T) {
		req := travelCorpus()
		req.Options = &models.TrainingOptions{TopFeatures: opt(1)}
		if _, err := trainer.Train(models.TypeSentiment, req); err != nil {
			t.Fatalf("Train: %v", err)
		}

		snapshot, err := trainer.Train(models.TypeSentiment, travelCorpus())
		if err != nil {
			t.Fatalf("Train: %v", err)
		}
		for _, ci := range snapshot.Importance {
			if len(ci.Features) <= 1 {
				t.Errorf("category %s still capped after run without overrides",
					ci.Category)
			}
		}
	})

	t.Run("rejects out-of-range overrides", func(t *testing.T) {
		tests := []struct {
			name    string
			options *models.TrainingOptions
		}{
			{"holdout ratio at one", &models.TrainingOptions{HoldoutRatio: opt(1.0)}},
			{"negative holdout ratio", &models.TrainingOptions{HoldoutRatio: opt(-0.1)}},
			{"zero smoothing", &models.TrainingOptions{Smoothing: opt(0.0)}},
			{"zero min doc freq", &models.TrainingOptions{MinDocFreq: opt(0)}},
			{"zero top features", &models.TrainingOptions{TopFeatures: opt(0)}},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				req := travelCorpus()
				req.Options = tc.options
				if _, err := trainer.Train(models.TypeSentiment, req); !errors.Is(err, models.ErrInvalidRequest) {
					t.Errorf("err = %v, want ErrInvalidRequest", err)
				}
			})
		}
	})
}
