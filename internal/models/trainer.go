package models

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/wayfound/atlas/internal/features"
)

// Example is a single labeled training input.
type Example struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// TrainingRequest carries the labeled corpus for one training run,
// optionally overriding the configured hyperparameters for this run
// only.
type TrainingRequest struct {
	Examples []Example        `json:"examples"`
	Options  *TrainingOptions `json:"options,omitempty"`
}

// TrainingOptions overrides individual trainer hyperparameters for a
// single run. Nil fields keep the configured value.
type TrainingOptions struct {
	HoldoutRatio *float64 `json:"holdoutRatio,omitempty"`
	Smoothing    *float64 `json:"smoothing,omitempty"`
	MinDocFreq   *int     `json:"minDocFreq,omitempty"`
	TopFeatures  *int     `json:"topFeatures,omitempty"`
}

// TrainerConfig tunes corpus validation, the evaluation split, and the
// fitted model.
type TrainerConfig struct {
	MinExamples  int
	HoldoutRatio float64
	MinDocFreq   int
	Smoothing    float64
	TopFeatures  int
	Seed         int64
}

// Trainer fits classifier snapshots from labeled examples. Training runs
// are deterministic: the same corpus and configuration always produce
// the same snapshot.
type Trainer struct {
	extractor *features.Extractor
	config    TrainerConfig
}

// NewTrainer builds a Trainer over the given feature extractor.
func NewTrainer(extractor *features.Extractor, config TrainerConfig) *Trainer {
	return &Trainer{extractor: extractor, config: config}
}

// Train validates the corpus, measures performance on a stratified
// held-out split, then fits the published snapshot on the full corpus.
// The returned snapshot has no version; the registry assigns one at
// publish time.
func (t *Trainer) Train(modelType ModelType, req TrainingRequest) (*Snapshot, error) {
	t, err := t.with(req.Options)
	if err != nil {
		return nil, err
	}
	if err := t.validate(req.Examples); err != nil {
		return nil, err
	}

	train, holdout := t.split(req.Examples)

	evalModel := t.fit(train)
	if len(holdout) == 0 {
		holdout = train
	}
	perf := t.evaluate(evalModel, holdout)

	snapshot := t.fit(req.Examples)
	snapshot.ModelType = modelType
	snapshot.TrainedAt = time.Now().UTC()
	snapshot.TrainingExamples = len(req.Examples)
	snapshot.Performance = perf
	snapshot.Importance = t.importance(snapshot)
	return snapshot, nil
}

// with returns a Trainer whose configuration applies any per-request
// overrides. Overrides are validated against the same bounds the
// configured values are.
func (t *Trainer) with(opts *TrainingOptions) (*Trainer, error) {
	if opts == nil {
		return t, nil
	}
	cfg := t.config
	if opts.HoldoutRatio != nil {
		if *opts.HoldoutRatio < 0 || *opts.HoldoutRatio >= 1 {
			return nil, fmt.Errorf("%w: holdout ratio %g must be in [0, 1)",
				ErrInvalidRequest, *opts.HoldoutRatio)
		}
		cfg.HoldoutRatio = *opts.HoldoutRatio
	}
	if opts.Smoothing != nil {
		if *opts.Smoothing <= 0 {
			return nil, fmt.Errorf("%w: smoothing %g must be positive",
				ErrInvalidRequest, *opts.Smoothing)
		}
		cfg.Smoothing = *opts.Smoothing
	}
	if opts.MinDocFreq != nil {
		if *opts.MinDocFreq < 1 {
			return nil, fmt.Errorf("%w: min doc freq %d must be at least 1",
				ErrInvalidRequest, *opts.MinDocFreq)
		}
		cfg.MinDocFreq = *opts.MinDocFreq
	}
	if opts.TopFeatures != nil {
		if *opts.TopFeatures < 1 {
			return nil, fmt.Errorf("%w: top features %d must be at least 1",
				ErrInvalidRequest, *opts.TopFeatures)
		}
		cfg.TopFeatures = *opts.TopFeatures
	}
	return &Trainer{extractor: t.extractor, config: cfg}, nil
}

func (t *Trainer) validate(examples []Example) error {
	if len(examples) < t.config.MinExamples {
		return fmt.Errorf("%w: %d examples provided, %d required",
			ErrInsufficientData, len(examples), t.config.MinExamples)
	}
	labels := make(map[string]struct{})
	for i, ex := range examples {
		if strings.TrimSpace(ex.Text) == "" {
			return fmt.Errorf("%w: example %d has empty text", ErrInsufficientData, i)
		}
		if strings.TrimSpace(ex.Label) == "" {
			return fmt.Errorf("%w: example %d has empty label", ErrInsufficientData, i)
		}
		labels[ex.Label] = struct{}{}
	}
	if len(labels) < 2 {
		return fmt.Errorf("%w: at least 2 distinct labels required, got %d",
			ErrInsufficientData, len(labels))
	}
	return nil
}

// split partitions the corpus into training and held-out sets. The split
// is stratified by label so every label keeps at least one training
// example, and seeded so repeat runs slice identically.
func (t *Trainer) split(examples []Example) (train, holdout []Example) {
	byLabel := make(map[string][]int)
	for i, ex := range examples {
		byLabel[ex.Label] = append(byLabel[ex.Label], i)
	}
	labels := make([]string, 0, len(byLabel))
	for label := range byLabel {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	rng := rand.New(rand.NewSource(t.config.Seed))
	for _, label := range labels {
		indices := byLabel[label]
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
		held := int(float64(len(indices)) * t.config.HoldoutRatio)
		if held >= len(indices) {
			held = len(indices) - 1
		}
		for i, idx := range indices {
			if i < held {
				holdout = append(holdout, examples[idx])
			} else {
				train = append(train, examples[idx])
			}
		}
	}
	return train, holdout
}

// fit trains a multinomial naive Bayes model over tf-idf feature mass
// with additive smoothing. Per-label weights are centered across labels
// so a term's weight magnitude reflects how strongly it discriminates,
// and centering leaves softmax scores unchanged.
func (t *Trainer) fit(examples []Example) *Snapshot {
	docs := make([]map[string]int, len(examples))
	for i, ex := range examples {
		docs[i] = t.extractor.Terms(ex.Text)
	}
	vocab := features.BuildVocabulary(docs, t.config.MinDocFreq)

	labelCounts := make(map[string]int)
	for _, ex := range examples {
		labelCounts[ex.Label]++
	}
	labels := make([]string, 0, len(labelCounts))
	for label := range labelCounts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	size := vocab.Size()
	alpha := t.config.Smoothing
	mass := make(map[string][]float64, len(labels))
	for _, label := range labels {
		mass[label] = make([]float64, size)
	}
	for i, ex := range examples {
		for term, count := range docs[i] {
			idx, ok := vocab.Index(term)
			if !ok {
				continue
			}
			mass[ex.Label][idx] += float64(count) * vocab.IDF(idx)
		}
	}

	// totals sum in index order so repeat runs produce bit-identical
	// weights
	weights := make(map[string][]float64, len(labels))
	for _, label := range labels {
		var total float64
		for j := 0; j < size; j++ {
			total += mass[label][j]
		}
		w := make([]float64, size)
		denom := total + alpha*float64(size)
		for j := 0; j < size; j++ {
			w[j] = math.Log((mass[label][j] + alpha) / denom)
		}
		weights[label] = w
	}
	for j := 0; j < size; j++ {
		var mean float64
		for _, label := range labels {
			mean += weights[label][j]
		}
		mean /= float64(len(labels))
		for _, label := range labels {
			weights[label][j] -= mean
		}
	}

	priors := make([]float64, len(labels))
	for i, label := range labels {
		priors[i] = math.Log(float64(labelCounts[label]) / float64(len(examples)))
	}

	return &Snapshot{
		Vocabulary: vocab,
		Labels:     labels,
		Priors:     priors,
		Weights:    weights,
	}
}

func (t *Trainer) evaluate(model *Snapshot, holdout []Example) *Performance {
	labels := model.Labels
	index := make(map[string]int, len(labels))
	for i, label := range labels {
		index[label] = i
	}

	counts := make([][]int, len(labels))
	for i := range counts {
		counts[i] = make([]int, len(labels))
	}

	var correct int
	for _, ex := range holdout {
		vec := t.extractor.Extract(ex.Text, model.Vocabulary)
		predicted := model.Top(vec).Label
		if predicted == ex.Label {
			correct++
		}
		if ai, ok := index[ex.Label]; ok {
			counts[ai][index[predicted]]++
		}
	}

	precision := make(map[string]float64, len(labels))
	recall := make(map[string]float64, len(labels))
	for i, label := range labels {
		var predicted, actual int
		for j := range labels {
			predicted += counts[j][i]
			actual += counts[i][j]
		}
		if predicted > 0 {
			precision[label] = float64(counts[i][i]) / float64(predicted)
		}
		if actual > 0 {
			recall[label] = float64(counts[i][i]) / float64(actual)
		}
	}

	return &Performance{
		Accuracy:          float64(correct) / float64(len(holdout)),
		Precision:         precision,
		Recall:            recall,
		Confusion:         ConfusionMatrix{Labels: labels, Counts: counts},
		EvaluatedExamples: len(holdout),
	}
}

// importance extracts each label's strongest features by absolute
// centered weight.
func (t *Trainer) importance(s *Snapshot) []*CategoryImportance {
	terms := make([]string, s.Vocabulary.Size())
	for term, idx := range s.Vocabulary.Terms {
		terms[idx] = term
	}

	out := make([]*CategoryImportance, 0, len(s.Labels))
	for _, label := range s.Labels {
		w := s.Weights[label]
		ranked := make([]FeatureWeight, len(w))
		for j, weight := range w {
			ranked[j] = FeatureWeight{Term: terms[j], Weight: weight}
		}
		sort.SliceStable(ranked, func(i, j int) bool {
			ai, aj := math.Abs(ranked[i].Weight), math.Abs(ranked[j].Weight)
			if ai != aj {
				return ai > aj
			}
			return ranked[i].Term < ranked[j].Term
		})
		if len(ranked) > t.config.TopFeatures {
			ranked = ranked[:t.config.TopFeatures]
		}
		out = append(out, &CategoryImportance{Category: label, Features: ranked})
	}
	return out
}
