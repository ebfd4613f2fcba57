package api

import (
	"github.com/wayfound/atlas/internal/analytics"
	"github.com/wayfound/atlas/internal/classifications"
	"github.com/wayfound/atlas/internal/features"
	"github.com/wayfound/atlas/internal/models"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Models          models.System
	Classifications classifications.System
	Analytics       analytics.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	types := make([]models.ModelType, len(runtime.Models.Types))
	for i, t := range runtime.Models.Types {
		types[i] = models.ModelType(t)
	}
	typeSet := models.NewTypeSet(types...)

	extractor := features.NewExtractor()
	trainer := models.NewTrainer(extractor, models.TrainerConfig{
		MinExamples:  runtime.Models.MinExamples,
		HoldoutRatio: runtime.Models.HoldoutRatio,
		MinDocFreq:   runtime.Models.MinDocFreq,
		Smoothing:    runtime.Models.Smoothing,
		TopFeatures:  runtime.Models.TopFeatures,
		Seed:         runtime.Models.TrainSeed,
	})

	modelSystem := models.New(
		typeSet,
		trainer,
		extractor,
		models.NewArtifactStore(runtime.Storage),
		runtime.Logger,
	)
	modelSystem.Start(runtime.Lifecycle)

	defaultType, err := typeSet.Parse(runtime.Models.DefaultType)
	if err != nil {
		// config validation guarantees membership
		defaultType = typeSet.Types()[0]
	}

	classificationSystem := classifications.New(
		runtime.Database.Connection(),
		modelSystem,
		runtime.Logger,
		runtime.Pagination,
		defaultType,
		runtime.API.MaxBatchSize,
		runtime.API.BatchWorkers,
		runtime.API.MaxBodySizeBytes(),
	)

	analyticsSystem := analytics.New(
		runtime.Database.Connection(),
		runtime.Logger,
	)

	return &Domain{
		Models:          modelSystem,
		Classifications: classificationSystem,
		Analytics:       analyticsSystem,
	}
}
