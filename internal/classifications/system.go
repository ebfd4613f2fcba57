package classifications

import (
	"context"

	"github.com/google/uuid"

	"github.com/wayfound/atlas/pkg/pagination"
)

// System defines the public contract for classification domain operations.
type System interface {
	Handler() *Handler

	Classify(ctx context.Context, cmd ClassifyCommand) (*Classification, error)
	BatchClassify(ctx context.Context, cmd BatchCommand) ([]BatchResult, error)
	Predict(ctx context.Context, cmd PredictCommand) (*Prediction, error)

	Find(ctx context.Context, id uuid.UUID) (*Classification, error)
	FindByTextAnalysis(ctx context.Context, analysisID uuid.UUID) ([]Classification, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page pagination.PageRequest) (*pagination.PageResult[Classification], error)
	ListByCategory(ctx context.Context, category string, page pagination.PageRequest) (*pagination.PageResult[Classification], error)
	ListByModelType(ctx context.Context, modelType string, page pagination.PageRequest) (*pagination.PageResult[Classification], error)
	ListByConfidence(ctx context.Context, min, max float64, page pagination.PageRequest) (*pagination.PageResult[Classification], error)

	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Classification, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}
