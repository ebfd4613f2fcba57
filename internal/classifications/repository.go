package classifications

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/wayfound/atlas/internal/models"
	"github.com/wayfound/atlas/pkg/pagination"
	"github.com/wayfound/atlas/pkg/query"
	"github.com/wayfound/atlas/pkg/repository"
)

type repo struct {
	db           *sql.DB
	models       models.System
	logger       *slog.Logger
	pagination   pagination.Config
	defaultType  models.ModelType
	maxBatchSize int
	batchWorkers int
	maxBodySize  int64
}

// New creates a classification repository implementing the System
// interface. Scoring delegates to the model system; records persist to
// Postgres.
func New(
	db *sql.DB,
	modelSys models.System,
	logger *slog.Logger,
	pagination pagination.Config,
	defaultType models.ModelType,
	maxBatchSize int,
	batchWorkers int,
	maxBodySize int64,
) System {
	return &repo{
		db:           db,
		models:       modelSys,
		logger:       logger.With("system", "classifications"),
		pagination:   pagination,
		defaultType:  defaultType,
		maxBatchSize: maxBatchSize,
		batchWorkers: batchWorkers,
		maxBodySize:  maxBodySize,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination, r.maxBodySize)
}

// score runs the shared scoring path for classify and predict: resolve
// the active snapshot, extract features, and rank categories.
func (r *repo) score(text, rawType string) (*models.Snapshot, []models.CategoryScore, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil, ErrEmptyText
	}

	mt := r.defaultType
	if strings.TrimSpace(rawType) != "" {
		parsed, err := r.models.Parse(rawType)
		if err != nil {
			return nil, nil, err
		}
		mt = parsed
	}

	snapshot, err := r.models.Snapshot(mt)
	if err != nil {
		return nil, nil, err
	}

	vec := r.models.Extractor().Extract(text, snapshot.Vocabulary)
	return snapshot, snapshot.Score(vec), nil
}

func (r *repo) Classify(ctx context.Context, cmd ClassifyCommand) (*Classification, error) {
	snapshot, scores, err := r.score(cmd.Text, cmd.ModelType)
	if err != nil {
		return nil, err
	}

	c := Classification{
		ID:                uuid.New(),
		TextAnalysisID:    cmd.TextAnalysisID,
		UserID:            cmd.UserID,
		InputText:         cmd.Text,
		ModelType:         snapshot.ModelType,
		ModelVersion:      snapshot.Version,
		Categories:        scores,
		Confidence:        scores[0].Score,
		CorrectionHistory: []Correction{},
	}

	categories, history, err := marshalCategories(c)
	if err != nil {
		return nil, err
	}

	insert := fmt.Sprintf(`INSERT INTO %s
		(id, text_analysis_id, user_id, input_text, model_type, model_version,
		 top_category, categories, confidence, correction_history)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s`,
		classificationTable, strings.Join(classificationColumns, ", "))

	stored, err := repository.QueryOne(ctx, r.db, insert, []any{
		c.ID,
		c.TextAnalysisID,
		c.UserID,
		c.InputText,
		c.ModelType,
		c.ModelVersion,
		scores[0].Label,
		categories,
		c.Confidence,
		history,
	}, scanClassification)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &stored, nil
}

// BatchClassify scores every item concurrently with a bounded worker
// pool. Results keep input order and item failures never abort the
// batch.
func (r *repo) BatchClassify(ctx context.Context, cmd BatchCommand) ([]BatchResult, error) {
	if len(cmd.Items) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(cmd.Items) > r.maxBatchSize {
		return nil, fmt.Errorf("%w: %d items, limit %d",
			ErrBatchTooLarge, len(cmd.Items), r.maxBatchSize)
	}

	return ClassifyBatch(ctx, cmd.Items, r.batchWorkers, r.Classify)
}

// ClassifyBatch fans items out to classify with a bounded worker pool.
// Each result lands at the index of the item that produced it, so batch
// output keeps input order no matter how the workers interleave. Item
// failures are recorded in place and never abort the batch.
func ClassifyBatch(
	ctx context.Context,
	items []ClassifyCommand,
	workers int,
	classify func(context.Context, ClassifyCommand) (*Classification, error),
) ([]BatchResult, error) {
	results := make([]BatchResult, len(items))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, item := range items {
		g.Go(func() error {
			c, err := classify(ctx, item)
			if err != nil {
				results[i] = BatchResult{Error: err.Error()}
				return nil
			}
			results[i] = BatchResult{Classification: c}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *repo) Predict(ctx context.Context, cmd PredictCommand) (*Prediction, error) {
	snapshot, scores, err := r.score(cmd.Text, cmd.ModelType)
	if err != nil {
		return nil, err
	}
	return &Prediction{
		ModelType:    snapshot.ModelType,
		ModelVersion: snapshot.Version,
		Categories:   scores,
		Confidence:   scores[0].Score,
	}, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Classification, error) {
	q, args := query.
		NewBuilder(classificationTable, classificationColumns...).
		WhereEquals("id", id).
		Build()

	c, err := repository.QueryOne(ctx, r.db, q, args, scanClassification)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

func (r *repo) FindByTextAnalysis(ctx context.Context, analysisID uuid.UUID) ([]Classification, error) {
	q, args := query.
		NewBuilder(classificationTable, classificationColumns...).
		WhereEquals("text_analysis_id", analysisID).
		OrderBy("created_at DESC").
		Build()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanClassification)
	if err != nil {
		return nil, fmt.Errorf("query by text analysis: %w", err)
	}
	return items, nil
}

func (r *repo) ListByUser(ctx context.Context, userID uuid.UUID, page pagination.PageRequest) (*pagination.PageResult[Classification], error) {
	qb := query.
		NewBuilder(classificationTable, classificationColumns...).
		WhereEquals("user_id", userID)
	return r.paginate(ctx, qb, page)
}

func (r *repo) ListByCategory(ctx context.Context, category string, page pagination.PageRequest) (*pagination.PageResult[Classification], error) {
	qb := query.
		NewBuilder(classificationTable, classificationColumns...).
		WhereEquals("top_category", category)
	return r.paginate(ctx, qb, page)
}

func (r *repo) ListByModelType(ctx context.Context, modelType string, page pagination.PageRequest) (*pagination.PageResult[Classification], error) {
	mt, err := r.models.Parse(modelType)
	if err != nil {
		return nil, err
	}
	qb := query.
		NewBuilder(classificationTable, classificationColumns...).
		WhereEquals("model_type", mt)
	return r.paginate(ctx, qb, page)
}

func (r *repo) ListByConfidence(ctx context.Context, min, max float64, page pagination.PageRequest) (*pagination.PageResult[Classification], error) {
	if min > max {
		return nil, fmt.Errorf("%w: min %g exceeds max %g", ErrInvalidRange, min, max)
	}
	qb := query.
		NewBuilder(classificationTable, classificationColumns...).
		WhereBetween("confidence", min, max)
	return r.paginate(ctx, qb, page)
}

// Update replaces a classification's category distribution with a manual
// correction. The superseded distribution is appended to the correction
// history and confidence is recomputed from the new top category. The
// read and write share a transaction with a row lock.
func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Classification, error) {
	if len(cmd.Categories) == 0 {
		return nil, ErrEmptyCorrection
	}

	result, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Classification, error) {
		q := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1 FOR UPDATE",
			strings.Join(classificationColumns, ", "), classificationTable)

		c, err := repository.QueryOne(ctx, tx, q, []any{id}, scanClassification)
		if err != nil {
			return c, repository.MapError(err, ErrNotFound, ErrDuplicate)
		}

		c.Correct(cmd.Categories, time.Now().UTC())

		categories, history, err := marshalCategories(c)
		if err != nil {
			return c, err
		}

		update := fmt.Sprintf(`UPDATE %s SET
			top_category = $2,
			categories = $3,
			confidence = $4,
			corrected_at = $5,
			correction_history = $6
			WHERE id = $1`, classificationTable)

		if _, err := repository.Exec(ctx, tx, update,
			id, c.Categories[0].Label, categories, c.Confidence, *c.CorrectedAt, history,
		); err != nil {
			return c, fmt.Errorf("update classification: %w", err)
		}

		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Delete removes a classification, reporting whether a record existed.
// Missing ids are not an error.
func (r *repo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	affected, err := repository.Exec(ctx, r.db,
		fmt.Sprintf("DELETE FROM %s WHERE id = $1", classificationTable), id)
	if err != nil {
		return false, fmt.Errorf("delete classification: %w", err)
	}
	return affected > 0, nil
}

func (r *repo) paginate(ctx context.Context, qb *query.Builder, page pagination.PageRequest) (*pagination.PageResult[Classification], error) {
	page.Normalize(r.pagination)
	qb.OrderBy("created_at DESC")

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count classifications: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanClassification)
	if err != nil {
		return nil, fmt.Errorf("query classifications: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

// sortCategories orders scores descending with ties broken by label so
// corrected distributions rank the same way model output does.
func sortCategories(scores []models.CategoryScore) {
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].Label < scores[j].Label
	})
}
