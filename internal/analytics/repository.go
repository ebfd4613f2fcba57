package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/wayfound/atlas/pkg/repository"
)

// System defines the public contract for analytics operations.
type System interface {
	Handler() *Handler

	Stats(ctx context.Context) (*Stats, error)
	Trending(ctx context.Context, timeframe string, limit int) ([]TrendingCategory, error)
	Insights(ctx context.Context, timeframe string) (*Insights, error)
}

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates an analytics repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "analytics"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		CountByCategory:  make(map[string]int64),
		CountByModelType: make(map[string]int64),
	}

	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(AVG(confidence), 0) FROM classifications",
	).Scan(&stats.TotalCount, &stats.AverageConfidence)
	if err != nil {
		return nil, fmt.Errorf("aggregate classifications: %w", err)
	}

	if err := r.groupCounts(ctx, "top_category", stats.CountByCategory); err != nil {
		return nil, err
	}
	if err := r.groupCounts(ctx, "model_type", stats.CountByModelType); err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *repo) Trending(ctx context.Context, timeframe string, limit int) ([]TrendingCategory, error) {
	rows, err := r.window(ctx, timeframe)
	if err != nil {
		return nil, err
	}
	return Rank(rows, limit), nil
}

func (r *repo) Insights(ctx context.Context, timeframe string) (*Insights, error) {
	rows, err := r.window(ctx, timeframe)
	if err != nil {
		return nil, err
	}
	return &Insights{
		Timeframe:           timeframe,
		Volume:              len(rows),
		AverageConfidence:   AverageConfidence(rows),
		TopCategories:       Rank(rows, DefaultTrendingLimit),
		ConfidenceHistogram: Histogram(rows),
	}, nil
}

// window fetches the classification observations inside a timeframe.
func (r *repo) window(ctx context.Context, timeframe string) ([]Row, error) {
	duration, err := ParseTimeframe(timeframe)
	if err != nil {
		return nil, err
	}
	since := time.Now().UTC().Add(-duration)

	return repository.QueryMany(ctx, r.db,
		`SELECT top_category, confidence, created_at
		 FROM classifications
		 WHERE created_at >= $1`,
		[]any{since},
		func(s repository.Scanner) (Row, error) {
			var row Row
			err := s.Scan(&row.Category, &row.Confidence, &row.CreatedAt)
			return row, err
		})
}

func (r *repo) groupCounts(ctx context.Context, column string, into map[string]int64) error {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(
		"SELECT %s, COUNT(*) FROM classifications GROUP BY %s", column, column))
	if err != nil {
		return fmt.Errorf("count by %s: %w", column, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("scan %s count: %w", column, err)
		}
		into[key] = count
	}
	return rows.Err()
}
