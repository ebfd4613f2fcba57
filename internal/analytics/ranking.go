package analytics

import (
	"fmt"
	"sort"
)

// DefaultTrendingLimit bounds trending results when no limit is given.
const DefaultTrendingLimit = 10

// histogramBuckets partitions [0, 1] confidence into five ranges; the
// final bucket is closed so a confidence of exactly 1 lands in it.
const histogramBuckets = 5

// Rank aggregates windowed rows into trending categories ordered by
// count descending, with ties broken by most recent activity and then
// by category name. Results truncate to limit; limits below 1 clamp to
// the default.
func Rank(rows []Row, limit int) []TrendingCategory {
	if limit < 1 {
		limit = DefaultTrendingLimit
	}

	byCategory := make(map[string]*TrendingCategory)
	for _, row := range rows {
		entry, ok := byCategory[row.Category]
		if !ok {
			entry = &TrendingCategory{Category: row.Category}
			byCategory[row.Category] = entry
		}
		entry.Count++
		if row.CreatedAt.After(entry.LastSeen) {
			entry.LastSeen = row.CreatedAt
		}
	}

	ranked := make([]TrendingCategory, 0, len(byCategory))
	for _, entry := range byCategory {
		ranked = append(ranked, *entry)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		if !ranked[i].LastSeen.Equal(ranked[j].LastSeen) {
			return ranked[i].LastSeen.After(ranked[j].LastSeen)
		}
		return ranked[i].Category < ranked[j].Category
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Histogram buckets windowed confidences into five equal ranges.
func Histogram(rows []Row) []Bucket {
	buckets := make([]Bucket, histogramBuckets)
	for i := range buckets {
		buckets[i].Range = fmt.Sprintf("%.1f-%.1f",
			float64(i)*0.2, float64(i+1)*0.2)
	}

	for _, row := range rows {
		idx := int(row.Confidence / 0.2)
		if idx >= histogramBuckets {
			idx = histogramBuckets - 1
		}
		if idx < 0 {
			idx = 0
		}
		buckets[idx].Count++
	}
	return buckets
}

// AverageConfidence computes the mean confidence of windowed rows,
// zero when empty.
func AverageConfidence(rows []Row) float64 {
	if len(rows) == 0 {
		return 0
	}
	var sum float64
	for _, row := range rows {
		sum += row.Confidence
	}
	return sum / float64(len(rows))
}
