package analytics_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/wayfound/atlas/internal/analytics"
)

func TestParseTimeframe(t *testing.T) {
	valid := []struct {
		raw  string
		want time.Duration
	}{
		{"1h", time.Hour},
		{"24h", 24 * time.Hour},
		{"7d", 7 * 24 * time.Hour},
		{"2w", 14 * 24 * time.Hour},
	}
	for _, tc := range valid {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := analytics.ParseTimeframe(tc.raw)
			if err != nil {
				t.Fatalf("ParseTimeframe(%q): %v", tc.raw, err)
			}
			if got != tc.want {
				t.Errorf("duration = %v, want %v", got, tc.want)
			}
		})
	}

	invalid := []string{"", "h", "24", "0h", "-3d", "3m", "1.5h", "24 h", "week"}
	for _, raw := range invalid {
		t.Run("rejects "+raw, func(t *testing.T) {
			_, err := analytics.ParseTimeframe(raw)
			if !errors.Is(err, analytics.ErrInvalidTimeframe) {
				t.Errorf("ParseTimeframe(%q) err = %v, want ErrInvalidTimeframe", raw, err)
			}
		})
	}
}

func TestRank(t *testing.T) {
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	rows := []analytics.Row{
		{Category: "beach", Confidence: 0.9, CreatedAt: base},
		{Category: "beach", Confidence: 0.8, CreatedAt: base.Add(-time.Hour)},
		{Category: "city", Confidence: 0.7, CreatedAt: base.Add(-2 * time.Hour)},
		{Category: "hiking", Confidence: 0.6, CreatedAt: base.Add(-time.Minute)},
	}

	t.Run("orders by count then recency", func(t *testing.T) {
		ranked := analytics.Rank(rows, 10)
		if len(ranked) != 3 {
			t.Fatalf("ranked = %d entries, want 3", len(ranked))
		}
		if ranked[0].Category != "beach" || ranked[0].Count != 2 {
			t.Errorf("first = %+v, want beach with count 2", ranked[0])
		}
		// hiking and city tie on count; hiking is more recent
		if ranked[1].Category != "hiking" {
			t.Errorf("second = %s, want hiking", ranked[1].Category)
		}
	})

	t.Run("tracks most recent activity", func(t *testing.T) {
		ranked := analytics.Rank(rows, 10)
		if !ranked[0].LastSeen.Equal(base) {
			t.Errorf("LastSeen = %v, want %v", ranked[0].LastSeen, base)
		}
	})

	t.Run("truncates to limit", func(t *testing.T) {
		ranked := analytics.Rank(rows, 1)
		if len(ranked) != 1 {
			t.Errorf("ranked = %d entries, want 1", len(ranked))
		}
	})

	t.Run("limit below one clamps to default", func(t *testing.T) {
		many := make([]analytics.Row, 0, 15)
		for i := 0; i < 15; i++ {
			many = append(many, analytics.Row{
				Category:  string(rune('a' + i)),
				CreatedAt: base,
			})
		}
		ranked := analytics.Rank(many, 0)
		if len(ranked) != analytics.DefaultTrendingLimit {
			t.Errorf("ranked = %d entries, want %d",
				len(ranked), analytics.DefaultTrendingLimit)
		}
	})

	t.Run("empty window yields empty ranking", func(t *testing.T) {
		if ranked := analytics.Rank(nil, 10); len(ranked) != 0 {
			t.Errorf("ranked = %v, want empty", ranked)
		}
	})
}

func TestHistogram(t *testing.T) {
	rows := []analytics.Row{
		{Confidence: 0.05},
		{Confidence: 0.19},
		{Confidence: 0.2},
		{Confidence: 0.55},
		{Confidence: 0.85},
		{Confidence: 1.0},
	}

	buckets := analytics.Histogram(rows)
	if len(buckets) != 5 {
		t.Fatalf("buckets = %d, want 5", len(buckets))
	}

	wantCounts := []int{2, 1, 1, 0, 2}
	for i, want := range wantCounts {
		if buckets[i].Count != want {
			t.Errorf("bucket %s count = %d, want %d",
				buckets[i].Range, buckets[i].Count, want)
		}
	}

	var total int
	for _, b := range buckets {
		total += b.Count
	}
	if total != len(rows) {
		t.Errorf("total = %d, want %d", total, len(rows))
	}
}

func TestAverageConfidence(t *testing.T) {
	t.Run("empty window is zero", func(t *testing.T) {
		if avg := analytics.AverageConfidence(nil); avg != 0 {
			t.Errorf("avg = %g, want 0", avg)
		}
	})

	t.Run("computes mean", func(t *testing.T) {
		rows := []analytics.Row{{Confidence: 0.4}, {Confidence: 0.8}}
		if avg := analytics.AverageConfidence(rows); math.Abs(avg-0.6) > 1e-12 {
			t.Errorf("avg = %g, want 0.6", avg)
		}
	})
}
