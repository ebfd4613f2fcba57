package features_test

import (
	"math"
	"testing"

	"github.com/wayfound/atlas/internal/features"
)

func TestBuildVocabulary(t *testing.T) {
	docs := []map[string]int{
		{"beach": 2, "sunny": 1},
		{"beach": 1, "rainy": 1},
	}

	t.Run("assigns deterministic sorted indexes", func(t *testing.T) {
		a := features.BuildVocabulary(docs, 1)
		b := features.BuildVocabulary(docs, 1)

		if a.Size() != 3 || b.Size() != 3 {
			t.Fatalf("sizes = %d, %d, want 3", a.Size(), b.Size())
		}
		for term, idx := range a.Terms {
			if b.Terms[term] != idx {
				t.Errorf("term %q: index %d vs %d", term, idx, b.Terms[term])
			}
		}
	})

	t.Run("filters rare terms by document frequency", func(t *testing.T) {
		v := features.BuildVocabulary(docs, 2)
		if v.Size() != 1 {
			t.Fatalf("size = %d, want 1", v.Size())
		}
		if _, ok := v.Index("beach"); !ok {
			t.Error("beach missing from vocabulary")
		}
	})

	t.Run("records document counts", func(t *testing.T) {
		v := features.BuildVocabulary(docs, 1)
		if v.DocCount != 2 {
			t.Errorf("DocCount = %d, want 2", v.DocCount)
		}
		idx, _ := v.Index("beach")
		if v.DocFreq[idx] != 2 {
			t.Errorf("DocFreq[beach] = %d, want 2", v.DocFreq[idx])
		}
	})
}

func TestIDF(t *testing.T) {
	docs := []map[string]int{
		{"beach": 1, "rare": 1},
		{"beach": 1},
		{"beach": 1},
	}
	v := features.BuildVocabulary(docs, 1)

	common, _ := v.Index("beach")
	rare, _ := v.Index("rare")

	if v.IDF(rare) <= v.IDF(common) {
		t.Errorf("IDF(rare) = %g, IDF(common) = %g, want rare > common",
			v.IDF(rare), v.IDF(common))
	}

	want := math.Log(4.0/4.0) + 1
	if got := v.IDF(common); math.Abs(got-want) > 1e-12 {
		t.Errorf("IDF(common) = %g, want %g", got, want)
	}
}
