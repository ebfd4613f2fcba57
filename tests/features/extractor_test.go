package features_test

import (
	"testing"

	"github.com/wayfound/atlas/internal/features"
)

func TestTokenize(t *testing.T) {
	e := features.NewExtractor()

	t.Run("lowercases and drops stop words", func(t *testing.T) {
		tokens := e.Tokenize("The Beach was Amazing")
		want := map[string]bool{"beach": true, "amazing": true, "beach amazing": true}
		for _, tok := range tokens {
			if !want[tok] {
				t.Errorf("unexpected token %q", tok)
			}
		}
		if len(tokens) != 3 {
			t.Errorf("tokens = %v, want 3 entries", tokens)
		}
	})

	t.Run("drops single character tokens", func(t *testing.T) {
		for _, tok := range e.Tokenize("a b hotel") {
			if tok == "a" || tok == "b" {
				t.Errorf("short token %q survived", tok)
			}
		}
	})

	t.Run("empty text yields no tokens", func(t *testing.T) {
		if tokens := e.Tokenize("   "); len(tokens) != 0 {
			t.Errorf("tokens = %v, want none", tokens)
		}
	})

	t.Run("bigrams follow unigram order", func(t *testing.T) {
		tokens := e.Tokenize("sunny beach resort")
		var found bool
		for _, tok := range tokens {
			if tok == "sunny beach" {
				found = true
			}
		}
		if !found {
			t.Errorf("tokens = %v, missing bigram", tokens)
		}
	})

	t.Run("bigrams can be disabled", func(t *testing.T) {
		plain := features.NewExtractor(features.WithoutBigrams())
		for _, tok := range plain.Tokenize("sunny beach resort") {
			if tok == "sunny beach" {
				t.Error("bigram produced with bigrams disabled")
			}
		}
	})
}

func TestExtract(t *testing.T) {
	e := features.NewExtractor()
	docs := []map[string]int{
		e.Terms("sunny beach resort"),
		e.Terms("rainy city tour"),
	}
	vocab := features.BuildVocabulary(docs, 1)

	t.Run("identical text yields identical vectors", func(t *testing.T) {
		a := e.Extract("sunny beach", vocab)
		b := e.Extract("sunny beach", vocab)
		if len(a) != len(b) {
			t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
		}
		for idx, v := range a {
			if b[idx] != v {
				t.Errorf("index %d: %g vs %g", idx, v, b[idx])
			}
		}
	})

	t.Run("unseen terms are dropped", func(t *testing.T) {
		vec := e.Extract("spaceship warp drive", vocab)
		if len(vec) != 0 {
			t.Errorf("vector = %v, want empty", vec)
		}
	})

	t.Run("empty text yields empty vector", func(t *testing.T) {
		if vec := e.Extract("", vocab); len(vec) != 0 {
			t.Errorf("vector = %v, want empty", vec)
		}
	})

	t.Run("nil vocabulary yields empty vector", func(t *testing.T) {
		if vec := e.Extract("sunny beach", nil); len(vec) != 0 {
			t.Errorf("vector = %v, want empty", vec)
		}
	})
}
