// Package features turns raw text into sparse numeric feature vectors for
// classification: tokenization, stop-word filtering, n-gram counting, and
// TF-IDF weighting against a trained vocabulary.
package features

import (
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`[a-z0-9']+`)

// Extractor converts text into term counts and feature vectors. Extraction
// is deterministic: identical text and vocabulary always produce an
// identical vector.
type Extractor struct {
	stopWords map[string]struct{}
	bigrams   bool
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithoutBigrams disables bigram features, leaving unigrams only.
func WithoutBigrams() Option {
	return func(e *Extractor) { e.bigrams = false }
}

// WithStopWords replaces the default stop-word set.
func WithStopWords(words ...string) Option {
	return func(e *Extractor) { e.stopWords = wordSet(words...) }
}

// NewExtractor creates an Extractor with the default stop-word set and
// unigram+bigram features.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		stopWords: defaultStopWords,
		bigrams:   true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Tokenize lowercases text, splits on word boundaries, and drops stop
// words and single-character tokens. When bigrams are enabled, adjacent
// surviving tokens are appended as "a b" pairs after the unigrams.
func (e *Extractor) Tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)

	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		if len(tok) < 2 {
			continue
		}
		if _, stop := e.stopWords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}

	if e.bigrams {
		unigrams := len(tokens)
		for i := 0; i+1 < unigrams; i++ {
			tokens = append(tokens, tokens[i]+" "+tokens[i+1])
		}
	}

	return tokens
}

// Terms returns the token counts for text.
func (e *Extractor) Terms(text string) map[string]int {
	counts := make(map[string]int)
	for _, tok := range e.Tokenize(text) {
		counts[tok]++
	}
	return counts
}

// Extract maps the text's term counts through the vocabulary and applies
// TF-IDF weighting. Terms outside the vocabulary are dropped. Empty or
// whitespace-only text yields an empty vector; this layer never errors.
func (e *Extractor) Extract(text string, vocab *Vocabulary) SparseVector {
	vec := make(SparseVector)
	if vocab == nil {
		return vec
	}

	for term, count := range e.Terms(text) {
		idx, ok := vocab.Index(term)
		if !ok {
			continue
		}
		vec[idx] = float64(count) * vocab.IDF(idx)
	}

	return vec
}
