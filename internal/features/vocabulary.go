package features

import (
	"math"
	"slices"
)

// Vocabulary maps terms to feature indices and carries the document
// frequency statistics captured at training time. It is immutable once
// built and serializes as part of a model snapshot artifact.
type Vocabulary struct {
	Terms    map[string]int `json:"terms"`
	DocFreq  []int          `json:"doc_freq"`
	DocCount int            `json:"doc_count"`
}

// BuildVocabulary constructs a Vocabulary from per-document term counts.
// Terms appearing in fewer than minDocFreq documents are excluded to bound
// vocabulary size. Index assignment is deterministic (sorted term order).
func BuildVocabulary(docs []map[string]int, minDocFreq int) *Vocabulary {
	if minDocFreq < 1 {
		minDocFreq = 1
	}

	df := make(map[string]int)
	for _, doc := range docs {
		for term := range doc {
			df[term]++
		}
	}

	kept := make([]string, 0, len(df))
	for term, n := range df {
		if n >= minDocFreq {
			kept = append(kept, term)
		}
	}
	slices.Sort(kept)

	v := &Vocabulary{
		Terms:    make(map[string]int, len(kept)),
		DocFreq:  make([]int, len(kept)),
		DocCount: len(docs),
	}
	for i, term := range kept {
		v.Terms[term] = i
		v.DocFreq[i] = df[term]
	}

	return v
}

// Index returns the feature index for term.
func (v *Vocabulary) Index(term string) (int, bool) {
	idx, ok := v.Terms[term]
	return idx, ok
}

// Size returns the number of terms in the vocabulary.
func (v *Vocabulary) Size() int {
	return len(v.DocFreq)
}

// IDF returns the smoothed inverse document frequency for the term at idx:
// log((1+docs)/(1+df)) + 1.
func (v *Vocabulary) IDF(idx int) float64 {
	return math.Log(float64(1+v.DocCount)/float64(1+v.DocFreq[idx])) + 1
}
