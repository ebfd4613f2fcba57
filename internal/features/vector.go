package features

// SparseVector is a feature-index to weight mapping. Most texts touch a
// small fraction of the vocabulary, so vectors stay sparse.
type SparseVector map[int]float64

// Dot computes the dot product against a dense weight vector. Indices
// beyond the dense vector's length contribute nothing.
func (s SparseVector) Dot(dense []float64) float64 {
	var sum float64
	for idx, w := range s {
		if idx < len(dense) {
			sum += w * dense[idx]
		}
	}
	return sum
}

// L1 returns the sum of the vector's weights.
func (s SparseVector) L1() float64 {
	var sum float64
	for _, w := range s {
		sum += w
	}
	return sum
}
