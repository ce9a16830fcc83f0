package vectorstore

import "wagonrag/internal/domain"

// Storage persists vector records and supports k-nearest-neighbor queries.
type Storage = domain.VectorStore

// SquaredEuclidean is the distance metric shared by all store adapters.
// For unit-normalized vectors it lies in [0, 2]: 0 means identical, values
// at or above 1 mean unrelated.
func SquaredEuclidean(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
