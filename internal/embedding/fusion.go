package embedding

import (
	"fmt"
	"math"

	"wagonrag/internal/domain"
)

// Fuse combines an image vector and a text vector for the same catalog item
// into the single vector that gets indexed: each input is scaled to unit L2
// norm, the two are averaged elementwise, and the mean is renormalized.
// Normalizing before averaging keeps either modality from dominating by
// magnitude; renormalizing keeps the result on the unit hypersphere so a
// unit-normalized text-only query vector is comparable on the same scale.
func Fuse(image, text []float64) ([]float64, error) {
	if len(image) != len(text) {
		return nil, fmt.Errorf("%w: dimension mismatch %d vs %d", domain.ErrEmbedding, len(image), len(text))
	}
	img, err := Normalize(image)
	if err != nil {
		return nil, err
	}
	txt, err := Normalize(text)
	if err != nil {
		return nil, err
	}
	fused := make([]float64, len(img))
	for i := range img {
		fused[i] = (img[i] + txt[i]) / 2
	}
	return Normalize(fused)
}

// Normalize returns a copy of v scaled to unit L2 norm. A zero-norm vector
// is a degenerate embedding and fails instead of producing NaNs.
func Normalize(v []float64) ([]float64, error) {
	norm := 0.0
	for _, x := range v {
		norm += x * x
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return nil, fmt.Errorf("%w: zero-norm vector", domain.ErrEmbedding)
	}
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out, nil
}
