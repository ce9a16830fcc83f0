package embedding

import (
	"context"

	"wagonrag/internal/domain"
)

// QueryEmbedder embeds query-time text into the same normalized space as the
// stored vectors. A text-only query is compared against fused image+text
// vectors; cosine-style ranking still holds on the unit hypersphere, and the
// asymmetry is an accepted approximation of the design.
type QueryEmbedder struct {
	embedder  domain.Embedder
	maxTokens int
}

func NewQueryEmbedder(embedder domain.Embedder, maxTokens int) *QueryEmbedder {
	return &QueryEmbedder{embedder: embedder, maxTokens: maxTokens}
}

// Embed applies the ingestion-time token cap, embeds the text, and
// unit-L2-normalizes the result.
func (q *QueryEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	vec, err := q.embedder.EmbedText(ctx, text, q.maxTokens)
	if err != nil {
		return nil, err
	}
	return Normalize(vec)
}
