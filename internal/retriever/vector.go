package retriever

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"wagonrag/internal/domain"
	"wagonrag/internal/embedding"
)

// VectorRetriever ranks catalog items against a text query by nearest
// neighbor search over the stored vectors. All failure modes degrade to an
// empty result: callers always get something printable.
type VectorRetriever struct {
	store      domain.VectorStore
	query      *embedding.QueryEmbedder
	collection string
	imageDir   string
}

func NewVectorRetriever(store domain.VectorStore, query *embedding.QueryEmbedder, collection, imageDir string) *VectorRetriever {
	return &VectorRetriever{store: store, query: query, collection: collection, imageDir: imageDir}
}

// Search embeds the query and returns up to k contexts, best first.
// Relevance is max(0, 1-d): with unit-normalized vectors squared Euclidean
// distance sits in [0, 2], so 0 maps to a perfect match and anything at 1 or
// beyond to unrelated.
func (r *VectorRetriever) Search(ctx context.Context, query string, k int) ([]domain.RetrievedContext, error) {
	vec, err := r.query.Embed(ctx, query)
	if err != nil {
		logrus.WithError(err).Warn("query embedding failed, returning no results")
		return nil, nil
	}
	hits, err := r.store.Query(r.collection, vec, k)
	if err != nil {
		if errors.Is(err, domain.ErrCollectionNotFound) {
			logrus.WithField("collection", r.collection).
				Warn("collection not found, run ingestion first")
			return nil, nil
		}
		return nil, err
	}
	contexts := make([]domain.RetrievedContext, 0, len(hits))
	for _, h := range hits {
		contexts = append(contexts, domain.RetrievedContext{
			Filename:    h.Metadata.Filename,
			Description: h.Metadata.Description,
			Relevance:   relevance(h.Distance),
			ImagePath:   filepath.Join(r.imageDir, h.Metadata.Filename),
		})
	}
	return contexts, nil
}

func relevance(distance float64) float64 {
	score := 1 - distance
	if score < 0 {
		return 0
	}
	return score
}
