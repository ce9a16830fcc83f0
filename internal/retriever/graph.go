package retriever

import (
	"context"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"wagonrag/internal/domain"
	"wagonrag/internal/graph"
)

// GraphRetriever is the alternate retrieval path: instead of vector
// similarity it matches question keywords against the knowledge graph's
// attribute nodes and returns every file one hop away. Relevance is binary,
// connected files score a constant 1.0.
type GraphRetriever struct {
	graph    *graph.Graph
	imageDir string
}

func NewGraphRetriever(g *graph.Graph, imageDir string) *GraphRetriever {
	return &GraphRetriever{graph: g, imageDir: imageDir}
}

// Search returns one context per unique connected file. k is ignored; the
// graph has no ranking to cut by. No keyword match means an empty result.
func (r *GraphRetriever) Search(_ context.Context, query string, _ int) ([]domain.RetrievedContext, error) {
	matched := r.graph.MatchAttributes(query)
	if len(matched) == 0 {
		logrus.WithField("query", query).Debug("no attribute keywords matched")
		return nil, nil
	}
	seen := make(map[string]struct{})
	var contexts []domain.RetrievedContext
	for _, attr := range matched {
		for _, filename := range r.graph.Files(attr) {
			if _, ok := seen[filename]; ok {
				continue
			}
			seen[filename] = struct{}{}
			node := r.graph.Nodes[filename]
			contexts = append(contexts, domain.RetrievedContext{
				Filename:    filename,
				Description: node.Description,
				Relevance:   1.0,
				ImagePath:   filepath.Join(r.imageDir, filename),
			})
		}
	}
	return contexts, nil
}
