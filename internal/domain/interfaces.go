package domain

import "context"

// Embedder maps images and texts into one shared fixed-length vector space.
// Implementations wrap a joint image/text embedding model behind a service
// endpoint.
type Embedder interface {
	EmbedImage(ctx context.Context, path string) ([]float64, error)
	EmbedText(ctx context.Context, text string, maxTokens int) ([]float64, error)
}

// VectorStore persists vector records grouped into named collections and
// answers k-nearest-neighbor queries by squared Euclidean distance.
type VectorStore interface {
	// Reset deletes the collection if it exists and recreates it empty.
	// Deleting a collection that was never created is not an error.
	Reset(collection string) error
	// Upsert bulk-inserts records into the collection.
	Upsert(collection string, records []Record) error
	// Query returns up to k hits ordered ascending by distance. Querying a
	// collection that was never ingested fails with ErrCollectionNotFound.
	Query(collection string, vector []float64, k int) ([]Hit, error)
	// Count reports how many records the collection holds.
	Count(collection string) (int, error)
	Close() error
}

// Retriever turns a natural-language question into ranked catalog contexts,
// best first. Implementations degrade to an empty slice instead of failing
// when retrieval is impossible.
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]RetrievedContext, error)
}

// Generator produces the final answer from a question and retrieved
// contexts. It never propagates a model failure to the caller.
type Generator interface {
	Answer(ctx context.Context, question string, contexts []RetrievedContext) string
}
