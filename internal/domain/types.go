package domain

// CatalogItem is a single labeled image in the wagon catalog. Items are
// built once at config load and never mutated afterwards.
type CatalogItem struct {
	ID          int
	Filename    string
	Description string
	Category    string
}

// Metadata carries the catalog fields persisted next to each vector.
// ChunkIndex is set only for records produced by the chunked ingestion
// strategy.
type Metadata struct {
	Filename    string `json:"filename"`
	Description string `json:"description"`
	Category    string `json:"category"`
	ChunkIndex  *int   `json:"chunk_index,omitempty"`
}

// Record is one stored row in a vector collection.
type Record struct {
	ID       string    `json:"id"`
	Vector   []float64 `json:"vector"`
	Metadata Metadata  `json:"metadata"`
	Document string    `json:"document"`
}

// Hit is a raw nearest-neighbor result as returned by a vector store,
// before distances are converted into relevance scores.
type Hit struct {
	ID       string
	Metadata Metadata
	Document string
	Distance float64
}

// RetrievedContext is one ranked retrieval result handed to the generator.
// ImagePath is always recomputed from the configured image directory; stored
// paths are never trusted.
type RetrievedContext struct {
	Filename    string
	Description string
	Relevance   float64
	ImagePath   string
}
