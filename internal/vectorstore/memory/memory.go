package memory

import (
	"fmt"
	"sort"
	"sync"

	"wagonrag/internal/domain"
	"wagonrag/internal/vectorstore"
)

// Store is an in-memory vector store using brute-force squared Euclidean
// scans. It backs tests and throwaway runs; collections do not survive the
// process.
type Store struct {
	mu          sync.RWMutex
	collections map[string][]domain.Record
}

func NewStore() *Store {
	return &Store{collections: make(map[string][]domain.Record)}
}

func (s *Store) Reset(collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[collection] = nil
	return nil
}

func (s *Store) Upsert(collection string, records []domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.collections[collection]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, collection)
	}
	if len(existing) > 0 && len(records) > 0 && len(existing[0].Vector) != len(records[0].Vector) {
		return fmt.Errorf("%w: vector dimension mismatch", domain.ErrIngestion)
	}
	s.collections[collection] = append(existing, records...)
	return nil
}

func (s *Store) Query(collection string, vector []float64, k int) ([]domain.Hit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records, ok := s.collections[collection]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, collection)
	}
	if k <= 0 {
		k = 3
	}
	hits := make([]domain.Hit, 0, len(records))
	for _, r := range records {
		hits = append(hits, domain.Hit{
			ID:       r.ID,
			Metadata: r.Metadata,
			Document: r.Document,
			Distance: vectorstore.SquaredEuclidean(r.Vector, vector),
		})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

func (s *Store) Count(collection string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records, ok := s.collections[collection]
	if !ok {
		return 0, fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, collection)
	}
	return len(records), nil
}

func (s *Store) Close() error { return nil }
