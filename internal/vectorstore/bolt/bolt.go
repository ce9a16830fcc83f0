package bolt

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.etcd.io/bbolt"

	"wagonrag/internal/domain"
	"wagonrag/internal/vectorstore"
)

// Store is a bbolt-backed vector store. Each collection is one bucket;
// each record is a JSON value keyed by its id. Queries are brute-force
// scans, which is the right trade for a catalog of a dozen items.
type Store struct {
	db *bbolt.DB
}

// Open opens (or creates) the store file at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening vector store %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Reset drops the collection bucket if present and recreates it empty.
func (s *Store) Reset(collection string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(collection)) != nil {
			if err := tx.DeleteBucket([]byte(collection)); err != nil {
				return err
			}
		}
		_, err := tx.CreateBucket([]byte(collection))
		return err
	})
}

func (s *Store) Upsert(collection string, records []domain.Record) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(collection))
		if b == nil {
			return fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, collection)
		}
		var dim int
		for _, r := range records {
			if dim == 0 {
				dim = len(r.Vector)
			} else if len(r.Vector) != dim {
				return fmt.Errorf("%w: vector dimension mismatch in batch", domain.ErrIngestion)
			}
			data, err := json.Marshal(r)
			if err != nil {
				return fmt.Errorf("%w: encoding record %s: %v", domain.ErrIngestion, r.ID, err)
			}
			if err := b.Put([]byte(r.ID), data); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) Query(collection string, vector []float64, k int) ([]domain.Hit, error) {
	if k <= 0 {
		k = 3
	}
	var hits []domain.Hit
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(collection))
		if b == nil {
			return fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, collection)
		}
		return b.ForEach(func(_, v []byte) error {
			var r domain.Record
			if err := json.Unmarshal(v, &r); err != nil {
				return err
			}
			hits = append(hits, domain.Hit{
				ID:       r.ID,
				Metadata: r.Metadata,
				Document: r.Document,
				Distance: vectorstore.SquaredEuclidean(r.Vector, vector),
			})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

func (s *Store) Count(collection string) (int, error) {
	count := 0
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(collection))
		if b == nil {
			return fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, collection)
		}
		count = b.Stats().KeyN
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) Close() error { return s.db.Close() }
