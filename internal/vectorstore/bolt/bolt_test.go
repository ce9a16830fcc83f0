package bolt

import (
	"errors"
	"path/filepath"
	"testing"

	"wagonrag/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "vectors.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func record(id string, vec []float64) domain.Record {
	return domain.Record{
		ID:       id,
		Vector:   vec,
		Metadata: domain.Metadata{Filename: id + ".jpg", Description: "desc " + id},
		Document: "desc " + id,
	}
}

func TestQueryBeforeIngestion(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Query("wagons", []float64{1, 0}, 3)
	if !errors.Is(err, domain.ErrCollectionNotFound) {
		t.Errorf("got %v, want ErrCollectionNotFound", err)
	}
}

func TestUpsertQueryRoundtrip(t *testing.T) {
	s := openTestStore(t)
	if err := s.Reset("wagons"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	err := s.Upsert("wagons", []domain.Record{
		record("wagon_1", []float64{1, 0}),
		record("wagon_2", []float64{0, 1}),
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	hits, err := s.Query("wagons", []float64{1, 0}, 2)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	if hits[0].ID != "wagon_1" {
		t.Errorf("nearest = %s, want wagon_1", hits[0].ID)
	}
	if hits[0].Metadata.Filename != "wagon_1.jpg" {
		t.Errorf("metadata not persisted: %+v", hits[0].Metadata)
	}
	if hits[0].Document != "desc wagon_1" {
		t.Errorf("document not persisted: %q", hits[0].Document)
	}
}

func TestResetDropsRecords(t *testing.T) {
	s := openTestStore(t)
	s.Reset("wagons")
	s.Upsert("wagons", []domain.Record{record("wagon_1", []float64{1, 0})})
	if err := s.Reset("wagons"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	n, err := s.Count("wagons")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("count = %d after reset, want 0", n)
	}
}

func TestFullReplaceIdempotence(t *testing.T) {
	s := openTestStore(t)
	batch := []domain.Record{
		record("wagon_1", []float64{1, 0}),
		record("wagon_2", []float64{0, 1}),
	}
	var counts [2]int
	for run := 0; run < 2; run++ {
		if err := s.Reset("wagons"); err != nil {
			t.Fatalf("reset run %d: %v", run, err)
		}
		if err := s.Upsert("wagons", batch); err != nil {
			t.Fatalf("upsert run %d: %v", run, err)
		}
		n, err := s.Count("wagons")
		if err != nil {
			t.Fatalf("count run %d: %v", run, err)
		}
		counts[run] = n
	}
	if counts[0] != counts[1] || counts[0] != len(batch) {
		t.Errorf("counts across runs = %v, want both %d", counts, len(batch))
	}
}

func TestUpsertDimensionMismatchInBatch(t *testing.T) {
	s := openTestStore(t)
	s.Reset("wagons")
	err := s.Upsert("wagons", []domain.Record{
		record("a", []float64{1, 0}),
		record("b", []float64{1, 0, 0}),
	})
	if !errors.Is(err, domain.ErrIngestion) {
		t.Errorf("got %v, want ErrIngestion", err)
	}
}
