package chunker

import (
	"strings"
	"testing"
)

func TestSplitShortText(t *testing.T) {
	s := NewSplitter(300, 50)
	chunks := s.Split("a short description")
	if len(chunks) != 1 || chunks[0] != "a short description" {
		t.Errorf("short text must be a single chunk, got %v", chunks)
	}
}

func TestSplitEmptyText(t *testing.T) {
	s := NewSplitter(300, 50)
	if chunks := s.Split("   "); chunks != nil {
		t.Errorf("blank text must yield no chunks, got %v", chunks)
	}
}

func TestSplitBounds(t *testing.T) {
	s := NewSplitter(100, 20)
	text := strings.Repeat("the wagon carries heavy freight across the mountains. ", 12)
	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("long text must produce several chunks, got %d", len(chunks))
	}
	for i, ch := range chunks {
		if n := len([]rune(ch)); n > 100 {
			t.Errorf("chunk %d length %d exceeds chunk size", i, n)
		}
	}
}

func TestSplitPrefersSentenceBoundary(t *testing.T) {
	s := NewSplitter(80, 10)
	text := "First sentence about a red tanker wagon built for oil. Second sentence about a blue boxcar kept sealed in winter."
	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected a split, got %v", chunks)
	}
	if !strings.HasSuffix(chunks[0], "oil.") {
		t.Errorf("first chunk should end at the sentence boundary, got %q", chunks[0])
	}
}

func TestSplitOverlap(t *testing.T) {
	s := NewSplitter(60, 20)
	text := strings.Repeat("alpha beta gamma delta epsilon zeta eta theta. ", 6)
	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}
	// consecutive chunks share text because the window steps back by the overlap
	tail := chunks[0][len(chunks[0])-10:]
	if !strings.Contains(chunks[1], strings.TrimSpace(tail)) {
		t.Errorf("chunk 1 should overlap the tail of chunk 0: %q not in %q", tail, chunks[1])
	}
}
