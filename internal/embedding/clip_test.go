package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wagonrag/internal/domain"
)

func TestTruncateTokens(t *testing.T) {
	if got := TruncateTokens("one two three four", 2); got != "one two" {
		t.Errorf("got %q, want %q", got, "one two")
	}
	if got := TruncateTokens("one two", 10); got != "one two" {
		t.Errorf("short text must pass through, got %q", got)
	}
	if got := TruncateTokens("one two", 0); got != "one two" {
		t.Errorf("zero cap must pass through, got %q", got)
	}
}

func TestCLIPClientEmbedText(t *testing.T) {
	var gotInput string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req map[string]any
		json.NewDecoder(r.Body).Decode(&req)
		gotInput, _ = req["input"].(string)
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"embedding": []float64{0.1, 0.2, 0.3}}},
		})
	}))
	defer srv.Close()

	c := NewCLIPClient(CLIPConfig{BaseURL: srv.URL})
	vec, err := c.EmbedText(context.Background(), "a b c d e", 3)
	if err != nil {
		t.Fatalf("EmbedText failed: %v", err)
	}
	if len(vec) != 3 {
		t.Errorf("vector length = %d, want 3", len(vec))
	}
	if gotInput != "a b c" {
		t.Errorf("token cap not applied before the call, service saw %q", gotInput)
	}
	if c.Dimension() != 3 {
		t.Errorf("Dimension() = %d, want 3", c.Dimension())
	}
}

func TestCLIPClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewCLIPClient(CLIPConfig{BaseURL: srv.URL})
	_, err := c.EmbedText(context.Background(), "anything", 0)
	if !errors.Is(err, domain.ErrEmbedding) {
		t.Errorf("got %v, want ErrEmbedding", err)
	}
}

func TestCLIPClientEmbedImageMissingFile(t *testing.T) {
	c := NewCLIPClient(CLIPConfig{BaseURL: "http://localhost:0"})
	_, err := c.EmbedImage(context.Background(), "/does/not/exist.jpg")
	if !errors.Is(err, domain.ErrEmbedding) {
		t.Errorf("got %v, want ErrEmbedding", err)
	}
	if !strings.Contains(err.Error(), "exist.jpg") {
		t.Errorf("error should name the file, got %v", err)
	}
}
