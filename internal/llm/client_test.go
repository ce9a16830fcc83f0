package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"wagonrag/internal/domain"
)

func writeTestImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "12.jpg")
	if err := os.WriteFile(path, []byte("jpegdata"), 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}
	return path
}

func TestGenerateMultimodalRequest(t *testing.T) {
	var captured struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string          `json:"role"`
			Content json.RawMessage `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"the tanker in 12.jpg"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Model: "google/gemini-2.5-flash"})
	got, err := c.Generate(context.Background(), "system rules", "which wagon?", writeTestImage(t))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != "the tanker in 12.jpg" {
		t.Errorf("answer = %q", got)
	}
	if captured.Model != "google/gemini-2.5-flash" {
		t.Errorf("model = %q", captured.Model)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" {
		t.Fatalf("messages = %+v", captured.Messages)
	}
	var parts []contentPart
	if err := json.Unmarshal(captured.Messages[1].Content, &parts); err != nil {
		t.Fatalf("user content is not a part list: %v", err)
	}
	if len(parts) != 2 {
		t.Fatalf("got %d content parts, want text + image", len(parts))
	}
	if parts[0].Type != "text" || parts[0].Text != "which wagon?" {
		t.Errorf("text part = %+v", parts[0])
	}
	if parts[1].Type != "image_url" || !strings.HasPrefix(parts[1].ImageURL.URL, "data:image/jpeg;base64,") {
		t.Errorf("image part = %+v", parts[1])
	}
}

func TestGenerateNoImageSendsTextOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		raw, _ := json.Marshal(req.Messages[1].Content)
		var parts []contentPart
		if err := json.Unmarshal(raw, &parts); err != nil || len(parts) != 1 {
			t.Errorf("want exactly one text part, got %s", raw)
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Model: "m"})
	if _, err := c.Generate(context.Background(), "sys", "question", ""); err != nil {
		t.Fatalf("generate: %v", err)
	}
}

func TestGenerateAPIErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// some providers return 200 with an error object in the body
		w.Write([]byte(`{"error":{"message":"invalid api key","code":401}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Model: "m"})
	_, err := c.Generate(context.Background(), "sys", "question", "")
	if !errors.Is(err, domain.ErrGeneration) {
		t.Fatalf("err = %v, want ErrGeneration", err)
	}
	if !strings.Contains(err.Error(), "invalid api key") {
		t.Errorf("err %v does not surface the provider message", err)
	}
}

func TestGenerateMissingImage(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://unused", Model: "m"})
	_, err := c.Generate(context.Background(), "sys", "question", "does/not/exist.jpg")
	if !errors.Is(err, domain.ErrGeneration) {
		t.Fatalf("err = %v, want ErrGeneration", err)
	}
	if !strings.Contains(err.Error(), "does/not/exist.jpg") {
		t.Errorf("err %v does not name the missing image", err)
	}
}
