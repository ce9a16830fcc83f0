package embedding

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"wagonrag/internal/domain"
)

// CLIPClient talks to a joint image/text embedding service over HTTP.
// Texts go to the OpenAI-compatible /embeddings endpoint, images as base64
// payloads to /embeddings/image. Both produce vectors in the same space.
type CLIPClient struct {
	baseURL   string
	apiKey    string
	model     string
	dimension int
	client    *http.Client
}

// CLIPConfig configures the embedding service client.
type CLIPConfig struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
}

// NewCLIPClient creates an embedding client. The API key env var may be
// unset for local model servers that do not authenticate.
func NewCLIPClient(cfg CLIPConfig) *CLIPClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8000/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "clip-vit-base-patch32"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	return &CLIPClient{
		baseURL: cfg.BaseURL,
		apiKey:  os.Getenv(cfg.APIKeyEnv),
		model:   cfg.Model,
		client:  &http.Client{Timeout: t},
	}
}

// Dimension returns the vector length, known after the first embedding.
func (c *CLIPClient) Dimension() int { return c.dimension }

// EmbedText embeds a text into the shared vector space. The text is
// truncated to maxTokens before the call so query-time and ingestion-time
// inputs go through the identical length cap.
func (c *CLIPClient) EmbedText(ctx context.Context, text string, maxTokens int) ([]float64, error) {
	body := map[string]any{
		"input": TruncateTokens(text, maxTokens),
		"model": c.model,
	}
	return c.post(ctx, c.baseURL+"/embeddings", body)
}

// EmbedImage embeds the image file at path into the shared vector space.
func (c *CLIPClient) EmbedImage(ctx context.Context, path string) ([]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading image %s: %v", domain.ErrEmbedding, path, err)
	}
	body := map[string]any{
		"image": base64.StdEncoding.EncodeToString(data),
		"model": c.model,
	}
	return c.post(ctx, c.baseURL+"/embeddings/image", body)
}

func (c *CLIPClient) post(ctx context.Context, url string, body map[string]any) ([]float64, error) {
	data, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbedding, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbedding, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: embedding service returned %s", domain.ErrEmbedding, resp.Status)
	}
	var out struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
		Embedding []float64 `json:"embedding"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", domain.ErrEmbedding, err)
	}
	v := out.Embedding
	if len(out.Data) > 0 && len(out.Data[0].Embedding) > 0 {
		v = out.Data[0].Embedding
	}
	if len(v) == 0 {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbedding, errors.New("no embedding returned"))
	}
	if c.dimension == 0 {
		c.dimension = len(v)
	}
	return v, nil
}

// TruncateTokens caps text at max whitespace-delimited tokens. CLIP-style
// text towers have a hard context length; applying the same cap on both the
// ingestion and the query side keeps the two comparable.
func TruncateTokens(text string, max int) string {
	if max <= 0 {
		return text
	}
	fields := strings.Fields(text)
	if len(fields) <= max {
		return text
	}
	return strings.Join(fields[:max], " ")
}
