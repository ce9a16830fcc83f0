package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"wagonrag/internal/domain"
)

// EmbeddingConfig configures the CLIP-style joint embedding service.
type EmbeddingConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	MaxTokens   int    `yaml:"max_tokens"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// IngestionConfig selects the ingestion strategy and its chunking bounds.
// "fused" stores one image+text record per catalog item; "chunked" stores
// one record per description chunk, all pointing at the parent image.
type IngestionConfig struct {
	Strategy     string `yaml:"strategy"`
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
}

// VectorStoreConfig selects the vector store implementation.
type VectorStoreConfig struct {
	Type string `yaml:"type"`
}

// GeneratorConfig configures the generative model endpoint.
type GeneratorConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// GraphConfig holds the closed attribute vocabularies for the knowledge
// graph. Extending the graph means extending these lists.
type GraphConfig struct {
	Colors []string `yaml:"colors"`
	Cargo  []string `yaml:"cargo"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	ImageDir     string            `yaml:"image_dir"`
	DataDir      string            `yaml:"data_dir"`
	Collection   string            `yaml:"collection"`
	Category     string            `yaml:"category"`
	TopK         int               `yaml:"top_k"`
	Embedding    EmbeddingConfig   `yaml:"embedding"`
	Ingestion    IngestionConfig   `yaml:"ingestion"`
	VectorStore  VectorStoreConfig `yaml:"vector_store"`
	Generator    GeneratorConfig   `yaml:"generator"`
	Graph        GraphConfig       `yaml:"graph"`
	Descriptions []string          `yaml:"descriptions"`
}

// Load reads a config from the given path. A missing file yields defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Catalog pairs the lexicographically sorted image listing of ImageDir with
// the configured descriptions. A count mismatch fails with
// ErrConfigValidation before any other operation runs.
func Catalog(cfg *AppConfig) ([]domain.CatalogItem, error) {
	entries, err := os.ReadDir(cfg.ImageDir)
	if err != nil {
		return nil, fmt.Errorf("reading image dir %s: %w", cfg.ImageDir, err)
	}
	var filenames []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), ".jpg") {
			filenames = append(filenames, e.Name())
		}
	}
	sort.Strings(filenames)
	if len(filenames) != len(cfg.Descriptions) {
		return nil, fmt.Errorf("%w: %d images in %s but %d descriptions",
			domain.ErrConfigValidation, len(filenames), cfg.ImageDir, len(cfg.Descriptions))
	}
	items := make([]domain.CatalogItem, len(filenames))
	for i, name := range filenames {
		items[i] = domain.CatalogItem{
			ID:          i + 1,
			Filename:    name,
			Description: cfg.Descriptions[i],
			Category:    cfg.Category,
		}
	}
	return items, nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.ImageDir == "" {
		cfg.ImageDir = "images"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.Collection == "" {
		cfg.Collection = "wagons_multimodal_clip"
	}
	if cfg.Category == "" {
		cfg.Category = "cargo_train"
	}
	if cfg.TopK == 0 {
		cfg.TopK = 3
	}
	if cfg.Embedding.BaseURL == "" {
		cfg.Embedding.BaseURL = "http://localhost:8000/v1"
	}
	if cfg.Embedding.APIKeyEnv == "" {
		cfg.Embedding.APIKeyEnv = "EMBEDDING_API_KEY"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "clip-vit-base-patch32"
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 77
	}
	if cfg.Embedding.TimeoutSecs == 0 {
		cfg.Embedding.TimeoutSecs = 30
	}
	if cfg.Ingestion.Strategy == "" {
		cfg.Ingestion.Strategy = "fused"
	}
	if cfg.Ingestion.ChunkSize == 0 {
		cfg.Ingestion.ChunkSize = 300
	}
	if cfg.Ingestion.ChunkOverlap == 0 {
		cfg.Ingestion.ChunkOverlap = 50
	}
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "bolt"
	}
	if cfg.Generator.BaseURL == "" {
		cfg.Generator.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.Generator.APIKeyEnv == "" {
		cfg.Generator.APIKeyEnv = "GENERATOR_API_KEY"
	}
	if cfg.Generator.Model == "" {
		cfg.Generator.Model = "google/gemini-2.5-flash"
	}
	if cfg.Generator.TimeoutSecs == 0 {
		cfg.Generator.TimeoutSecs = 120
	}
	if len(cfg.Graph.Colors) == 0 {
		cfg.Graph.Colors = []string{"rojo", "azul", "verde", "amarillo", "gris", "blanco", "negro", "oxidado"}
	}
	if len(cfg.Graph.Cargo) == 0 {
		cfg.Graph.Cargo = []string{"petróleo", "neft", "carbón", "madera", "grano", "sellado", "abierto", "cisterna"}
	}
}
