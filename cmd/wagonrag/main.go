package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"wagonrag/internal/chunker"
	"wagonrag/internal/config"
	"wagonrag/internal/domain"
	"wagonrag/internal/embedding"
	"wagonrag/internal/generator"
	"wagonrag/internal/graph"
	"wagonrag/internal/llm"
	"wagonrag/internal/retriever"
	"wagonrag/internal/service"
	"wagonrag/internal/tui"
	"wagonrag/internal/vectorstore/bolt"
	"wagonrag/internal/vectorstore/memory"
)

func main() {
	_ = godotenv.Load()

	var (
		cfgPath    = flag.String("config", "config.yaml", "Path to YAML config file")
		debug      = flag.Bool("debug", false, "Enable debug logging")
		ingestOnly = flag.Bool("ingest-only", false, "Run ingestion and exit")
		oneShot    = flag.String("query", "", "Run a single query and print the answer instead of starting the TUI")
		useGraph   = flag.Bool("graph", false, "Use the knowledge graph retriever instead of vector search")
		topK       = flag.Int("k", 0, "Number of contexts to retrieve (defaults to config top_k)")
	)
	flag.Parse()

	if *debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	catalog, err := config.Catalog(cfg)
	if err != nil {
		log.Fatalf("invalid catalog: %v", err)
	}

	// Assemble components via interfaces
	embedder := embedding.NewCLIPClient(embedding.CLIPConfig{
		BaseURL:   cfg.Embedding.BaseURL,
		APIKeyEnv: cfg.Embedding.APIKeyEnv,
		Model:     cfg.Embedding.Model,
		Timeout:   time.Duration(cfg.Embedding.TimeoutSecs) * time.Second,
	})

	var store domain.VectorStore
	switch cfg.VectorStore.Type {
	case "bolt", "":
		s, err := bolt.Open(filepath.Join(cfg.DataDir, "vectors.db"))
		if err != nil {
			log.Fatalf("failed to open vector store: %v", err)
		}
		store = s
	case "memory":
		store = memory.NewStore()
	default:
		log.Fatalf("unknown vector store: %s", cfg.VectorStore.Type)
	}
	defer store.Close()

	graphPath := filepath.Join(cfg.DataDir, "graph.db")
	pipeline := service.NewPipeline(service.IngestOptions{
		Catalog:    catalog,
		Embedder:   embedder,
		Store:      store,
		Splitter:   chunker.NewSplitter(cfg.Ingestion.ChunkSize, cfg.Ingestion.ChunkOverlap),
		Collection: cfg.Collection,
		ImageDir:   cfg.ImageDir,
		GraphPath:  graphPath,
		Vocab:      graph.Vocabulary{Colors: cfg.Graph.Colors, Cargo: cfg.Graph.Cargo},
		Strategy:   cfg.Ingestion.Strategy,
		MaxTokens:  cfg.Embedding.MaxTokens,
	})

	ctx := context.Background()
	stored, err := pipeline.Run(ctx)
	if err != nil {
		log.Fatalf("ingestion failed: %v", err)
	}
	if *ingestOnly {
		fmt.Printf("Ingestion completed: %d records in collection %s\n", stored, cfg.Collection)
		return
	}

	var ret domain.Retriever
	if *useGraph {
		kg, loaded := graph.LoadOrDefault(graphPath)
		if !loaded {
			kg = pipeline.Graph()
		}
		ret = retriever.NewGraphRetriever(kg, cfg.ImageDir)
	} else {
		ret = retriever.NewVectorRetriever(
			store,
			embedding.NewQueryEmbedder(embedder, cfg.Embedding.MaxTokens),
			cfg.Collection,
			cfg.ImageDir,
		)
	}

	gen := generator.New(llm.NewClient(llm.Config{
		BaseURL:   cfg.Generator.BaseURL,
		APIKeyEnv: cfg.Generator.APIKeyEnv,
		Model:     cfg.Generator.Model,
		Timeout:   time.Duration(cfg.Generator.TimeoutSecs) * time.Second,
	}))

	k := *topK
	if k == 0 {
		k = cfg.TopK
	}
	rag := service.NewRAG(ret, gen, k)

	if *oneShot != "" {
		answer, contexts, err := rag.Ask(ctx, *oneShot)
		if err != nil {
			log.Fatalf("query failed: %v", err)
		}
		fmt.Printf("Question: %s\n\n", *oneShot)
		for _, c := range contexts {
			fmt.Printf("  [%.2f] %s — %s\n", c.Relevance, c.Filename, c.ImagePath)
		}
		fmt.Printf("\n%s\n", answer)
		return
	}

	summary := fmt.Sprintf("Catalog of %d wagons indexed (%d records). Type a question.", len(catalog), stored)
	m := tui.New(rag, summary)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}
