package service

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"wagonrag/internal/chunker"
	"wagonrag/internal/domain"
	"wagonrag/internal/embedding"
	"wagonrag/internal/graph"
)

// Ingestion strategies. Fused is canonical: one image+text record per item.
// Chunked stores one record per description chunk, all pointing at the
// parent image.
const (
	StrategyFused   = "fused"
	StrategyChunked = "chunked"
)

// IngestOptions configures one ingestion run.
type IngestOptions struct {
	Catalog    []domain.CatalogItem
	Embedder   domain.Embedder
	Store      domain.VectorStore
	Splitter   *chunker.Splitter
	Collection string
	ImageDir   string
	GraphPath  string
	Vocab      graph.Vocabulary
	Strategy   string
	MaxTokens  int
}

// Pipeline rebuilds both retrieval indexes from the full catalog. Every run
// is a full replace: the collection and the graph snapshot never mix output
// from different model versions or fusion strategies.
type Pipeline struct {
	opts  IngestOptions
	graph *graph.Graph
}

func NewPipeline(opts IngestOptions) *Pipeline {
	if opts.Strategy == "" {
		opts.Strategy = StrategyFused
	}
	return &Pipeline{opts: opts}
}

// Graph returns the knowledge graph built by the last Run.
func (p *Pipeline) Graph() *graph.Graph { return p.graph }

// Run builds the vector collection and the knowledge graph in parallel and
// reports the stored record count. Items whose embedding fails are skipped
// with a warning, never aborting the batch.
func (p *Pipeline) Run(ctx context.Context) (int, error) {
	var stored int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := p.buildCollection(gctx)
		stored = n
		return err
	})
	g.Go(func() error {
		return p.buildGraph()
	})
	if err := g.Wait(); err != nil {
		return 0, err
	}
	logrus.WithFields(logrus.Fields{
		"collection": p.opts.Collection,
		"stored":     stored,
		"strategy":   p.opts.Strategy,
	}).Info("ingestion completed")
	return stored, nil
}

func (p *Pipeline) buildCollection(ctx context.Context) (int, error) {
	if err := p.opts.Store.Reset(p.opts.Collection); err != nil {
		return 0, fmt.Errorf("resetting collection %s: %w", p.opts.Collection, err)
	}
	var records []domain.Record
	var err error
	switch p.opts.Strategy {
	case StrategyFused:
		records = p.fusedRecords(ctx)
	case StrategyChunked:
		records = p.chunkedRecords(ctx)
	default:
		return 0, fmt.Errorf("%w: unknown ingestion strategy %q", domain.ErrIngestion, p.opts.Strategy)
	}
	if err = p.opts.Store.Upsert(p.opts.Collection, records); err != nil {
		return 0, fmt.Errorf("upserting %d records: %w", len(records), err)
	}
	return len(records), nil
}

func (p *Pipeline) fusedRecords(ctx context.Context) []domain.Record {
	var records []domain.Record
	for _, item := range p.opts.Catalog {
		imagePath := filepath.Join(p.opts.ImageDir, item.Filename)
		imgVec, err := p.opts.Embedder.EmbedImage(ctx, imagePath)
		if err != nil {
			logrus.WithError(err).WithField("file", item.Filename).Warn("skipping item, image embedding failed")
			continue
		}
		txtVec, err := p.opts.Embedder.EmbedText(ctx, item.Description, p.opts.MaxTokens)
		if err != nil {
			logrus.WithError(err).WithField("file", item.Filename).Warn("skipping item, text embedding failed")
			continue
		}
		fused, err := embedding.Fuse(imgVec, txtVec)
		if err != nil {
			logrus.WithError(err).WithField("file", item.Filename).Warn("skipping item, fusion failed")
			continue
		}
		records = append(records, domain.Record{
			ID:     fmt.Sprintf("wagon_%d", item.ID),
			Vector: fused,
			Metadata: domain.Metadata{
				Filename:    item.Filename,
				Description: item.Description,
				Category:    item.Category,
			},
			Document: item.Description,
		})
	}
	return records
}

func (p *Pipeline) chunkedRecords(ctx context.Context) []domain.Record {
	var records []domain.Record
	seq := 0
	for _, item := range p.opts.Catalog {
		for idx, chunk := range p.opts.Splitter.Split(item.Description) {
			vec, err := p.opts.Embedder.EmbedText(ctx, chunk, p.opts.MaxTokens)
			if err != nil {
				logrus.WithError(err).WithFields(logrus.Fields{
					"file":  item.Filename,
					"chunk": idx,
				}).Warn("skipping chunk, text embedding failed")
				continue
			}
			normalized, err := embedding.Normalize(vec)
			if err != nil {
				logrus.WithError(err).WithFields(logrus.Fields{
					"file":  item.Filename,
					"chunk": idx,
				}).Warn("skipping chunk, degenerate embedding")
				continue
			}
			seq++
			chunkIndex := idx
			records = append(records, domain.Record{
				ID:     fmt.Sprintf("chunk_%d", seq),
				Vector: normalized,
				Metadata: domain.Metadata{
					Filename:    item.Filename,
					Description: item.Description,
					Category:    item.Category,
					ChunkIndex:  &chunkIndex,
				},
				Document: chunk,
			})
		}
	}
	return records
}

func (p *Pipeline) buildGraph() error {
	p.graph = graph.Build(p.opts.Catalog, p.opts.ImageDir, p.opts.Vocab)
	if p.opts.GraphPath == "" {
		return nil
	}
	if err := graph.Save(p.opts.GraphPath, p.graph); err != nil {
		return fmt.Errorf("saving knowledge graph: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"nodes": len(p.graph.Nodes),
		"path":  p.opts.GraphPath,
	}).Info("knowledge graph built")
	return nil
}
