package service

import (
	"context"

	"wagonrag/internal/domain"
)

// RAG wires a retriever and a generator into the question-answering path.
type RAG struct {
	retriever domain.Retriever
	generator domain.Generator
	topK      int
}

func NewRAG(retriever domain.Retriever, generator domain.Generator, topK int) *RAG {
	if topK <= 0 {
		topK = 3
	}
	return &RAG{retriever: retriever, generator: generator, topK: topK}
}

// Ask retrieves contexts for the question and generates the final answer.
// Retrieval degradation (no index, failed query embedding, no keyword match)
// yields an empty context list and the generator's fixed apology.
func (r *RAG) Ask(ctx context.Context, question string) (string, []domain.RetrievedContext, error) {
	contexts, err := r.retriever.Search(ctx, question, r.topK)
	if err != nil {
		return "", nil, err
	}
	return r.generator.Answer(ctx, question, contexts), contexts, nil
}
