package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"wagonrag/internal/domain"
)

// Fixed user-visible strings. The apology is returned without ever calling
// the model; the failure string replaces any error from the generative call.
const (
	NoContextAnswer = "Sorry, the search did not find any relevant information for your question."
	FailureAnswer   = "Something went wrong while contacting the generative model. Check your API key and the image paths."
)

const systemInstruction = `You are an expert in cargo wagon cataloging working inside a retrieval system.
Analyze the user's QUESTION and the provided CONTEXT (descriptive text plus one image) to give a precise, well-grounded answer.

RULES:
1. Base your answer only on the information contained in the CONTEXT.
2. Always cite the image filename you used (e.g. '01.jpg').
3. If the context is insufficient or irrelevant, say so.
4. Describe the most relevant image and connect its description to the question.`

// ChatModel is the generative capability the generator depends on: one
// prompt, optionally one image, one generated text back.
type ChatModel interface {
	Generate(ctx context.Context, system, prompt, imagePath string) (string, error)
}

// Generator assembles the final multimodal generation request from the
// retrieved contexts and enforces the degradation policy.
type Generator struct {
	model ChatModel
}

func New(model ChatModel) *Generator {
	return &Generator{model: model}
}

// Answer produces the final answer text. An empty context list short-circuits
// to the fixed apology; a failed generative call becomes the fixed failure
// string. Raw errors never reach the caller.
func (g *Generator) Answer(ctx context.Context, question string, contexts []domain.RetrievedContext) string {
	if len(contexts) == 0 {
		return NoContextAnswer
	}
	best := contexts[0]
	prompt := buildPrompt(question, contexts, best.Filename)
	answer, err := g.model.Generate(ctx, systemInstruction, prompt, best.ImagePath)
	if err != nil {
		logrus.WithError(err).Error("generation failed")
		return FailureAnswer
	}
	return answer
}

func buildPrompt(question string, contexts []domain.RetrievedContext, bestFilename string) string {
	var block strings.Builder
	for i, c := range contexts {
		fmt.Fprintf(&block, "--- CONTEXT %d (File: %s, Score: %.2f) ---\n%s\n\n",
			i+1, c.Filename, c.Relevance, c.Description)
	}
	return fmt.Sprintf(`USER QUESTION: %q

RETRIEVED CONTEXT (%d results):
%s
ATTACHED IMAGE:
(The attached image is file %q, the best retrieval hit. Check whether this file OR ANY OTHER textual context in the list answers the question.)

Answer the question based on the IMAGE AND/OR the RETRIEVED CONTEXT. If a textual context fits better, use it, but always name the associated file.`,
		question, len(contexts), block.String(), bestFilename)
}
