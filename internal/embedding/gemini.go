package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-embedding-001"

// contentEmbedder is the slice of the genai API this client depends on.
type contentEmbedder interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// Gemini produces embeddings through the Google GenAI API.
type Gemini struct {
	embedder   contentEmbedder
	model      string
	batchSize  int
	maxRetries int
	logger     *zap.Logger
}

// NewGemini creates a Gemini embedding client for the Gemini API backend. An
// empty model selects gemini-embedding-001.
func NewGemini(ctx context.Context, apiKey, model string, logger *zap.Logger) (*Gemini, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultGeminiModel
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Gemini{
		embedder:   client.Models,
		model:      model,
		batchSize:  defaultBatchSize,
		maxRetries: defaultMaxRetries,
		logger:     logger,
	}, nil
}

func (g *Gemini) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

// Embed returns the embedding vector for a single text.
func (g *Gemini) Embed(ctx context.Context, text string) ([]float64, error) {
	vectors, err := g.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}

	return vectors[0], nil
}

// EmbedBatch embeds all texts, chunking them into API-sized batches. The
// returned vectors are in input order.
func (g *Gemini) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if g == nil || g.embedder == nil {
		return nil, errors.New("gemini client is not initialized")
	}

	if len(texts) == 0 {
		return nil, nil
	}

	prepared := make([]string, len(texts))
	for i, text := range texts {
		prepared[i] = prepareInput(text)
	}

	chunks := chunk(prepared, g.batchSize)
	vectors := make([][]float64, 0, len(prepared))

	for i, batch := range chunks {
		g.logger.Debug("requesting embeddings",
			zap.Int("batch", i+1),
			zap.Int("batches", len(chunks)),
			zap.Int("texts", len(batch)),
		)

		var batchVectors [][]float64

		err := retry(ctx, g.logger, g.maxRetries, func() error {
			var err error
			batchVectors, err = g.embedBatch(ctx, batch)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("embeddings batch %d/%d: %w", i+1, len(chunks), err)
		}

		vectors = append(vectors, batchVectors...)
	}

	checkDimensions(g.logger, g.model, vectors)

	return vectors, nil
}

func (g *Gemini) embedBatch(ctx context.Context, batch []string) ([][]float64, error) {
	contents := make([]*genai.Content, 0, len(batch))
	for _, text := range batch {
		contents = append(contents, genai.Text(text)...)
	}

	resp, err := g.embedder.EmbedContent(ctx, g.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("embed content: %w", err)
	}

	if resp == nil || len(resp.Embeddings) != len(batch) {
		got := 0
		if resp != nil {
			got = len(resp.Embeddings)
		}
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(batch), got)
	}

	vectors := make([][]float64, len(batch))
	for i, embedded := range resp.Embeddings {
		if embedded == nil || len(embedded.Values) == 0 {
			return nil, fmt.Errorf("gemini api returned empty embedding at index %d", i)
		}

		vec := make([]float64, len(embedded.Values))
		for j, v := range embedded.Values {
			vec[j] = float64(v)
		}
		vectors[i] = vec
	}

	return vectors, nil
}
