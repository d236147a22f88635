package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	openAIBaseURL      = "https://api.openai.com/v1"
	defaultOpenAIModel = "text-embedding-3-small"
)

// OpenAI calls the OpenAI embeddings API.
type OpenAI struct {
	apiKey     string
	model      string
	batchSize  int
	maxRetries int
	logger     *zap.Logger

	HTTPClient *http.Client
	BaseURL    string
}

// NewOpenAI creates an OpenAI embedding client. An empty model selects
// text-embedding-3-small.
func NewOpenAI(apiKey, model string, logger *zap.Logger) (*OpenAI, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultOpenAIModel
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &OpenAI{
		apiKey:     apiKey,
		model:      model,
		batchSize:  defaultBatchSize,
		maxRetries: defaultMaxRetries,
		logger:     logger,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
		BaseURL:    openAIBaseURL,
	}, nil
}

func (c *OpenAI) Model() string {
	return c.model
}

// Embed returns the embedding vector for a single text.
func (c *OpenAI) Embed(ctx context.Context, text string) ([]float64, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}

	return vectors[0], nil
}

// EmbedBatch embeds all texts, chunking them into API-sized batches. The
// returned vectors are in input order.
func (c *OpenAI) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	prepared := make([]string, len(texts))
	for i, text := range texts {
		prepared[i] = prepareInput(text)
	}

	chunks := chunk(prepared, c.batchSize)
	vectors := make([][]float64, 0, len(prepared))

	for i, batch := range chunks {
		c.logger.Debug("requesting embeddings",
			zap.Int("batch", i+1),
			zap.Int("batches", len(chunks)),
			zap.Int("texts", len(batch)),
		)

		var batchVectors [][]float64

		err := retry(ctx, c.logger, c.maxRetries, func() error {
			var err error
			batchVectors, err = c.requestEmbeddings(ctx, batch)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("embeddings batch %d/%d: %w", i+1, len(chunks), err)
		}

		vectors = append(vectors, batchVectors...)
	}

	checkDimensions(c.logger, c.model, vectors)

	return vectors, nil
}

type embeddingsRequest struct {
	Model          string   `json:"model"`
	Input          []string `json:"input"`
	EncodingFormat string   `json:"encoding_format"`
}

type embeddingsResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
	Usage struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

func (c *OpenAI) requestEmbeddings(ctx context.Context, batch []string) ([][]float64, error) {
	body, err := json.Marshal(embeddingsRequest{
		Model:          c.model,
		Input:          batch,
		EncodingFormat: "float",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result embeddingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Data) != len(batch) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(batch), len(result.Data))
	}

	// The API may return items out of order, so place each vector by its
	// index field.
	vectors := make([][]float64, len(batch))
	for _, item := range result.Data {
		if item.Index < 0 || item.Index >= len(vectors) {
			return nil, fmt.Errorf("embedding index %d out of range", item.Index)
		}
		vectors[item.Index] = item.Embedding
	}

	for i, vec := range vectors {
		if len(vec) == 0 {
			return nil, fmt.Errorf("empty embedding at index %d", i)
		}
	}

	return vectors, nil
}
