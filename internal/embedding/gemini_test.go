package embedding

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type stubEmbedder struct {
	batches   [][]string
	calls     int
	failFirst int
	short     bool
}

func (s *stubEmbedder) EmbedContent(_ context.Context, _ string, contents []*genai.Content, _ *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
	s.calls++
	if s.calls <= s.failFirst {
		return nil, errors.New("transient failure")
	}

	texts := make([]string, 0, len(contents))
	for _, content := range contents {
		var parts []string
		for _, part := range content.Parts {
			parts = append(parts, part.Text)
		}
		texts = append(texts, strings.Join(parts, ""))
	}
	s.batches = append(s.batches, texts)

	resp := &genai.EmbedContentResponse{}
	count := len(texts)
	if s.short && count > 0 {
		count--
	}
	for i := 0; i < count; i++ {
		resp.Embeddings = append(resp.Embeddings, &genai.ContentEmbedding{
			Values: []float32{float32(len(s.batches)), float32(i)},
		})
	}

	return resp, nil
}

func newTestGemini(stub *stubEmbedder) *Gemini {
	return &Gemini{
		embedder:   stub,
		model:      "gemini-embedding-001",
		batchSize:  defaultBatchSize,
		maxRetries: defaultMaxRetries,
		logger:     zap.NewNop(),
	}
}

func TestNewGeminiRequiresKey(t *testing.T) {
	if _, err := NewGemini(context.Background(), "  ", "", zap.NewNop()); err == nil {
		t.Fatalf("expected error for blank api key")
	}
}

func TestGeminiEmbedBatchWidensValues(t *testing.T) {
	stub := &stubEmbedder{}
	client := newTestGemini(stub)

	vectors, err := client.EmbedBatch(context.Background(), []string{"alpha", "beta"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(vectors) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vectors))
	}

	if vectors[0][0] != 1 || vectors[0][1] != 0 {
		t.Fatalf("unexpected first vector %v", vectors[0])
	}

	if vectors[1][0] != 1 || vectors[1][1] != 1 {
		t.Fatalf("unexpected second vector %v", vectors[1])
	}

	if len(stub.batches) != 1 || len(stub.batches[0]) != 2 {
		t.Fatalf("expected a single batch of 2 texts, got %v", stub.batches)
	}

	if stub.batches[0][0] != "alpha" || stub.batches[0][1] != "beta" {
		t.Fatalf("unexpected batch contents %v", stub.batches[0])
	}
}

func TestGeminiEmbedBatchChunksRequests(t *testing.T) {
	stub := &stubEmbedder{}
	client := newTestGemini(stub)
	client.batchSize = 2

	vectors, err := client.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(vectors) != 3 {
		t.Fatalf("expected 3 vectors, got %d", len(vectors))
	}

	if len(stub.batches) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(stub.batches))
	}

	if len(stub.batches[0]) != 2 || len(stub.batches[1]) != 1 {
		t.Fatalf("unexpected batch sizes: %d, %d", len(stub.batches[0]), len(stub.batches[1]))
	}

	// First element of a vector is its batch number, so ordering across
	// chunks is observable.
	if vectors[0][0] != 1 || vectors[2][0] != 2 {
		t.Fatalf("vectors out of batch order: %v", vectors)
	}
}

func TestGeminiEmbedBatchRejectsShortResponse(t *testing.T) {
	stub := &stubEmbedder{short: true}
	client := newTestGemini(stub)
	client.maxRetries = 1

	_, err := client.EmbedBatch(context.Background(), []string{"one", "two"})
	if err == nil || !strings.Contains(err.Error(), "expected 2 embeddings, got 1") {
		t.Fatalf("expected count mismatch error, got %v", err)
	}
}

func TestGeminiEmbedBatchRetriesTransientFailure(t *testing.T) {
	original := retryBaseDelay
	retryBaseDelay = time.Millisecond
	defer func() { retryBaseDelay = original }()

	stub := &stubEmbedder{failFirst: 1}
	client := newTestGemini(stub)

	vectors, err := client.EmbedBatch(context.Background(), []string{"hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stub.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", stub.calls)
	}

	if len(vectors) != 1 {
		t.Fatalf("expected 1 vector, got %d", len(vectors))
	}
}

func TestGeminiEmbedBatchSubstitutesPlaceholder(t *testing.T) {
	stub := &stubEmbedder{}
	client := newTestGemini(stub)

	if _, err := client.EmbedBatch(context.Background(), []string{"  "}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stub.batches[0][0] != emptyInputPlaceholder {
		t.Fatalf("expected placeholder input, got %q", stub.batches[0][0])
	}
}

func TestGeminiEmbedSingleText(t *testing.T) {
	stub := &stubEmbedder{}
	client := newTestGemini(stub)

	vector, err := client.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(vector) != 2 {
		t.Fatalf("unexpected vector %v", vector)
	}

	if client.Model() != "gemini-embedding-001" {
		t.Fatalf("unexpected model %q", client.Model())
	}
}
