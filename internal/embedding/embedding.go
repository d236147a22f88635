// Package embedding turns prepared text into numeric vectors through a
// remote embedding provider.
package embedding

import (
	"context"
	"strings"
	"time"

	"github.com/spigell/job-ranker/internal/utils"
	"go.uber.org/zap"
)

const (
	defaultBatchSize  = 20
	defaultMaxRetries = 3

	// maxInputWords caps a single input so it stays under provider token
	// limits.
	maxInputWords = 8000

	// emptyInputPlaceholder is sent instead of blank text because providers
	// reject empty inputs.
	emptyInputPlaceholder = "empty text"
)

// retryBaseDelay is scaled down in tests.
var retryBaseDelay = time.Second

// Provider produces one vector per input text, preserving input order. A
// failed remote call fails the whole batch.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
	Model() string
}

var modelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
	"gemini-embedding-001":   3072,
}

// ModelDimensions reports the expected vector size for known models.
func ModelDimensions(model string) (int, bool) {
	dims, ok := modelDimensions[model]
	return dims, ok
}

// prepareInput truncates oversized text and substitutes a placeholder for
// blank input.
func prepareInput(text string) string {
	if strings.TrimSpace(text) == "" {
		return emptyInputPlaceholder
	}

	words := strings.Fields(text)
	if len(words) > maxInputWords {
		return strings.Join(words[:maxInputWords], " ")
	}

	return text
}

func chunk(texts []string, size int) [][]string {
	if size <= 0 {
		size = defaultBatchSize
	}

	chunks := make([][]string, 0, (len(texts)+size-1)/size)
	for start := 0; start < len(texts); start += size {
		end := start + size
		if end > len(texts) {
			end = len(texts)
		}
		chunks = append(chunks, texts[start:end])
	}

	return chunks
}

// retry runs fn up to attempts times with exponential backoff between tries.
// The context cancels the waits.
func retry(ctx context.Context, logger *zap.Logger, attempts int, fn func() error) error {
	var err error

	for attempt := 0; attempt < attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}

		if attempt == attempts-1 {
			break
		}

		wait := time.Duration(1<<attempt) * retryBaseDelay

		logger.Debug("embedding request failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("attempts", attempts),
			zap.Duration("wait", wait),
			zap.Error(err),
		)

		if werr := utils.WaitFor(ctx, wait); werr != nil {
			return werr
		}
	}

	return err
}

// checkDimensions warns when a known model returns vectors of an unexpected
// size.
func checkDimensions(logger *zap.Logger, model string, vectors [][]float64) {
	expected, ok := ModelDimensions(model)
	if !ok || len(vectors) == 0 {
		return
	}

	if actual := len(vectors[0]); actual != expected {
		logger.Warn("unexpected embedding dimension",
			zap.String("model", model),
			zap.Int("expected", expected),
			zap.Int("actual", actual),
		)
	}
}
