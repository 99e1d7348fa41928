package ollama

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/poiesic/flowdex/ai"
)

// Embedder implements ai.Embedder using an Ollama embedding model.
type Embedder struct {
	embedder embeddings.Embedder
	timeout  timeoutFunc
	logger   *slog.Logger

	mu         sync.Mutex
	vectorSize int
}

// timeoutFunc wraps a context with the per-request deadline. Factored
// out so tests can substitute a shorter bound.
type timeoutFunc func(ctx context.Context) (context.Context, context.CancelFunc)

// newEmbedder is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	llm, err := ollama.New(
		ollama.WithServerURL(config.Host),
		ollama.WithModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(llm, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	embedTimeout := config.EmbedTimeout
	return &Embedder{
		embedder: embedder,
		timeout: func(ctx context.Context) (context.Context, context.CancelFunc) {
			return context.WithTimeout(ctx, embedTimeout)
		},
		logger: slog.Default().With("component", "ollama-embedder"),
	}, nil
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("generating embedding", "length", len(text))

	ctx, cancel := e.timeout(ctx)
	defer cancel()

	vectors, err := e.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		e.logger.Error("failed to generate embedding", "err", err)
		return nil, classify(err)
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		e.logger.Warn("embedder returned empty vector")
		return nil, fmt.Errorf("%w: empty embedding", ai.ErrMalformedResponse)
	}
	return vectors[0], nil
}

// VectorSize returns the dimensionality of the configured embedding
// model. The first successful call embeds a fixed probe text and
// memoizes the result; failures are not cached.
func (e *Embedder) VectorSize(ctx context.Context) (int, error) {
	e.mu.Lock()
	cached := e.vectorSize
	e.mu.Unlock()
	if cached > 0 {
		return cached, nil
	}

	vector, err := e.EmbedText(ctx, ai.DimensionProbe)
	if err != nil {
		return 0, fmt.Errorf("probe vector size: %w", err)
	}

	e.mu.Lock()
	e.vectorSize = len(vector)
	e.mu.Unlock()
	return len(vector), nil
}

// classify maps transport errors onto the ai error taxonomy.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ai.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", ai.ErrInference, err)
}
