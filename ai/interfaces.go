package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// VectorSize returns the dimensionality of vectors produced by the
	// configured embedding model. The first call probes the model with a
	// fixed sample text; subsequent calls return the memoized value.
	VectorSize(ctx context.Context) (int, error)
}

// ImageDescriber produces natural-language descriptions of images using a
// vision model. Implementations must be thread-safe for concurrent use.
type ImageDescriber interface {
	// DescribeImage returns a textual description of the image bytes.
	// An empty prompt selects DefaultVisionPrompt.
	// Returns an error if the vision model call fails.
	DescribeImage(ctx context.Context, image []byte, prompt string) (string, error)
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder and
// ImageDescriber instances, ensuring they share configuration and
// resources appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Describer returns the image description service.
	// The returned ImageDescriber is safe for concurrent use.
	Describer() ImageDescriber

	// Models lists the models available on the inference server.
	Models(ctx context.Context) ([]ModelInfo, error)

	// CheckConnection reports whether the inference server is reachable.
	CheckConnection(ctx context.Context) bool

	// Close releases resources held by the provider and its services.
	Close() error
}
