package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Summarizer compresses a structured session snapshot into a short
// prose summary suitable for embedding. Summarization failures are an
// optimization loss, not a hard error: callers fall back to the raw
// snapshot text.
// Implementations must be thread-safe for concurrent use.
type Summarizer interface {
	// Summarize condenses structured text into a few sentences.
	// Returns an error if the summarization call fails.
	Summarize(ctx context.Context, text string) (string, error)
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder and
// Summarizer instances, ensuring they share configuration and
// resources appropriately. It is an explicitly owned, swappable
// dependency: the scheduler takes one at construction and accepts a
// replacement through Reconfigure when settings change.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Summarizer returns the summarization service.
	// The returned Summarizer is safe for concurrent use.
	Summarizer() Summarizer

	// Ping checks provider connectivity. A non-nil error means the
	// provider is unreachable and a processing cycle should be skipped
	// without touching any job state.
	Ping(ctx context.Context) error

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
