package ai

import "context"

// Embedder generates vector embeddings from text.
// Implementations issue exactly one request per call and never retry.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Failures reported by the endpoint are returned as *EndpointError.
	EmbedText(ctx context.Context, text string) ([]float32, error)
}
