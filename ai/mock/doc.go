// Package mock provides test double implementations of ai.Embedder.
//
// The mocks allow tests to run without an embedding endpoint and enable
// controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	embedder := mock.NewMockEmbedder()
//	vector, err := embedder.EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return []float32{0.1, 0.2, 0.3}, nil
//	}
//
//	// An endpoint that rejects anything longer than 9000 characters
//	limited := mock.NewContextLimitEmbedder(9000)
//	_, err = limited.EmbedText(ctx, strings.Repeat("x", 9001))
//	lengths := limited.Lengths() // [9001]
//
// # Default Behavior
//
//   - MockEmbedder: Returns deterministic vectors based on text hash
//   - ContextLimitEmbedder: Returns deterministic vectors for inputs within the
//     limit and an *ai.EndpointError carrying Ollama's context length message
//     for longer inputs
package mock
