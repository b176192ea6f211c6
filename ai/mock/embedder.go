package mock

import (
	"context"
	"hash/fnv"
	"net/http"
	"sync"
	"unicode/utf8"

	"github.com/poiesic/qaembed/ai"
)

// DefaultDimension is the size of vectors produced by the mocks.
const DefaultDimension = 768

// ContextLengthMessage is the error message Ollama returns for overlong inputs.
const ContextLengthMessage = "the input length exceeds the context length"

// MockEmbedder is a test double for ai.Embedder.
// It allows custom behavior injection via function fields.
type MockEmbedder struct {
	// EmbedTextFunc is called by EmbedText if set.
	// If nil, uses default deterministic behavior.
	EmbedTextFunc func(ctx context.Context, text string) ([]float32, error)

	mu        sync.Mutex
	callCount int
	texts     []string
}

var _ ai.Embedder = (*MockEmbedder)(nil)

// NewMockEmbedder creates a mock embedder with default deterministic behavior.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{}
}

// EmbedText records the call and generates a deterministic embedding based on text hash.
func (m *MockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.callCount++
	m.texts = append(m.texts, text)
	fn := m.EmbedTextFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, text)
	}
	return GenerateDeterministicVector(text, DefaultDimension), nil
}

// CallCount returns the number of times EmbedText was called.
func (m *MockEmbedder) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Texts returns the texts received, in call order.
func (m *MockEmbedder) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.texts...)
}

// Reset clears the call history and any injected behavior.
func (m *MockEmbedder) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.texts = nil
	m.EmbedTextFunc = nil
}

// ContextLimitEmbedder simulates an endpoint with a fixed, undisclosed context limit.
// Inputs longer than Limit characters are rejected with a context length error.
type ContextLimitEmbedder struct {
	Limit     int
	Endpoint  string
	Dimension int

	mu      sync.Mutex
	lengths []int
}

var _ ai.Embedder = (*ContextLimitEmbedder)(nil)

// NewContextLimitEmbedder creates an endpoint simulator accepting at most limit characters.
func NewContextLimitEmbedder(limit int) *ContextLimitEmbedder {
	return &ContextLimitEmbedder{
		Limit:     limit,
		Endpoint:  "http://mock/api/embeddings",
		Dimension: DefaultDimension,
	}
}

// EmbedText accepts or rejects text depending on its length in characters.
func (c *ContextLimitEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	n := utf8.RuneCountInString(text)

	c.mu.Lock()
	c.lengths = append(c.lengths, n)
	c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, &ai.EndpointError{Endpoint: c.Endpoint, Cause: err}
	}
	if n > c.Limit {
		return nil, &ai.EndpointError{
			Endpoint:   c.Endpoint,
			StatusCode: http.StatusInternalServerError,
			Body:       ContextLengthMessage,
		}
	}
	return GenerateDeterministicVector(text, c.Dimension), nil
}

// Lengths returns the length of every text received, in call order.
func (c *ContextLimitEmbedder) Lengths() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.lengths...)
}

// CallCount returns the number of requests received.
func (c *ContextLimitEmbedder) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lengths)
}

// GenerateDeterministicVector creates a deterministic embedding vector from text.
// It uses FNV hash to ensure the same text always produces the same vector.
func GenerateDeterministicVector(text string, dim int) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	vector := make([]float32, dim)
	for i := 0; i < dim; i++ {
		// Simple pseudo-random generation based on seed and index
		seed = seed*1664525 + 1013904223 // LCG constants
		vector[i] = float32(seed%1000) / 1000.0
	}

	return vector
}
