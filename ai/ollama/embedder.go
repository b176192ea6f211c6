package ollama

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
	"github.com/poiesic/qaembed/ai"
)

// Embedder implements ai.Embedder using the Ollama API client.
type Embedder struct {
	client   *api.Client
	model    string
	numCtx   int
	endpoint string
	logger   *slog.Logger
}

// Option configures an Embedder.
type Option func(*Embedder)

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Embedder) {
		e.logger = logger
	}
}

// newEmbedder is an internal constructor that returns the concrete type.
func newEmbedder(config *ai.Config, opts ...Option) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Backend != ai.BackendOllama {
		return nil, fmt.Errorf("ollama: unsupported backend %q", config.Backend)
	}

	base, err := url.Parse(config.EmbeddingHost)
	if err != nil {
		return nil, fmt.Errorf("ollama: invalid host %q: %w", config.EmbeddingHost, err)
	}

	httpClient := &http.Client{Timeout: config.RequestTimeout}

	e := &Embedder{
		client:   api.NewClient(base, httpClient),
		model:    config.EmbeddingModel,
		numCtx:   config.NumCtx,
		endpoint: config.Endpoint(),
	}
	return e.apply(opts), nil
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config, opts ...Option) (ai.Embedder, error) {
	return newEmbedder(config, opts...)
}

func (e *Embedder) apply(opts []Option) *Embedder {
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	e.logger = e.logger.With("component", "ollama-embedder")
	return e
}

// EmbedText issues one /api/embeddings request for text.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("generating embedding", "length", len(text))

	resp, err := e.client.Embeddings(ctx, &api.EmbeddingRequest{
		Model:  e.model,
		Prompt: text,
		Options: map[string]interface{}{
			"num_ctx": e.numCtx,
		},
	})
	if err != nil {
		e.logger.Debug("embedding request failed", "err", err)
		return nil, e.endpointError(err)
	}

	vector := make([]float32, len(resp.Embedding))
	for i, v := range resp.Embedding {
		vector[i] = float32(v)
	}
	return vector, nil
}

// endpointError converts an Ollama client error into an *ai.EndpointError.
func (e *Embedder) endpointError(err error) error {
	ee := &ai.EndpointError{Endpoint: e.endpoint, Cause: err}

	var se api.StatusError
	if errors.As(err, &se) {
		ee.StatusCode = se.StatusCode
		ee.Body = se.ErrorMessage
	}
	return ee
}
