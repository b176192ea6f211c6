// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"strings"
	"time"
)

// Supported embedding backends.
const (
	// BackendOllama talks to Ollama's native /api/embeddings endpoint.
	BackendOllama = "ollama"

	// BackendOpenAI talks to an OpenAI-compatible /v1/embeddings endpoint.
	BackendOpenAI = "openai"
)

// Config holds configuration for an embedding endpoint.
// A Config is treated as immutable once it has been handed to a backend.
type Config struct {
	// Backend selects the wire protocol: BackendOllama or BackendOpenAI.
	Backend string

	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://127.0.0.1:11434" for a local Ollama server
	EmbeddingHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "nomic-embed-text"
	EmbeddingModel string

	// NumCtx is the context size requested from the runtime with every call.
	// Only honored by the ollama backend.
	// Default: 8192
	NumCtx int

	// ExpectedDim is the embedding dimension the model is expected to return.
	// A mismatch is reported as a warning, never as a failure.
	// Default: 768
	ExpectedDim int

	// RequestTimeout bounds a single embedding request.
	// Default: 30s
	RequestTimeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBackend sets the embedding backend.
func WithBackend(backend string) ConfigOption {
	return func(c *Config) {
		c.Backend = backend
	}
}

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithNumCtx sets the per-request context size.
func WithNumCtx(numCtx int) ConfigOption {
	return func(c *Config) {
		c.NumCtx = numCtx
	}
}

// WithExpectedDim sets the expected embedding dimension.
func WithExpectedDim(dim int) ConfigOption {
	return func(c *Config) {
		c.ExpectedDim = dim
	}
}

// WithRequestTimeout sets the per-request timeout.
func WithRequestTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.RequestTimeout = timeout
	}
}

// DefaultConfig returns a Config targeting a local Ollama server running nomic-embed-text.
func DefaultConfig() *Config {
	return &Config{
		Backend:        BackendOllama,
		EmbeddingHost:  "http://127.0.0.1:11434",
		EmbeddingModel: "nomic-embed-text",
		NumCtx:         8192,
		ExpectedDim:    768,
		RequestTimeout: 30 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//   cfg := NewConfig(
//       WithBackend(BackendOpenAI),
//       WithEmbeddingHost("http://localhost:8080"),
//       WithEmbeddingModel("text-embedding-3-small"),
//   )
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// OpenAI-compatible hosts get a /v1 suffix; Ollama hosts are reduced to the
// server root since the client appends /api/embeddings itself.
func (c *Config) Normalize() {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.EmbeddingHost == "" {
		return
	}
	host := strings.TrimSuffix(c.EmbeddingHost, "/")
	switch c.Backend {
	case BackendOpenAI:
		if !strings.HasSuffix(host, "/v1") {
			host = host + "/v1"
		}
	case BackendOllama:
		host = strings.TrimSuffix(host, "/api/embeddings")
		host = strings.TrimSuffix(host, "/api")
	}
	c.EmbeddingHost = host
}

// Endpoint returns the URL embedding requests are sent to.
func (c *Config) Endpoint() string {
	if c.Backend == BackendOpenAI {
		return c.EmbeddingHost + "/embeddings"
	}
	return c.EmbeddingHost + "/api/embeddings"
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Backend != BackendOllama && c.Backend != BackendOpenAI {
		return errors.New("ai config: Backend must be one of ollama, openai")
	}
	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.NumCtx <= 0 {
		return errors.New("ai config: NumCtx must be greater than 0")
	}
	if c.ExpectedDim <= 0 {
		return errors.New("ai config: ExpectedDim must be greater than 0")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("ai config: RequestTimeout must be greater than 0")
	}
	return nil
}
