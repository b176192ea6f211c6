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


// Package ai provides abstractions for the embedding services used by qaembed.
//
// The core search and batch logic depends on the Embedder interface rather than
// on a concrete endpoint, so that it can be exercised against mock endpoints
// that simulate arbitrary context limits.
//
// # Implementation Packages
//
//   - ai/ollama: native Ollama backend (/api/embeddings with options.num_ctx)
//   - ai/openai: OpenAI-compatible backend built on langchaingo
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (ollama.NewEmbedder, openai.NewEmbedder) return the
// ai.Embedder INTERFACE to prevent coupling to a particular backend.
//
// Test utility constructors (mock.NewMockEmbedder, mock.NewContextLimitEmbedder)
// return CONCRETE types to enable assertions such as CallCount and Lengths.
//
// # Errors
//
// Backends report transport and service failures as *EndpointError, which
// carries the endpoint URL, the HTTP status when one was received and the raw
// response body. The body is what callers inspect to decide whether the
// endpoint rejected an input for being too long.
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithEmbeddingModel("nomic-embed-text"))
//	embedder, err := ollama.NewEmbedder(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	vector, err := embedder.EmbedText(ctx, "Hello world")
package ai
