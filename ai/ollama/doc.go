// Package ollama provides an ai.Embedder backed by Ollama's native
// /api/embeddings endpoint.
//
// Unlike the OpenAI-compatible route, the native endpoint accepts runtime
// options, so every request carries options.num_ctx from ai.Config. Errors
// returned by the server are surfaced as *ai.EndpointError with the HTTP
// status and the server's error message as the body.
package ollama
