// Package ollama provides an HTTP client for a locally hosted Ollama
// inference service.
//
// The Client handles:
//   - One-shot image description via POST /api/chat (base64 image payload)
//   - An explicit request timeout (a stuck local model must not hang the run)
//   - Service diagnostics via /api/version and /api/tags
//
// # Basic Usage
//
//	client := ollama.NewClient(ollama.DefaultHost, ollama.DefaultTimeout)
//
//	// Ask the vision model for a short description
//	text, err := client.Describe(ctx, "gemma3:4b", imageBytes)
//
//	// Probe the service without running inference
//	report, err := client.Check(ctx, "gemma3:4b")
//
// # Error Classification
//
// Failures wrap one of three sentinel errors, each carrying an actionable
// message and none of them retried:
//
//	errors.Is(err, ollama.ErrConnection)    // service not running / wrong port
//	errors.Is(err, ollama.ErrModelNotFound) // model not pulled
//	errors.Is(err, ollama.ErrInference)     // empty or malformed response
package ollama
