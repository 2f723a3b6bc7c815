// Package ai provides abstractions for the AI capabilities the ingestion
// and retrieval engines consume.
//
// Two capabilities are defined:
//
//   - Embedder: maps text to fixed-dimension vectors
//   - Generator: produces an answer from a composed prompt
//
// Implementation sub-packages:
//
//   - ai/hash: deterministic content-hash embedder, no semantic meaning;
//     used for tests and plumbing
//   - ai/openai: OpenAI-compatible embedder and generator
//   - ai/extractive: generator that answers from the prompt's own context,
//     requiring no external model
//   - ai/mock: test doubles with injectable behavior
//
// Public constructors in the implementation packages return interface types
// to keep callers decoupled from concrete services.
package ai
