// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the question-answering pipeline to function:
//
//   - ContentStore: Raw and enriched content list persistence
//   - VectorCollection: Durable embedding storage and similarity ranking
//   - EmbeddingService: Generates vector embeddings
//   - LLMService: Generates answers from assembled prompts
//
// # Optional Interfaces
//
//   - ConfigStore: Application settings. Defaults apply when absent.
//   - Extractor: Document extraction backend. Only the parse command
//     needs it; the answering pipeline never touches it.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
