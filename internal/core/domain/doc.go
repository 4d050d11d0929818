// Package domain defines the core business entities for Tracedoc.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ContentItem: A semantic unit extracted from a source document
//   - ReferenceMap: Chunk ID to content item lookup table
//   - VectorRecord / VectorHit: Rows and ranked hits of the vector collection
//   - Timeline / Recorder: Per-query trace capture
//   - Answer: A generated answer with its sources and trace
//   - ParseJob: A document extraction request
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
