package domain

// VectorRecord is one row of the vector collection: an embeddable content
// item together with its embedding and the metadata needed to present a
// retrieval hit without consulting the reference map.
type VectorRecord struct {
	// ChunkID is the content item's identity and the collection's key.
	ChunkID string

	// Text is the embedded text.
	Text string

	// Page is the zero-based page the text came from.
	Page int

	// Kind is the content type of the source item.
	Kind ContentType

	// Level is the heading level of the source item, zero for body text.
	Level int

	// Embedding is the vector representation of Text.
	Embedding []float32
}

// IndexStatus describes the state of the vector collection after an
// EnsureReady call.
type IndexStatus struct {
	// Ready is true when the collection holds at least one record.
	Ready bool

	// Records is the collection cardinality.
	Records int

	// Built is true when this call performed the population.
	Built bool
}

// VectorHit is a single ranked retrieval result.
type VectorHit struct {
	// ChunkID identifies the retrieved record.
	ChunkID string

	// Text is the stored text of the record.
	Text string

	// Page is the zero-based page of the record.
	Page int

	// Score is the cosine similarity to the query vector, in [-1, 1].
	// Hits are returned in non-increasing score order.
	Score float64
}
