package domain

// Answer is the outcome of one traced query.
type Answer struct {
	// Text is the generated answer.
	Text string

	// Sources are the retrieval hits the answer was synthesised from,
	// in the order the collection returned them.
	Sources []VectorHit

	// Trace is the timeline of the pipeline run that produced the
	// answer, finalised even when the run failed partway.
	Trace Timeline

	// Inconsistencies lists retrieved chunk IDs that could not be
	// resolved in the reference map. A non-empty list signals the
	// enriched content list and the vector collection have diverged;
	// it is surfaced to the user, never treated as fatal.
	Inconsistencies []string
}
