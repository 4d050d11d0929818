package domain

import "time"

// EventTimeLayout is the wire format of trace timestamps. Microsecond
// precision, kept stable because rendered reports and stored transcripts
// parse durations back out of it.
const EventTimeLayout = "01/02/2006, 15:04:05.000000"

// EventKind identifies a stage of the question-answering pipeline.
type EventKind string

// Pipeline stages, in execution order. Query brackets the whole run;
// llm nests inside synthesize.
const (
	// EventQuery spans the entire pipeline run for one question.
	EventQuery EventKind = "query"

	// EventEmbedding spans the embedding of the question text.
	EventEmbedding EventKind = "embedding"

	// EventRetrieve spans the vector collection query.
	EventRetrieve EventKind = "retrieve"

	// EventSynthesize spans prompt assembly plus answer generation.
	EventSynthesize EventKind = "synthesize"

	// EventLLM spans the model call inside synthesis.
	EventLLM EventKind = "llm"
)

// IsValid returns true if the event kind is recognised.
func (k EventKind) IsValid() bool {
	switch k {
	case EventQuery, EventEmbedding, EventRetrieve, EventSynthesize, EventLLM:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k EventKind) String() string {
	return string(k)
}

// EventPhase marks an event as the opening or closing edge of a stage.
type EventPhase string

// Event phases.
const (
	// PhaseStart opens a stage.
	PhaseStart EventPhase = "start"

	// PhaseEnd closes a stage.
	PhaseEnd EventPhase = "end"
)

// EventPayload carries the stage-specific observations attached to a
// trace event. All fields are optional; which ones are populated depends
// on the event kind and phase.
type EventPayload struct {
	// Input is the text being processed (the question, for query and
	// embedding start events).
	Input string

	// VectorPreview holds the first few dimensions of a computed
	// embedding, for display. Never the full vector.
	VectorPreview []float32

	// VectorDim is the full dimensionality of the computed embedding.
	VectorDim int

	// Hits are the ranked retrieval results, in upstream order.
	Hits []VectorHit

	// Prompt is the fully assembled prompt sent to the model.
	Prompt string

	// Content is the model's answer text.
	Content string

	// Raw is the unparsed response body from the model call.
	Raw string
}

// TraceEvent is one edge of one pipeline stage.
type TraceEvent struct {
	// Kind is the stage this event belongs to.
	Kind EventKind

	// Phase marks the event as the stage's start or end.
	Phase EventPhase

	// At is the event timestamp in EventTimeLayout.
	At string

	// Payload holds the stage observations captured at this edge.
	Payload EventPayload
}

// Time parses the event timestamp.
func (e TraceEvent) Time() (time.Time, error) {
	return ParseEventTime(e.At)
}

// FormatEventTime renders a timestamp in the trace wire format.
func FormatEventTime(ts time.Time) string {
	return ts.Format(EventTimeLayout)
}

// ParseEventTime parses a timestamp in the trace wire format.
func ParseEventTime(s string) (time.Time, error) {
	return time.Parse(EventTimeLayout, s)
}

// Timeline is the ordered record of one query's trace events. A stage
// may be absent entirely when its producer never ran; consumers treat
// absence as "no information", never as an error.
type Timeline []TraceEvent

// Has reports whether any event of the kind was captured.
func (t Timeline) Has(kind EventKind) bool {
	for _, e := range t {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// Pair returns the first start event of the kind and the first end event
// that follows it. ok is false when either edge is missing.
func (t Timeline) Pair(kind EventKind) (start, end TraceEvent, ok bool) {
	started := false
	for _, e := range t {
		if e.Kind != kind {
			continue
		}
		switch e.Phase {
		case PhaseStart:
			if !started {
				start = e
				started = true
			}
		case PhaseEnd:
			if started {
				return start, e, true
			}
		}
	}
	return TraceEvent{}, TraceEvent{}, false
}

// StartPayload returns the payload of the first start event of the kind.
func (t Timeline) StartPayload(kind EventKind) (EventPayload, bool) {
	for _, e := range t {
		if e.Kind == kind && e.Phase == PhaseStart {
			return e.Payload, true
		}
	}
	return EventPayload{}, false
}

// EndPayload returns the payload of the first end event of the kind.
func (t Timeline) EndPayload(kind EventKind) (EventPayload, bool) {
	for _, e := range t {
		if e.Kind == kind && e.Phase == PhaseEnd {
			return e.Payload, true
		}
	}
	return EventPayload{}, false
}

// Duration computes end minus start for the stage. ok is false when the
// pair is incomplete or either timestamp does not parse; callers report
// "unavailable" rather than a zero duration.
func (t Timeline) Duration(kind EventKind) (time.Duration, bool) {
	start, end, ok := t.Pair(kind)
	if !ok {
		return 0, false
	}
	startAt, err := start.Time()
	if err != nil {
		return 0, false
	}
	endAt, err := end.Time()
	if err != nil {
		return 0, false
	}
	return endAt.Sub(startAt), true
}

// Recorder captures the timeline of a single query. Each query gets its
// own recorder; nothing is shared between queries, so back-to-back runs
// can never interleave their events. Not safe for concurrent use — a
// recorder belongs to the one goroutine executing its query.
type Recorder struct {
	now    func() time.Time
	events Timeline
}

// NewRecorder returns a recorder stamping events with the wall clock.
func NewRecorder() *Recorder {
	return NewRecorderWithClock(time.Now)
}

// NewRecorderWithClock returns a recorder with an injected clock.
// Tests use this to pin timestamps.
func NewRecorderWithClock(now func() time.Time) *Recorder {
	return &Recorder{now: now}
}

// Begin records the start edge of a stage.
func (r *Recorder) Begin(kind EventKind, payload EventPayload) {
	r.record(kind, PhaseStart, payload)
}

// End records the end edge of a stage.
func (r *Recorder) End(kind EventKind, payload EventPayload) {
	r.record(kind, PhaseEnd, payload)
}

func (r *Recorder) record(kind EventKind, phase EventPhase, payload EventPayload) {
	r.events = append(r.events, TraceEvent{
		Kind:    kind,
		Phase:   phase,
		At:      FormatEventTime(r.now()),
		Payload: payload,
	})
}

// Timeline returns a copy of the events recorded so far.
func (r *Recorder) Timeline() Timeline {
	out := make(Timeline, len(r.events))
	copy(out, r.events)
	return out
}
