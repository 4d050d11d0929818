// Package provenance renders a captured query timeline into a
// human-readable breakdown: per-stage durations, retrieved chunks with
// similarity scores, the assembled prompt and the raw model output.
//
// The renderer trusts the upstream event order and never re-sorts
// retrieval hits. Sections whose events were not captured are omitted
// silently; a timeline with no events at all renders a notice instead
// of a report.
package provenance

import (
	"fmt"
	"strings"

	"github.com/tracedoc-labs/tracedoc/internal/adapters/driving/tui/styles"
	"github.com/tracedoc-labs/tracedoc/internal/core/domain"
)

// noEventsNotice is rendered when the timeline is empty.
const noEventsNotice = "No trace events were captured for this query."

// durationUnavailable replaces a duration whose event pair is missing
// or whose timestamps do not parse. Never rendered as zero.
const durationUnavailable = "duration unavailable"

// Renderer turns timelines into reports.
type Renderer struct {
	styles *styles.Styles
	styled bool
}

// NewRenderer creates a plain-text renderer.
func NewRenderer() *Renderer {
	return &Renderer{styles: styles.DefaultStyles()}
}

// NewStyledRenderer creates a renderer that colours section headers for
// terminal display.
func NewStyledRenderer(s *styles.Styles) *Renderer {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Renderer{styles: s, styled: true}
}

// Render produces the full breakdown for one query. refs resolves
// retrieved chunk IDs to their source items; a nil map disables
// provenance cross-referencing but not the report.
func (r *Renderer) Render(timeline domain.Timeline, refs domain.ReferenceMap) string {
	if len(timeline) == 0 {
		return noEventsNotice
	}

	var b strings.Builder
	r.writeOverview(&b, timeline)
	r.writeEmbedding(&b, timeline)
	r.writeRetrieval(&b, timeline, refs)
	r.writeSynthesis(&b, timeline)
	return strings.TrimRight(b.String(), "\n")
}

// writeOverview reports the total query duration.
func (r *Renderer) writeOverview(b *strings.Builder, timeline domain.Timeline) {
	if !timeline.Has(domain.EventQuery) {
		return
	}
	b.WriteString(r.header("Query Trace"))
	b.WriteString(fmt.Sprintf("Total query time: %s\n\n", r.durationString(timeline, domain.EventQuery)))
}

// writeEmbedding reports the question embedding stage: input text and
// the first few dimensions of the resulting vector.
func (r *Renderer) writeEmbedding(b *strings.Builder, timeline domain.Timeline) {
	if !timeline.Has(domain.EventEmbedding) {
		return
	}
	b.WriteString(r.header(fmt.Sprintf("Step 1: Embedding (%s)", r.durationString(timeline, domain.EventEmbedding))))

	if payload, ok := timeline.StartPayload(domain.EventEmbedding); ok && payload.Input != "" {
		b.WriteString(fmt.Sprintf("Input text: %s\n", payload.Input))
	}
	if payload, ok := timeline.EndPayload(domain.EventEmbedding); ok && len(payload.VectorPreview) > 0 {
		dims := make([]string, 0, len(payload.VectorPreview))
		for _, v := range payload.VectorPreview {
			dims = append(dims, fmt.Sprintf("%.6f", v))
		}
		b.WriteString(fmt.Sprintf("Output vector (first %d of %d dims): [%s, ...]\n",
			len(payload.VectorPreview), payload.VectorDim, strings.Join(dims, ", ")))
	}
	b.WriteString("\n")
}

// writeRetrieval reports each retrieved chunk with its similarity score,
// in upstream rank order, cross-referenced against the reference map.
func (r *Renderer) writeRetrieval(b *strings.Builder, timeline domain.Timeline, refs domain.ReferenceMap) {
	if !timeline.Has(domain.EventRetrieve) {
		return
	}
	b.WriteString(r.header(fmt.Sprintf("Step 2: Retrieval (%s)", r.durationString(timeline, domain.EventRetrieve))))

	payload, ok := timeline.EndPayload(domain.EventRetrieve)
	if !ok || len(payload.Hits) == 0 {
		b.WriteString("No chunks retrieved.\n\n")
		return
	}

	b.WriteString(fmt.Sprintf("Retrieved %d chunks:\n", len(payload.Hits)))
	for i, hit := range payload.Hits {
		b.WriteString(fmt.Sprintf("\n  [%d] %s (similarity: %.4f)\n", i+1, hit.ChunkID, hit.Score))
		if item, found := refs.Lookup(hit.ChunkID); found {
			// Raw zero-based page index, same convention as the ask
			// command and the MCP tool output.
			b.WriteString(fmt.Sprintf("      page %d", item.PageIdx))
			if item.TextLevel > 0 {
				b.WriteString(fmt.Sprintf(", heading level %d", item.TextLevel))
			}
			b.WriteString("\n")
		} else if refs != nil {
			b.WriteString("      " + r.warn("not found in reference map") + "\n")
		}
		b.WriteString(indent(truncateText(hit.Text, 300), "      ") + "\n")
	}
	b.WriteString("\n")
}

// writeSynthesis reports the assembled prompt and the raw model output,
// with the isolated model-call duration nested under the synthesis one.
func (r *Renderer) writeSynthesis(b *strings.Builder, timeline domain.Timeline) {
	if !timeline.Has(domain.EventSynthesize) {
		return
	}
	b.WriteString(r.header(fmt.Sprintf("Step 3: Synthesis (%s)", r.durationString(timeline, domain.EventSynthesize))))

	if _, _, ok := timeline.Pair(domain.EventLLM); ok {
		b.WriteString(fmt.Sprintf("Model call: %s\n", r.durationString(timeline, domain.EventLLM)))
	}

	if payload, ok := timeline.StartPayload(domain.EventLLM); ok && payload.Prompt != "" {
		b.WriteString("\nFull prompt:\n")
		b.WriteString(indent(payload.Prompt, "  ") + "\n")
	}
	if payload, ok := timeline.EndPayload(domain.EventLLM); ok && payload.Raw != "" {
		b.WriteString("\nRaw model response:\n")
		b.WriteString(indent(truncateText(payload.Raw, 2000), "  ") + "\n")
	}
	b.WriteString("\n")
}

// durationString formats a stage duration in seconds with microsecond
// precision, or reports it unavailable when the pair cannot be timed.
func (r *Renderer) durationString(timeline domain.Timeline, kind domain.EventKind) string {
	d, ok := timeline.Duration(kind)
	if !ok {
		return durationUnavailable
	}
	return fmt.Sprintf("%.6f s", d.Seconds())
}

func (r *Renderer) header(text string) string {
	if r.styled {
		return r.styles.Subtitle.Render(text) + "\n"
	}
	return "=== " + text + " ===\n"
}

func (r *Renderer) warn(text string) string {
	if r.styled {
		return r.styles.Warning.Render(text)
	}
	return "WARNING: " + text
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func truncateText(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
