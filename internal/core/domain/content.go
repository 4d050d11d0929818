package domain

import "strings"

// ContentType classifies a content item produced by document extraction.
type ContentType string

// Content types emitted by the extraction pipeline.
const (
	// ContentTypeText is running prose, including headings.
	ContentTypeText ContentType = "text"

	// ContentTypeImage is a figure or picture region.
	ContentTypeImage ContentType = "image"

	// ContentTypeTable is a detected table region.
	ContentTypeTable ContentType = "table"

	// ContentTypeEquation is a rendered formula region.
	ContentTypeEquation ContentType = "equation"
)

// IsValid returns true if the content type is recognised.
func (t ContentType) IsValid() bool {
	switch t {
	case ContentTypeText, ContentTypeImage, ContentTypeTable, ContentTypeEquation:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t ContentType) String() string {
	return string(t)
}

// ContentItem is one semantic unit of extractor output: a paragraph,
// heading, image, table or equation, in reading order.
//
// The JSON field names are the wire format of the content list files the
// extractor writes and the enrichment step rewrites. Items are immutable
// once enriched.
type ContentItem struct {
	// ChunkID is the stable identity assigned during enrichment,
	// "chunk_<i>" where i is the item's zero-based position in the file.
	// Empty on raw (un-enriched) items.
	ChunkID string `json:"chunk_id,omitempty"`

	// Type classifies the item.
	Type ContentType `json:"type"`

	// Text is the extracted text. May be empty for non-text items.
	Text string `json:"text"`

	// PageIdx is the zero-based page the item was extracted from.
	PageIdx int `json:"page_idx"`

	// TextLevel is the heading level. Zero means body text and is
	// omitted on the wire, matching the extractor's output.
	TextLevel int `json:"text_level,omitempty"`
}

// Embeddable reports whether the item qualifies for the vector index:
// text items with non-blank content. Images, tables, equations and
// whitespace-only text are excluded.
func (c ContentItem) Embeddable() bool {
	return c.Type == ContentTypeText && strings.TrimSpace(c.Text) != ""
}

// EnrichStatus describes the state of the enriched content list.
type EnrichStatus struct {
	// Enriched is true when the enriched file exists. Its presence
	// alone suppresses re-enrichment; content is never re-checked.
	Enriched bool

	// Items is the number of items in the enriched file, zero when
	// not yet enriched.
	Items int

	// Built is true when this call performed the enrichment.
	Built bool
}

// ReferenceMap resolves chunk IDs back to their full content items.
// It is built once per process from the enriched content list; its keys
// are exactly the chunk IDs present in that file.
type ReferenceMap map[string]ContentItem

// Lookup returns the item for a chunk ID.
func (m ReferenceMap) Lookup(chunkID string) (ContentItem, bool) {
	item, ok := m[chunkID]
	return item, ok
}

// Len returns the number of referenced items.
func (m ReferenceMap) Len() int {
	return len(m)
}
