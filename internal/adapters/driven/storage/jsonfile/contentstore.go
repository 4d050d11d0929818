// Package jsonfile persists content lists as JSON files on disk, in the
// exact layout the extraction pipeline writes: an ordered array of
// content items, two-space indented, with non-ASCII text preserved
// literally.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tracedoc-labs/tracedoc/internal/core/domain"
	"github.com/tracedoc-labs/tracedoc/internal/core/ports/driven"
)

// Ensure ContentStore implements the interface.
var _ driven.ContentStore = (*ContentStore)(nil)

// enrichedSuffix distinguishes the enriched content list from the raw
// one in the same artifact directory.
const enrichedSuffix = "_with_ids"

// ContentStore reads and writes the content list files of one corpus.
type ContentStore struct {
	rawPath      string
	enrichedPath string
}

// NewContentStore creates a content store for the raw content list at
// rawPath. The enriched list lives next to it with an "_with_ids"
// suffix before the extension.
func NewContentStore(rawPath string) *ContentStore {
	return &ContentStore{
		rawPath:      rawPath,
		enrichedPath: enrichedPathFor(rawPath),
	}
}

// enrichedPathFor derives the enriched file location from the raw one:
// "doc_content_list.json" becomes "doc_content_list_with_ids.json".
func enrichedPathFor(rawPath string) string {
	ext := filepath.Ext(rawPath)
	return strings.TrimSuffix(rawPath, ext) + enrichedSuffix + ext
}

// RawPath returns the raw content list location.
func (s *ContentStore) RawPath() string {
	return s.rawPath
}

// EnrichedPath returns the enriched content list location.
func (s *ContentStore) EnrichedPath() string {
	return s.enrichedPath
}

// ReadRaw loads the extractor's content list.
func (s *ContentStore) ReadRaw(_ context.Context) ([]domain.ContentItem, error) {
	items, err := readItems(s.rawPath)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", domain.ErrSourceMissing, s.rawPath)
	}
	return items, err
}

// ReadEnriched loads the enriched content list.
func (s *ContentStore) ReadEnriched(_ context.Context) ([]domain.ContentItem, error) {
	items, err := readItems(s.enrichedPath)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, s.enrichedPath)
	}
	return items, err
}

// WriteEnriched persists the enriched content list. The write goes
// through a temp file and rename so a crash cannot leave a half-written
// file that would pass the existence check.
func (s *ContentStore) WriteEnriched(_ context.Context, items []domain.ContentItem) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encoding content list: %w", err)
	}

	tmp := s.enrichedPath + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.enrichedPath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming %s: %w", tmp, err)
	}
	return nil
}

// EnrichedExists reports whether the enriched file is present.
func (s *ContentStore) EnrichedExists(_ context.Context) (bool, error) {
	_, err := os.Stat(s.enrichedPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", s.enrichedPath, err)
	}
	return true, nil
}

func readItems(path string) ([]domain.ContentItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []domain.ContentItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return items, nil
}
