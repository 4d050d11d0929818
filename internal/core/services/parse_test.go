package services

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracedoc-labs/tracedoc/internal/core/domain"
	"github.com/tracedoc-labs/tracedoc/internal/progress"
)

func touchFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("binary"), 0o644))
	}
}

func parseJob(input, output string) domain.ParseJob {
	return domain.ParseJob{
		InputPath:     input,
		OutputDir:     output,
		Method:        domain.ParseMethodAuto,
		Backend:       domain.BackendPipeline,
		Lang:          domain.LangCh,
		EndPage:       -1,
		FormulaEnable: true,
		TableEnable:   true,
		Source:        domain.ModelSourceHuggingFace,
	}
}

func TestParseService_BatchContinuesAfterFailure(t *testing.T) {
	input := t.TempDir()
	output := t.TempDir()
	touchFiles(t, input, "a.pdf", "b.pdf", "c.png")

	extractor := &mockExtractor{failNames: map[string]error{
		"b.pdf": errors.New("model server returned 500"),
	}}
	svc := NewParseService(extractor, nil)

	results, err := svc.Run(context.Background(), parseJob(input, output))
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.NoError(t, results[2].Err)
	assert.Equal(t, "b.pdf", results[1].Name)

	// Successful documents have their artifacts on disk.
	content, readErr := os.ReadFile(results[0].ContentListPath)
	require.NoError(t, readErr)
	assert.Contains(t, string(content), "extracted")
	assert.FileExists(t, results[2].MarkdownPath)

	// The failed document produced nothing.
	assert.NoDirExists(t, filepath.Join(output, "b"))
}

func TestParseService_AllDocumentsFailing(t *testing.T) {
	input := t.TempDir()
	touchFiles(t, input, "a.pdf", "b.pdf")

	boom := errors.New("backend unreachable")
	extractor := &mockExtractor{failNames: map[string]error{"a.pdf": boom, "b.pdf": boom}}
	svc := NewParseService(extractor, nil)

	results, err := svc.Run(context.Background(), parseJob(input, t.TempDir()))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
	assert.Len(t, results, 2)
}

func TestParseService_ReusableAfterFailedBatch(t *testing.T) {
	input := t.TempDir()
	touchFiles(t, input, "a.pdf")

	boom := errors.New("backend unreachable")
	extractor := &mockExtractor{failNames: map[string]error{"a.pdf": boom}}
	display := progress.NewWithWriter(true, io.Discard, false)
	svc := NewParseService(extractor, display)

	_, err := svc.Run(context.Background(), parseJob(input, t.TempDir()))
	require.ErrorIs(t, err, domain.ErrExtractionFailed)

	// The failed batch tore the narration down; a second run on the
	// same service must come back up cleanly.
	extractor.failNames = nil
	results, err := svc.Run(context.Background(), parseJob(input, t.TempDir()))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
}

func TestParseService_ArtifactLayout(t *testing.T) {
	input := t.TempDir()
	output := t.TempDir()
	touchFiles(t, input, "年度报告.pdf")

	svc := NewParseService(&mockExtractor{}, nil)

	results, err := svc.Run(context.Background(), parseJob(input, output))
	require.NoError(t, err)
	require.Len(t, results, 1)

	wantDir := filepath.Join(output, "年度报告", "auto")
	assert.Equal(t, filepath.Join(wantDir, "年度报告_content_list.json"), results[0].ContentListPath)
	assert.Equal(t, filepath.Join(wantDir, "年度报告.md"), results[0].MarkdownPath)
	assert.FileExists(t, results[0].ContentListPath)
	assert.FileExists(t, results[0].MarkdownPath)
}

func TestParseService_SingleFileInput(t *testing.T) {
	input := t.TempDir()
	touchFiles(t, input, "only.pdf")
	extractor := &mockExtractor{}
	svc := NewParseService(extractor, nil)

	results, err := svc.Run(context.Background(), parseJob(filepath.Join(input, "only.pdf"), t.TempDir()))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "only.pdf", results[0].Name)
	require.Len(t, extractor.requests, 1)
	assert.Equal(t, domain.BackendPipeline, extractor.requests[0].Options.Backend)
}

func TestParseService_DirectoryScan(t *testing.T) {
	input := t.TempDir()
	output := t.TempDir()
	touchFiles(t, input, "b.PDF", "a.pdf", "notes.txt", "scan.jpeg")
	require.NoError(t, os.Mkdir(filepath.Join(input, "nested"), 0o755))

	extractor := &mockExtractor{}
	svc := NewParseService(extractor, nil)

	results, err := svc.Run(context.Background(), parseJob(input, output))
	require.NoError(t, err)

	// Extensions are case-insensitive, unknown types and
	// subdirectories are skipped, order is deterministic.
	require.Len(t, results, 3)
	assert.Equal(t, "a.pdf", results[0].Name)
	assert.Equal(t, "b.PDF", results[1].Name)
	assert.Equal(t, "scan.jpeg", results[2].Name)
}

func TestParseService_ConfiguredExtensions(t *testing.T) {
	input := t.TempDir()
	touchFiles(t, input, "a.pdf", "b.tiff")

	svc := NewParseService(&mockExtractor{}, nil)
	svc.SetExtensions([]string{"tiff"})

	results, err := svc.Run(context.Background(), parseJob(input, t.TempDir()))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "b.tiff", results[0].Name)
}

func TestParseService_MissingInput(t *testing.T) {
	svc := NewParseService(&mockExtractor{}, nil)

	_, err := svc.Run(context.Background(), parseJob("/nonexistent/path.pdf", t.TempDir()))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSourceMissing)
}

func TestParseService_EmptyDirectory(t *testing.T) {
	svc := NewParseService(&mockExtractor{}, nil)

	_, err := svc.Run(context.Background(), parseJob(t.TempDir(), t.TempDir()))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseService_InvalidJob(t *testing.T) {
	svc := NewParseService(&mockExtractor{}, nil)
	job := parseJob(t.TempDir(), t.TempDir())
	job.Method = "fast"

	_, err := svc.Run(context.Background(), job)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseService_CancelledContext(t *testing.T) {
	input := t.TempDir()
	touchFiles(t, input, "a.pdf")
	svc := NewParseService(&mockExtractor{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Run(ctx, parseJob(input, t.TempDir()))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
