package mineruweb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracedoc-labs/tracedoc/internal/core/domain"
	"github.com/tracedoc-labs/tracedoc/internal/core/ports/driven"
)

func writeDoc(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "paper.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o644))
	return path
}

func defaultJob() domain.ParseJob {
	return domain.ParseJob{
		InputPath: "in",
		OutputDir: "out",
		Method:    domain.ParseMethodAuto,
		Backend:   domain.BackendPipeline,
		Lang:      domain.LangCh,
		EndPage:   -1,
	}
}

func TestNewExtractor_RequiresBaseURL(t *testing.T) {
	_, err := NewExtractor(Config{})
	assert.Error(t, err)
}

func TestExtractDocument_SendsOptionsAndFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/file_parse", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1 << 20))

		assert.Equal(t, "auto", r.FormValue("parse_method"))
		assert.Equal(t, "pipeline", r.FormValue("backend"))
		assert.Equal(t, "ch", r.FormValue("lang"))
		assert.Equal(t, "true", r.FormValue("return_content_list"))
		assert.Equal(t, "0", r.FormValue("start_page_id"))
		// EndPage -1 means through the final page; the field is omitted.
		assert.Empty(t, r.FormValue("end_page_id"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "paper.pdf", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"md_content":"# Title","content_list":[{"type":"text","text":"Title","page_idx":0,"text_level":1}]}`))
	}))
	defer server.Close()

	ext, err := NewExtractor(Config{BaseURL: server.URL})
	require.NoError(t, err)

	result, err := ext.ExtractDocument(context.Background(), driven.ExtractRequest{
		FilePath: writeDoc(t),
		Options:  defaultJob(),
	})
	require.NoError(t, err)
	assert.Equal(t, "# Title", string(result.Markdown))
	assert.Contains(t, string(result.ContentList), `"text_level":1`)
}

func TestExtractDocument_ServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":"unsupported file type"}`))
	}))
	defer server.Close()

	ext, err := NewExtractor(Config{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = ext.ExtractDocument(context.Background(), driven.ExtractRequest{
		FilePath: writeDoc(t),
		Options:  defaultJob(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestExtractDocument_HTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer server.Close()

	ext, err := NewExtractor(Config{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = ext.ExtractDocument(context.Background(), driven.ExtractRequest{
		FilePath: writeDoc(t),
		Options:  defaultJob(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestExtractDocument_MissingFile(t *testing.T) {
	ext, err := NewExtractor(Config{BaseURL: "http://unused"})
	require.NoError(t, err)

	_, err = ext.ExtractDocument(context.Background(), driven.ExtractRequest{
		FilePath: filepath.Join(t.TempDir(), "absent.pdf"),
		Options:  defaultJob(),
	})
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/docs", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ext, err := NewExtractor(Config{BaseURL: server.URL})
	require.NoError(t, err)
	assert.NoError(t, ext.Ping(context.Background()))
}
