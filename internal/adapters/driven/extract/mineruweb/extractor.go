// Package mineruweb provides an extraction adapter that delegates
// document parsing to a MinerU-compatible web service. Documents are
// uploaded as multipart form data together with the parse options; the
// service returns the markdown rendition and the structured content
// list for each document.
package mineruweb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/tracedoc-labs/tracedoc/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// DefaultTimeout bounds one document extraction. Parsing a large PDF
// through an OCR pipeline is slow, so this is generous.
const DefaultTimeout = 10 * time.Minute

// Config holds configuration for the extraction service.
type Config struct {
	// BaseURL is the service root, e.g. "http://localhost:8888".
	BaseURL string

	// Timeout is the per-document request timeout (default: 10m).
	Timeout time.Duration
}

// Extractor sends documents to a MinerU-compatible extraction service.
type Extractor struct {
	client  *http.Client
	baseURL string
}

// parseResponse is the service's JSON response for one document.
type parseResponse struct {
	MDContent   string          `json:"md_content"`
	ContentList json.RawMessage `json:"content_list"`
	Error       string          `json:"error,omitempty"`
}

// NewExtractor creates a new extraction client.
func NewExtractor(cfg Config) (*Extractor, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("mineruweb: base URL is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Extractor{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
	}, nil
}

// ExtractDocument uploads one document and returns its artifacts.
func (e *Extractor) ExtractDocument(ctx context.Context, req driven.ExtractRequest) (driven.ExtractResult, error) {
	file, err := os.Open(req.FilePath)
	if err != nil {
		return driven.ExtractResult{}, fmt.Errorf("mineruweb: opening %s: %w", req.FilePath, err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(req.FilePath))
	if err != nil {
		return driven.ExtractResult{}, fmt.Errorf("mineruweb: creating form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return driven.ExtractResult{}, fmt.Errorf("mineruweb: reading %s: %w", req.FilePath, err)
	}

	opts := req.Options
	fields := map[string]string{
		"parse_method":        opts.Method.String(),
		"backend":             opts.Backend.String(),
		"lang":                opts.Lang.String(),
		"formula_enable":      strconv.FormatBool(opts.FormulaEnable),
		"table_enable":        strconv.FormatBool(opts.TableEnable),
		"start_page_id":       strconv.Itoa(opts.StartPage),
		"return_content_list": "true",
	}
	if opts.EndPage >= 0 {
		fields["end_page_id"] = strconv.Itoa(opts.EndPage)
	}
	if opts.ServerURL != "" {
		fields["server_url"] = opts.ServerURL
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return driven.ExtractResult{}, fmt.Errorf("mineruweb: writing field %s: %w", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return driven.ExtractResult{}, fmt.Errorf("mineruweb: finalising form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/file_parse", &body)
	if err != nil {
		return driven.ExtractResult{}, fmt.Errorf("mineruweb: creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return driven.ExtractResult{}, fmt.Errorf("mineruweb: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return driven.ExtractResult{}, fmt.Errorf("mineruweb: reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return driven.ExtractResult{}, fmt.Errorf("mineruweb: status %d: %s", resp.StatusCode, truncate(respBody, 200))
	}

	var parsed parseResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return driven.ExtractResult{}, fmt.Errorf("mineruweb: parsing response: %w", err)
	}
	if parsed.Error != "" {
		return driven.ExtractResult{}, fmt.Errorf("mineruweb: service error: %s", parsed.Error)
	}
	if len(parsed.ContentList) == 0 {
		return driven.ExtractResult{}, fmt.Errorf("mineruweb: response carries no content list")
	}

	return driven.ExtractResult{
		ContentList: parsed.ContentList,
		Markdown:    []byte(parsed.MDContent),
	}, nil
}

// Ping validates the service is reachable.
func (e *Extractor) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/docs", nil)
	if err != nil {
		return fmt.Errorf("mineruweb: creating ping request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("mineruweb: service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("mineruweb: service unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
