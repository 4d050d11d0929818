package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tracedoc-labs/tracedoc/internal/core/domain"
	"github.com/tracedoc-labs/tracedoc/internal/core/ports/driven"
	"github.com/tracedoc-labs/tracedoc/internal/core/ports/driving"
	"github.com/tracedoc-labs/tracedoc/internal/logger"
	"github.com/tracedoc-labs/tracedoc/internal/progress"
)

// Ensure ParseService implements the interface.
var _ driving.ParseService = (*ParseService)(nil)

// defaultExtensions are the document types collected from an input
// directory. Overridable through configuration.
var defaultExtensions = []string{"pdf", "png", "jpg", "jpeg"}

// ParseService runs extraction batches against the extraction backend
// and lays the artifacts out on disk, one directory per document.
type ParseService struct {
	extractor  driven.Extractor
	display    *progress.Displayer
	extensions []string
}

// NewParseService creates a new parse service. display may be nil when
// no narration is wanted.
func NewParseService(extractor driven.Extractor, display *progress.Displayer) *ParseService {
	return &ParseService{
		extractor:  extractor,
		display:    display,
		extensions: defaultExtensions,
	}
}

// SetExtensions overrides which file types are collected from an input
// directory. Values are extensions without the dot, e.g. "pdf".
func (s *ParseService) SetExtensions(extensions []string) {
	if len(extensions) > 0 {
		s.extensions = extensions
	}
}

// Run extracts every document the job covers. Per-document failures are
// recorded and the batch continues; the error is non-nil only when the
// batch could not run at all or every document failed.
func (s *ParseService) Run(ctx context.Context, job domain.ParseJob) ([]domain.DocumentResult, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}

	logger.Section("Document Extraction")

	files, err := s.collectFiles(job.InputPath)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no parseable documents under %s", domain.ErrInvalidInput, job.InputPath)
	}

	logger.Info("Extracting %d documents, backend %s, method %s", len(files), job.Backend, job.Method)
	s.display.Major(fmt.Sprintf("开始解析 %d 个文档", len(files)))

	results := make([]domain.DocumentResult, 0, len(files))
	failed := 0
	for i, file := range files {
		if ctx.Err() != nil {
			s.display.Stop()
			return results, fmt.Errorf("extraction batch cancelled: %w", ctx.Err())
		}

		name := filepath.Base(file)
		s.display.Show(fmt.Sprintf("正在解析: %s（%d/%d）", name, i+1, len(files)))

		result := s.extractOne(ctx, file, job)
		if result.Err != nil {
			failed++
			logger.Warn("Document %s failed: %v", name, result.Err)
		} else {
			logger.Info("Document %s -> %s", name, result.ContentListPath)
		}
		results = append(results, result)
	}

	if failed == len(files) {
		s.display.Stop()
		return results, fmt.Errorf("%w: all %d documents failed", domain.ErrExtractionFailed, len(files))
	}

	s.display.Success(fmt.Sprintf("解析完成：%d 成功，%d 失败", len(files)-failed, failed))
	return results, nil
}

// extractOne processes a single document and writes its artifacts under
// <output>/<stem>/auto/.
func (s *ParseService) extractOne(ctx context.Context, file string, job domain.ParseJob) domain.DocumentResult {
	name := filepath.Base(file)
	result := domain.DocumentResult{Name: name}

	extracted, err := s.extractor.ExtractDocument(ctx, driven.ExtractRequest{
		FilePath: file,
		Options:  job,
	})
	if err != nil {
		result.Err = fmt.Errorf("extract %s: %w", name, err)
		return result
	}

	stem := strings.TrimSuffix(name, filepath.Ext(name))
	artifactDir := filepath.Join(job.OutputDir, stem, "auto")
	if err := os.MkdirAll(artifactDir, 0o755); err != nil {
		result.Err = fmt.Errorf("create artifact dir for %s: %w", name, err)
		return result
	}

	contentListPath := filepath.Join(artifactDir, stem+"_content_list.json")
	if err := os.WriteFile(contentListPath, extracted.ContentList, 0o644); err != nil {
		result.Err = fmt.Errorf("write content list for %s: %w", name, err)
		return result
	}

	markdownPath := filepath.Join(artifactDir, stem+".md")
	if err := os.WriteFile(markdownPath, extracted.Markdown, 0o644); err != nil {
		result.Err = fmt.Errorf("write markdown for %s: %w", name, err)
		return result
	}

	result.ContentListPath = contentListPath
	result.MarkdownPath = markdownPath
	return result
}

// collectFiles resolves the input path to the ordered list of documents
// to extract. A single file is taken as-is; a directory is scanned
// non-recursively for the configured extensions.
func (s *ParseService) collectFiles(input string) ([]string, error) {
	info, err := os.Stat(input)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", domain.ErrSourceMissing, input)
	}
	if err != nil {
		return nil, fmt.Errorf("stat input %s: %w", input, err)
	}

	if !info.IsDir() {
		return []string{input}, nil
	}

	entries, err := os.ReadDir(input)
	if err != nil {
		return nil, fmt.Errorf("read input directory %s: %w", input, err)
	}

	allowed := make(map[string]bool, len(s.extensions))
	for _, ext := range s.extensions {
		allowed["."+strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if allowed[strings.ToLower(filepath.Ext(entry.Name()))] {
			files = append(files, filepath.Join(input, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
