package domain

import (
	"errors"
	"fmt"
)

// ParseMethod selects how page content is recovered from a document.
type ParseMethod string

// Parse methods.
const (
	// ParseMethodAuto lets the extractor pick per document.
	ParseMethodAuto ParseMethod = "auto"

	// ParseMethodText extracts the embedded text layer directly.
	ParseMethodText ParseMethod = "text"

	// ParseMethodOCR forces optical character recognition.
	ParseMethodOCR ParseMethod = "ocr"
)

// IsValid returns true if the parse method is recognised.
func (m ParseMethod) IsValid() bool {
	switch m {
	case ParseMethodAuto, ParseMethodText, ParseMethodOCR:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m ParseMethod) String() string {
	return string(m)
}

// ParseBackend selects the extraction engine.
type ParseBackend string

// Parse backends.
const (
	// BackendPipeline is the general-purpose multi-model pipeline.
	BackendPipeline ParseBackend = "pipeline"

	// BackendVLMTransformers runs the vision-language model in-process.
	BackendVLMTransformers ParseBackend = "vlm-transformers"

	// BackendVLMSglangEngine runs the vision-language model through a
	// local sglang engine.
	BackendVLMSglangEngine ParseBackend = "vlm-sglang-engine"

	// BackendVLMSglangClient sends pages to a remote sglang server.
	// Requires a server URL.
	BackendVLMSglangClient ParseBackend = "vlm-sglang-client"
)

// IsValid returns true if the backend is recognised.
func (b ParseBackend) IsValid() bool {
	switch b {
	case BackendPipeline, BackendVLMTransformers, BackendVLMSglangEngine, BackendVLMSglangClient:
		return true
	default:
		return false
	}
}

// RequiresServerURL returns true if the backend calls a remote server.
func (b ParseBackend) RequiresServerURL() bool {
	return b == BackendVLMSglangClient
}

// String returns the string representation.
func (b ParseBackend) String() string {
	return string(b)
}

// ModelSource selects where the extractor obtains its model weights.
type ModelSource string

// Model sources.
const (
	// ModelSourceHuggingFace downloads from Hugging Face.
	ModelSourceHuggingFace ModelSource = "huggingface"

	// ModelSourceModelScope downloads from ModelScope.
	ModelSourceModelScope ModelSource = "modelscope"

	// ModelSourceLocal uses locally provisioned weights.
	ModelSourceLocal ModelSource = "local"
)

// IsValid returns true if the model source is recognised.
func (s ModelSource) IsValid() bool {
	switch s {
	case ModelSourceHuggingFace, ModelSourceModelScope, ModelSourceLocal:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s ModelSource) String() string {
	return string(s)
}

// Lang is the document language hint passed to the OCR stage.
type Lang string

// Language hints accepted by the pipeline backend.
const (
	LangCh         Lang = "ch"
	LangChServer   Lang = "ch_server"
	LangChLite     Lang = "ch_lite"
	LangEn         Lang = "en"
	LangKorean     Lang = "korean"
	LangJapan      Lang = "japan"
	LangChineseCht Lang = "chinese_cht"
	LangTa         Lang = "ta"
	LangTe         Lang = "te"
	LangKa         Lang = "ka"
)

// IsValid returns true if the language hint is recognised.
func (l Lang) IsValid() bool {
	switch l {
	case LangCh, LangChServer, LangChLite, LangEn, LangKorean,
		LangJapan, LangChineseCht, LangTa, LangTe, LangKa:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (l Lang) String() string {
	return string(l)
}

// ParseJob describes one extraction run over a file or directory.
type ParseJob struct {
	// InputPath is the document file or directory of documents.
	InputPath string

	// OutputDir receives one artifact directory per document.
	OutputDir string

	// Method selects text recovery. Defaults to auto.
	Method ParseMethod

	// Backend selects the extraction engine. Defaults to pipeline.
	Backend ParseBackend

	// Lang is the OCR language hint. Defaults to ch.
	Lang Lang

	// ServerURL is the remote engine address. Required by backends
	// that call out, ignored otherwise.
	ServerURL string

	// StartPage is the zero-based first page to parse.
	StartPage int

	// EndPage is the zero-based last page to parse, inclusive.
	// Negative means through the final page.
	EndPage int

	// FormulaEnable turns formula recognition on.
	FormulaEnable bool

	// TableEnable turns table recognition on.
	TableEnable bool

	// DeviceMode selects the inference device (cpu, cuda, cuda:0, npu,
	// mps). Empty lets the extractor decide.
	DeviceMode string

	// VirtualVRAM caps per-process VRAM in GB. Zero lets the extractor
	// decide.
	VirtualVRAM int

	// Source selects where model weights come from.
	Source ModelSource
}

// Validate checks the job is well-formed. All violations are reported in
// one error so the caller can fix everything at once.
func (j ParseJob) Validate() error {
	var problems []error
	if j.InputPath == "" {
		problems = append(problems, fmt.Errorf("%w: input path is required", ErrInvalidInput))
	}
	if j.OutputDir == "" {
		problems = append(problems, fmt.Errorf("%w: output directory is required", ErrInvalidInput))
	}
	if !j.Method.IsValid() {
		problems = append(problems, fmt.Errorf("%w: unknown parse method %q", ErrInvalidInput, j.Method))
	}
	if !j.Backend.IsValid() {
		problems = append(problems, fmt.Errorf("%w: unknown backend %q", ErrInvalidInput, j.Backend))
	}
	if !j.Lang.IsValid() {
		problems = append(problems, fmt.Errorf("%w: unknown language hint %q", ErrInvalidInput, j.Lang))
	}
	if j.Backend.RequiresServerURL() && j.ServerURL == "" {
		problems = append(problems, fmt.Errorf("%w: backend %s requires a server URL", ErrInvalidInput, j.Backend))
	}
	if j.StartPage < 0 {
		problems = append(problems, fmt.Errorf("%w: start page must not be negative", ErrInvalidInput))
	}
	if j.EndPage >= 0 && j.EndPage < j.StartPage {
		problems = append(problems, fmt.Errorf("%w: end page precedes start page", ErrInvalidInput))
	}
	if j.Source != "" && !j.Source.IsValid() {
		problems = append(problems, fmt.Errorf("%w: unknown model source %q", ErrInvalidInput, j.Source))
	}
	return errors.Join(problems...)
}

// DocumentResult reports the outcome of extracting one document.
type DocumentResult struct {
	// Name is the document file name.
	Name string

	// ContentListPath is where the structured content list was written.
	ContentListPath string

	// MarkdownPath is where the markdown rendition was written.
	MarkdownPath string

	// Err is the per-document failure, nil on success. One failed
	// document never aborts the rest of a batch.
	Err error
}
