package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tracedoc-labs/tracedoc/internal/core/domain"
)

// Environment fallbacks for extraction options, matching the extraction
// server's own configuration variables.
const (
	envServerURL   = "MINERU_SERVER_URL"
	envDeviceMode  = "MINERU_DEVICE_MODE"
	envVirtualVRAM = "MINERU_VIRTUAL_VRAM_SIZE"
	envModelSource = "MINERU_MODEL_SOURCE"
)

var (
	parsePath    string
	parseOutput  string
	parseMethod  string
	parseBackend string
	parseLang    string
	parseURL     string
	parseStart   int
	parseEnd     int
	parseFormula bool
	parseTable   bool
	parseDevice  string
	parseVRAM    int
	parseSource  string
	parseNarrate bool
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Extract structured content from documents",
	Long: `Sends documents to the extraction server and writes one artifact
directory per document: the structured content list (JSON) and a
markdown rendition, under <output>/<stem>/auto/.

A directory input is scanned for pdf, png, jpg and jpeg files. One
failed document does not stop the batch; the command fails only when
every document failed.`,
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&parsePath, "path", "p", "", "document file or directory (required)")
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "", "artifact output directory (required)")
	parseCmd.Flags().StringVarP(&parseMethod, "method", "m", "auto", "parse method: auto, text or ocr")
	parseCmd.Flags().StringVarP(&parseBackend, "backend", "b", "pipeline",
		"extraction backend: pipeline, vlm-transformers, vlm-sglang-engine or vlm-sglang-client")
	parseCmd.Flags().StringVarP(&parseLang, "lang", "l", "ch", "OCR language hint")
	parseCmd.Flags().StringVarP(&parseURL, "url", "u", "", "extraction server URL")
	parseCmd.Flags().IntVarP(&parseStart, "start", "s", 0, "first page to parse (zero-based)")
	parseCmd.Flags().IntVarP(&parseEnd, "end", "e", -1, "last page to parse, inclusive (-1 = through the end)")
	parseCmd.Flags().BoolVarP(&parseFormula, "formula", "f", true, "enable formula recognition")
	parseCmd.Flags().BoolVarP(&parseTable, "table", "t", true, "enable table recognition")
	parseCmd.Flags().StringVarP(&parseDevice, "device", "d", "", "inference device (cpu, cuda, cuda:0, npu, mps)")
	parseCmd.Flags().IntVar(&parseVRAM, "vram", 0, "per-process VRAM cap in GB")
	parseCmd.Flags().StringVar(&parseSource, "source", "huggingface",
		"model weight source: huggingface, modelscope or local")
	parseCmd.Flags().BoolVar(&parseNarrate, "narrate", false, "narrate progress on stdout")

	_ = parseCmd.MarkFlagRequired("path")
	_ = parseCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, _ []string) error {
	if parseServiceFactory == nil {
		return errors.New("parse service not configured")
	}

	job := domain.ParseJob{
		InputPath:     parsePath,
		OutputDir:     parseOutput,
		Method:        domain.ParseMethod(parseMethod),
		Backend:       domain.ParseBackend(parseBackend),
		Lang:          domain.Lang(parseLang),
		ServerURL:     parseURL,
		StartPage:     parseStart,
		EndPage:       parseEnd,
		FormulaEnable: parseFormula,
		TableEnable:   parseTable,
		DeviceMode:    parseDevice,
		VirtualVRAM:   parseVRAM,
		Source:        domain.ModelSource(parseSource),
	}
	applyParseEnvDefaults(&job)

	if err := job.Validate(); err != nil {
		return err
	}

	service := parseServiceFactory(parseNarrate)
	results, err := service.Run(cmd.Context(), job)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	succeeded := 0
	for _, r := range results {
		if r.Err != nil {
			cmd.PrintErrf("  %s: %v\n", r.Name, r.Err)
			continue
		}
		succeeded++
		cmd.Printf("  %s -> %s\n", r.Name, r.ContentListPath)
	}
	cmd.Printf("Extracted %d of %d documents.\n", succeeded, len(results))
	return nil
}

// applyParseEnvDefaults fills options the flags left empty from the
// environment and the settings file, in that order.
func applyParseEnvDefaults(job *domain.ParseJob) {
	if job.ServerURL == "" {
		job.ServerURL = os.Getenv(envServerURL)
	}
	if job.ServerURL == "" && configStore != nil {
		job.ServerURL = configStore.GetString("parse.server_url")
	}
	if job.DeviceMode == "" {
		job.DeviceMode = os.Getenv(envDeviceMode)
	}
	if job.VirtualVRAM == 0 {
		if v, err := strconv.Atoi(os.Getenv(envVirtualVRAM)); err == nil {
			job.VirtualVRAM = v
		}
	}
	if src := os.Getenv(envModelSource); src != "" && job.Source == domain.ModelSourceHuggingFace {
		job.Source = domain.ModelSource(src)
	}
}
