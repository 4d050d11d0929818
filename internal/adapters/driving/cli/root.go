// Package cli implements the tracedoc command-line interface.
// It is a driving adapter: commands translate flags and arguments into
// core service calls and render the results.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/tracedoc-labs/tracedoc/internal/core/ports/driven"
	"github.com/tracedoc-labs/tracedoc/internal/core/ports/driving"
	"github.com/tracedoc-labs/tracedoc/internal/logger"
)

// version is the build version, overridable from main.
var version = "0.1.0"

// Package-level service slots, set by Wire before Execute.
var (
	parseServiceFactory func(narrate bool) driving.ParseService
	enrichService       driving.EnrichService
	indexService        driving.IndexService
	askService          driving.AskService
	referenceService    driving.ReferenceService
	configStore         driven.ConfigStore
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "tracedoc",
	Short: "Ask questions about your documents with traceable answers",
	Long: `Tracedoc turns documents into an answerable, referenced corpus.

A typical workflow:
  tracedoc parse -p report.pdf -o ./out    # extract structured content
  tracedoc index                           # embed and store the chunks
  tracedoc ask "what was the Q3 total?"    # one-shot question
  tracedoc chat                            # interactive session

Every answer carries a trace: which chunks were retrieved, from which
pages, with what scores, and the exact prompt and model exchange behind
the generated text.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false,
		"print pipeline debug output to stderr")
}

// Services aggregates everything the commands need. Fields left nil
// disable the commands that depend on them with a clear error.
type Services struct {
	// ParseFactory builds a parse service; narrate controls the
	// user-facing progress narration.
	ParseFactory func(narrate bool) driving.ParseService

	Enrich    driving.EnrichService
	Index     driving.IndexService
	Ask       driving.AskService
	Reference driving.ReferenceService
	Config    driven.ConfigStore
}

// Wire injects the core services into the command tree. Call once from
// main before Execute.
func Wire(s Services) {
	parseServiceFactory = s.ParseFactory
	enrichService = s.Enrich
	indexService = s.Index
	askService = s.Ask
	referenceService = s.Reference
	configStore = s.Config
}

// SetVersion overrides the version printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
