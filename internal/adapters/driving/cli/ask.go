package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tracedoc-labs/tracedoc/internal/core/domain"
	"github.com/tracedoc-labs/tracedoc/internal/provenance"
)

var (
	askTrace bool
	askJSON  bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question about the corpus",
	Long: `Runs one question through the full pipeline: embed, retrieve the
closest chunks, and synthesise an answer from them.

With --trace the full provenance report follows the answer: retrieval
scores, source pages, the assembled prompt and the raw model exchange.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askTrace, "trace", false, "print the provenance report after the answer")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	if askService == nil {
		return errors.New("ask service not configured")
	}

	answer, err := askService.Ask(cmd.Context(), question)
	if err != nil {
		// A failed run can still carry a partial trace worth showing
		if askTrace && len(answer.Trace) > 0 {
			cmd.PrintErrln(renderTrace(cmd, answer))
		}
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputAskJSON(cmd, answer)
	}

	cmd.Println(answer.Text)

	if len(answer.Sources) > 0 {
		refs := make([]string, 0, len(answer.Sources))
		for _, hit := range answer.Sources {
			refs = append(refs, fmt.Sprintf("%s (page %d, %.4f)", hit.ChunkID, hit.Page, hit.Score))
		}
		cmd.Println()
		cmd.Printf("Sources: %s\n", strings.Join(refs, ", "))
	}

	if len(answer.Inconsistencies) > 0 {
		cmd.Printf("Warning: unresolved chunk IDs: %s\n", strings.Join(answer.Inconsistencies, ", "))
	}

	if askTrace {
		cmd.Println()
		cmd.Println(renderTrace(cmd, answer))
	}

	return nil
}

// renderTrace produces the plain provenance report for an answer.
func renderTrace(cmd *cobra.Command, answer domain.Answer) string {
	refs := domain.ReferenceMap{}
	if referenceService != nil {
		if loaded, err := referenceService.Load(cmd.Context()); err == nil {
			refs = loaded
		}
	}
	return provenance.NewRenderer().Render(answer.Trace, refs)
}

// askResponse is the JSON output shape of the ask command.
type askResponse struct {
	Answer          string      `json:"answer"`
	Sources         []askSource `json:"sources"`
	Inconsistencies []string    `json:"inconsistencies,omitempty"`
}

type askSource struct {
	ChunkID string  `json:"chunk_id"`
	Page    int     `json:"page"`
	Score   float64 `json:"score"`
}

func outputAskJSON(cmd *cobra.Command, answer domain.Answer) error {
	resp := askResponse{
		Answer:          answer.Text,
		Sources:         make([]askSource, 0, len(answer.Sources)),
		Inconsistencies: answer.Inconsistencies,
	}
	for _, hit := range answer.Sources {
		resp.Sources = append(resp.Sources, askSource{
			ChunkID: hit.ChunkID,
			Page:    hit.Page,
			Score:   hit.Score,
		})
	}

	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
