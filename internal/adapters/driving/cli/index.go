package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the vector index from the enriched corpus",
	Long: `Ensures the corpus is queryable: assigns chunk IDs to the extracted
content list if not yet done, then embeds every text chunk and stores
the vectors in the collection.

The command is idempotent. A populated collection is left untouched;
run it again after replacing the corpus files to index new content.`,
	RunE: runIndex,
}

var indexStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the enrichment state without building",
	RunE:  runIndexStatus,
}

func init() {
	indexCmd.AddCommand(indexStatusCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	status, err := indexService.EnsureReady(cmd.Context())
	if err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}

	if status.Built {
		cmd.Printf("Indexed %d chunks.\n", status.Records)
	} else {
		cmd.Printf("Collection already populated with %d records.\n", status.Records)
	}
	return nil
}

func runIndexStatus(cmd *cobra.Command, _ []string) error {
	if enrichService == nil {
		return errors.New("enrich service not configured")
	}

	status, err := enrichService.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("status check failed: %w", err)
	}

	if status.Enriched {
		cmd.Printf("Enriched content list present: %d items.\n", status.Items)
	} else {
		cmd.Println("Corpus not yet enriched. Run 'tracedoc index' to build it.")
	}
	return nil
}
