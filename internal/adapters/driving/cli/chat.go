package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/tracedoc-labs/tracedoc/internal/adapters/driving/tui"
)

// chatCmd represents the chat command.
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Launch the interactive chat UI",
	Long: `Launch the interactive terminal chat for querying your documents.

Each answer shows the chunks it was built from, and the full provenance
trace can be toggled inline. A document preview pane lets you jump to
the page a source chunk came from.

Controls:
  Enter    - Send question
  Ctrl+T   - Toggle provenance trace
  Ctrl+P   - Preview source page
  Ctrl+L   - Clear conversation
  F1       - Toggle help
  Ctrl+C   - Quit`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	// Panic recovery keeps the stack trace visible after the alt screen closes
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat UI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	ports := tui.NewPorts(askService, referenceService, indexService)

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create chat UI: %w", err)
	}

	app.WithContext(cmd.Context())

	if err := app.Run(); err != nil {
		return fmt.Errorf("chat UI error: %w", err)
	}

	return nil
}
