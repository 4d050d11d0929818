package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// knownSettings lists the keys the application reads, with a short
// description for the show output.
var knownSettings = []struct {
	Key         string
	Description string
}{
	{"workspace.data_dir", "directory holding parsed artifacts and the vector database"},
	{"workspace.corpus_name", "document stem used to locate the content list"},
	{"query.top_k", "number of chunks retrieved per question"},
	{"embedding.provider", "embedding backend: openai (env-configured) or ollama"},
	{"embedding.base_url", "embedding server URL for the ollama provider"},
	{"embedding.model", "embedding model for the ollama provider"},
	{"llm.provider", "completion backend: openai (env-configured), ollama or anthropic"},
	{"llm.base_url", "completion server URL for the ollama and anthropic providers"},
	{"llm.model", "completion model for the ollama and anthropic providers"},
	{"llm.api_key", "API key for the anthropic provider"},
	{"parse.server_url", "sglang server URL forwarded to the extraction backend"},
	{"parse.api_base", "MinerU web API endpoint for document extraction"},
	{"parse.extensions", "file extensions collected from input directories"},
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change persisted settings.

Settings live in a TOML file under the application's config directory
and layer beneath command-line flags and environment variables.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Set a configuration value",
	Long: `Set a configuration value and persist it.

Values that parse as integers or booleans are stored as such. When the
value is omitted for a key ending in "api_key", it is read from the
terminal without echo.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsSet,
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE:  runSettingsPath,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsPathCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Printf("Configuration file: %s\n\n", configStore.Path())

	for _, entry := range knownSettings {
		value, ok := configStore.Get(entry.Key)
		rendered := "(not set)"
		if ok {
			rendered = renderSettingValue(entry.Key, value)
		}
		cmd.Printf("  %-24s %s\n", entry.Key, rendered)
		cmd.Printf("  %-24s %s\n", "", entry.Description)
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key := args[0]

	var raw string
	if len(args) == 2 {
		raw = args[1]
	} else if strings.HasSuffix(key, "api_key") {
		cmd.Print("Enter value: ")
		raw = readPassword()
		cmd.Println()
	} else {
		return errors.New("value is required")
	}

	if err := configStore.Set(key, parseSettingValue(raw)); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s = %s\n", key, renderSettingValue(key, parseSettingValue(raw)))
	return nil
}

func runSettingsPath(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}
	cmd.Println(configStore.Path())
	return nil
}

// parseSettingValue converts the raw CLI string into the most specific
// TOML-representable type.
func parseSettingValue(raw string) any {
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}

func renderSettingValue(key string, value any) string {
	rendered := fmt.Sprintf("%v", value)
	if strings.HasSuffix(key, "api_key") {
		return maskAPIKey(rendered)
	}
	return rendered
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
