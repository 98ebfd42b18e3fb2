package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikolarss0n/legal-assistant/internal/core/domain"
)

var (
	embedProvider string
	embedModel    string
	embedBaseURL  string
	embedDims     int
	embedTimeout  int

	settingsSearchLimit int
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the embedding provider, vector collection and
search defaults. Settings persist to a TOML file in the config directory.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure the embedding provider",
	Long: `Configure the embedding provider used for semantic search.

Available providers:
  lexical - Deterministic offline hash embedder (default, no setup)
  ollama  - Local Ollama instance (requires a running server)

Changing provider or dimensions requires a reindex.`,
	RunE: runSettingsEmbedding,
}

var settingsSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Configure search defaults",
	Long: `Configure the default result limit used by the search command when
--limit is not given.`,
	RunE: runSettingsSearch,
}

func init() {
	settingsEmbeddingCmd.Flags().StringVar(&embedProvider, "provider", "", "embedding provider (lexical, ollama)")
	settingsEmbeddingCmd.Flags().StringVar(&embedModel, "model", "", "model name for network providers")
	settingsEmbeddingCmd.Flags().StringVar(&embedBaseURL, "base-url", "", "endpoint for network providers")
	settingsEmbeddingCmd.Flags().IntVar(&embedDims, "dimensions", 0, "embedding vector size")
	settingsEmbeddingCmd.Flags().IntVar(&embedTimeout, "timeout", 0, "request timeout in seconds for network providers")

	settingsSearchCmd.Flags().IntVar(&settingsSearchLimit, "limit", 0, "default number of search results")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsSearchCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider)
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	cmd.Printf("  Dimensions: %d\n", settings.Embedding.Dimensions)
	cmd.Printf("  Timeout: %ds\n", settings.Embedding.TimeoutSeconds)
	cmd.Println()

	cmd.Println("[Vector]")
	cmd.Printf("  Collection: %s\n", settings.Vector.Collection)
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Default limit: %d\n", settings.Search.DefaultLimit)
	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	changed := false
	if embedProvider != "" {
		p := domain.EmbeddingProvider(embedProvider)
		if !p.IsValid() {
			return fmt.Errorf("unknown provider %q (want lexical or ollama)", embedProvider)
		}
		settings.Embedding.Provider = p
		changed = true
	}
	if embedModel != "" {
		settings.Embedding.Model = embedModel
		changed = true
	}
	if embedBaseURL != "" {
		settings.Embedding.BaseURL = embedBaseURL
		changed = true
	}
	if embedDims > 0 {
		settings.Embedding.Dimensions = embedDims
		changed = true
	}
	if embedTimeout > 0 {
		settings.Embedding.TimeoutSeconds = embedTimeout
		changed = true
	}

	if !changed {
		return cmd.Help()
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Println("Embedding settings saved. Run 'legal-assistant reindex' to re-embed stored articles.")
	return nil
}

func runSettingsSearch(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if settingsSearchLimit <= 0 {
		return cmd.Help()
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	settings.Search.DefaultLimit = settingsSearchLimit

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("Default search limit set to %d.\n", settingsSearchLimit)
	return nil
}
