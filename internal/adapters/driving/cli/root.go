// Package cli provides the cobra command tree driving the retrieval and
// ingest services.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	configfile "github.com/nikolarss0n/legal-assistant/internal/adapters/driven/config/file"
	"github.com/nikolarss0n/legal-assistant/internal/adapters/driven/embedding"
	"github.com/nikolarss0n/legal-assistant/internal/adapters/driven/storage/sqlite"
	"github.com/nikolarss0n/legal-assistant/internal/adapters/driven/vector/sqlitevec"
	"github.com/nikolarss0n/legal-assistant/internal/core/ports/driving"
	"github.com/nikolarss0n/legal-assistant/internal/core/services"
	"github.com/nikolarss0n/legal-assistant/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services wired during startup. Tests swap these for in-memory doubles.
var (
	retrievalService driving.RetrievalService
	ingestService    driving.IngestService
	settingsService  driving.SettingsService

	// closers releases adapter resources after the command finishes.
	closers []func() error
)

var (
	flagVerbose   bool
	flagConfigDir string
	flagDataDir   string
)

var rootCmd = &cobra.Command{
	Use:   "legal-assistant",
	Short: "Hybrid retrieval over legal documents",
	Long: `legal-assistant stores laws, regulations and decrees, segments them
into articles and answers natural-language queries with semantic search
over article embeddings, optionally narrowed by relational filters.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		if skipServices(cmd) {
			return nil
		}
		return initServices()
	},
	PersistentPostRunE: func(*cobra.Command, []string) error {
		return closeServices()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default ~/.legal-assistant)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.legal-assistant/data)")
}

// skipServices reports whether the command runs without adapter wiring.
func skipServices(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion", "segment":
		return true
	}
	return false
}

// initServices opens the stores and wires the core services. Idempotent:
// tests pre-populate the service vars and initServices leaves them alone.
func initServices() error {
	if retrievalService != nil && ingestService != nil {
		return nil
	}

	configStore, err := configfile.NewConfigStore(flagConfigDir)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	settingsService = services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	dataDir := flagDataDir
	if dataDir == "" {
		dataDir = settings.DataDir
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	closers = append(closers, store.Close)

	vectors, err := sqlitevec.New(sqlitevec.Config{
		DataDir:    dataDir,
		Collection: settings.Vector.Collection,
		Dimension:  settings.Embedding.Dimensions,
	})
	if err != nil {
		return fmt.Errorf("open vector collection: %w", err)
	}
	closers = append(closers, vectors.Close)

	embedder, err := embedding.New(embedding.Settings{
		Provider:   settings.Embedding.Provider.String(),
		BaseURL:    settings.Embedding.BaseURL,
		Model:      settings.Embedding.Model,
		Dimensions: settings.Embedding.Dimensions,
		Timeout:    time.Duration(settings.Embedding.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("create embedder: %w", err)
	}
	closers = append(closers, embedder.Close)

	retrievalService = services.NewRetrievalService(store, vectors, embedder)
	ingestService = services.NewIngestService(store, vectors, embedder,
		services.WithImportDefaults(importCategory, importTags...))
	return nil
}

func closeServices() error {
	var firstErr error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	closers = nil
	return firstErr
}
