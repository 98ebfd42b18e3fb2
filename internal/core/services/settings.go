package services

import (
	"fmt"

	"github.com/nikolarss0n/legal-assistant/internal/core/domain"
	"github.com/nikolarss0n/legal-assistant/internal/core/ports/driven"
	"github.com/nikolarss0n/legal-assistant/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyDataDir        = "data.dir"
	keyEmbedProvider  = "embedding.provider"
	keyEmbedModel     = "embedding.model"
	keyEmbedBaseURL   = "embedding.base_url"
	keyEmbedDims      = "embedding.dimensions"
	keyEmbedTimeout   = "embedding.timeout"
	keyVectorColl     = "vector.collection"
	keySearchDefaultK = "search.default_limit"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		DataDir: s.configStore.GetString(keyDataDir), // No default, empty means the per-user directory
		Embedding: domain.EmbeddingSettings{
			Provider:       s.getProvider(defaults.Embedding.Provider),
			Model:          s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:        s.getString(keyEmbedBaseURL, defaults.Embedding.BaseURL),
			Dimensions:     s.getInt(keyEmbedDims, defaults.Embedding.Dimensions),
			TimeoutSeconds: s.getInt(keyEmbedTimeout, defaults.Embedding.TimeoutSeconds),
		},
		Vector: domain.VectorSettings{
			Collection: s.getString(keyVectorColl, defaults.Vector.Collection),
		},
		Search: domain.SearchSettings{
			DefaultLimit: s.getInt(keySearchDefaultK, defaults.Search.DefaultLimit),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if !settings.Embedding.Provider.IsValid() {
		return fmt.Errorf("%w: unknown embedding provider %q",
			domain.ErrValidation, settings.Embedding.Provider)
	}

	if settings.DataDir != "" {
		if err := s.configStore.Set(keyDataDir, settings.DataDir); err != nil {
			return fmt.Errorf("save data dir: %w", err)
		}
	}
	if err := s.configStore.Set(keyEmbedProvider, settings.Embedding.Provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, settings.Embedding.Model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if err := s.configStore.Set(keyEmbedBaseURL, settings.Embedding.BaseURL); err != nil {
		return fmt.Errorf("save embedding base_url: %w", err)
	}
	if err := s.configStore.Set(keyEmbedDims, settings.Embedding.Dimensions); err != nil {
		return fmt.Errorf("save embedding dimensions: %w", err)
	}
	if err := s.configStore.Set(keyEmbedTimeout, settings.Embedding.TimeoutSeconds); err != nil {
		return fmt.Errorf("save embedding timeout: %w", err)
	}
	if err := s.configStore.Set(keyVectorColl, settings.Vector.Collection); err != nil {
		return fmt.Errorf("save vector collection: %w", err)
	}
	if err := s.configStore.Set(keySearchDefaultK, settings.Search.DefaultLimit); err != nil {
		return fmt.Errorf("save default limit: %w", err)
	}
	return nil
}

func (s *SettingsService) getString(key, fallback string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return fallback
}

func (s *SettingsService) getInt(key string, fallback int) int {
	if v := s.configStore.GetInt(key); v != 0 {
		return v
	}
	return fallback
}

func (s *SettingsService) getProvider(fallback domain.EmbeddingProvider) domain.EmbeddingProvider {
	v := domain.EmbeddingProvider(s.configStore.GetString(keyEmbedProvider))
	if v.IsValid() {
		return v
	}
	return fallback
}
