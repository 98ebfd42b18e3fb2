package driving

import "github.com/nikolarss0n/legal-assistant/internal/core/domain"

// SettingsService reads and persists application settings.
type SettingsService interface {
	// Get retrieves current settings, applying defaults for unset keys.
	Get() (*domain.AppSettings, error)

	// Save persists the given settings.
	Save(settings *domain.AppSettings) error
}
