package driving

import "github.com/custodia-labs/refrag-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetConnection updates the backend URL and credential.
	SetConnection(apiURL, apiKey string) error

	// SetGenerationParams updates the stored generation defaults.
	// Out-of-range values are replaced with defaults before saving.
	SetGenerationParams(params domain.GenerationParams) error

	// Validate checks that settings are complete enough to reach the
	// backend.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
