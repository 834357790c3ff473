package services

import (
	"fmt"

	"github.com/custodia-labs/refrag-cli/internal/core/domain"
	"github.com/custodia-labs/refrag-cli/internal/core/ports/driven"
	"github.com/custodia-labs/refrag-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyAPIURL        = "connection.api_url"
	keyAPIKey        = "connection.api_key"
	keyGenModel      = "generation.model"
	keyGenTemp       = "generation.temperature"
	keyGenTopP       = "generation.top_p"
	keyGenMaxTokens  = "generation.max_tokens"
	keyGenSimilarity = "generation.similarity_threshold"
	keyGenTopN       = "generation.top_n"
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
		Connection: domain.ConnectionSettings{
			APIURL: s.getString(keyAPIURL, defaults.Connection.APIURL),
			APIKey: s.configStore.GetString(keyAPIKey),
		},
		Generation: domain.GenerationParams{
			Model:               s.getString(keyGenModel, defaults.Generation.Model),
			Temperature:         s.getFloat(keyGenTemp, defaults.Generation.Temperature),
			TopP:                s.getFloat(keyGenTopP, defaults.Generation.TopP),
			MaxTokens:           s.getInt(keyGenMaxTokens, defaults.Generation.MaxTokens),
			SimilarityThreshold: s.getFloat(keyGenSimilarity, defaults.Generation.SimilarityThreshold),
			TopN:                s.getInt(keyGenTopN, defaults.Generation.TopN),
		},
	}
	settings.Generation = settings.Generation.Normalise()

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.configStore.Set(keyAPIURL, settings.Connection.APIURL); err != nil {
		return fmt.Errorf("save api url: %w", err)
	}
	if settings.Connection.APIKey != "" {
		if err := s.configStore.Set(keyAPIKey, settings.Connection.APIKey); err != nil {
			return fmt.Errorf("save api key: %w", err)
		}
	}

	params := settings.Generation.Normalise()
	if err := s.configStore.Set(keyGenModel, params.Model); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	if err := s.configStore.Set(keyGenTemp, params.Temperature); err != nil {
		return fmt.Errorf("save temperature: %w", err)
	}
	if err := s.configStore.Set(keyGenTopP, params.TopP); err != nil {
		return fmt.Errorf("save top_p: %w", err)
	}
	if err := s.configStore.Set(keyGenMaxTokens, params.MaxTokens); err != nil {
		return fmt.Errorf("save max_tokens: %w", err)
	}
	if err := s.configStore.Set(keyGenSimilarity, params.SimilarityThreshold); err != nil {
		return fmt.Errorf("save similarity_threshold: %w", err)
	}
	if err := s.configStore.Set(keyGenTopN, params.TopN); err != nil {
		return fmt.Errorf("save top_n: %w", err)
	}

	return s.configStore.Save()
}

// SetConnection updates the backend URL and credential.
func (s *SettingsService) SetConnection(apiURL, apiKey string) error {
	if apiURL == "" {
		apiURL = domain.DefaultAPIURL
	}
	if err := s.configStore.Set(keyAPIURL, apiURL); err != nil {
		return fmt.Errorf("save api url: %w", err)
	}
	if err := s.configStore.Set(keyAPIKey, apiKey); err != nil {
		return fmt.Errorf("save api key: %w", err)
	}
	return s.configStore.Save()
}

// SetGenerationParams updates the stored generation defaults.
func (s *SettingsService) SetGenerationParams(params domain.GenerationParams) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Generation = params.Normalise()
	return s.Save(settings)
}

// Validate checks that settings are complete enough to reach the backend.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if !settings.Connection.IsConfigured() {
		return fmt.Errorf("%w: backend API key is not configured, run 'refrag settings'", domain.ErrInvalidInput)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (s *SettingsService) getString(key, fallback string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return fallback
}

func (s *SettingsService) getInt(key string, fallback int) int {
	if _, ok := s.configStore.Get(key); ok {
		return s.configStore.GetInt(key)
	}
	return fallback
}

func (s *SettingsService) getFloat(key string, fallback float64) float64 {
	if _, ok := s.configStore.Get(key); ok {
		return s.configStore.GetFloat(key)
	}
	return fallback
}
