package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/refrag-cli/internal/core/domain"
)

// Test helper functions in settings.go

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "ragflow-1234567890abcdef",
			expected: "ragf...cdef",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "9",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Non-numeric input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSettingsShowCmd_DisplaysSettings(t *testing.T) {
	oldSettings := settingsService
	settingsService = &mockSettingsService{settings: domain.AppSettings{
		Connection: domain.ConnectionSettings{
			APIURL: "http://backend:9380",
			APIKey: "ragflow-1234567890abcdef",
		},
		Generation: domain.DefaultGenerationParams(),
	}}
	defer func() { settingsService = oldSettings }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "http://backend:9380")
	assert.Contains(t, buf.String(), "ragf...cdef")
	assert.NotContains(t, buf.String(), "1234567890")
	assert.Contains(t, buf.String(), "qwen-turbo")
	assert.Contains(t, buf.String(), "Configuration is valid.")
}

func TestSettingsShowCmd_WarnsWhenUnconfigured(t *testing.T) {
	oldSettings := settingsService
	settingsService = &mockSettingsService{
		settings:    domain.DefaultAppSettings(),
		validateErr: domain.ErrInvalidInput,
	}
	defer func() { settingsService = oldSettings }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Warning:")
	assert.Contains(t, buf.String(), "refrag settings wizard")
}

func TestSettingsCmd_ServiceNotConfigured(t *testing.T) {
	oldSettings := settingsService
	settingsService = nil
	defer func() { settingsService = oldSettings }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}
