package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/refrag-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/refrag-cli/internal/core/domain"
)

func TestSettingsService_Get_Defaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAPIURL, settings.Connection.APIURL)
	assert.Empty(t, settings.Connection.APIKey)
	assert.Equal(t, domain.DefaultGenerationParams(), settings.Generation)
}

func TestSettingsService_SaveAndGet_RoundTrip(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	in := &domain.AppSettings{
		Connection: domain.ConnectionSettings{
			APIURL: "http://rag.example.com:9380",
			APIKey: "ragflow-abc123",
		},
		Generation: domain.GenerationParams{
			Model:               "deepseek-chat",
			Temperature:         0.3,
			TopP:                0.8,
			MaxTokens:           2000,
			SimilarityThreshold: 0.5,
			TopN:                8,
		},
	}
	require.NoError(t, service.Save(in))

	out, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, in.Connection, out.Connection)
	assert.Equal(t, in.Generation, out.Generation)
}

func TestSettingsService_Save_NormalisesOutOfRange(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	in := &domain.AppSettings{
		Connection: domain.ConnectionSettings{APIURL: domain.DefaultAPIURL, APIKey: "k"},
		Generation: domain.GenerationParams{
			Model:       "qwen-plus",
			Temperature: 3.0,  // out of range
			TopP:        -0.5, // out of range
			MaxTokens:   4000,
			TopN:        5,
		},
	}
	require.NoError(t, service.Save(in))

	out, err := service.Get()
	require.NoError(t, err)
	defaults := domain.DefaultGenerationParams()
	assert.Equal(t, "qwen-plus", out.Generation.Model)
	assert.Equal(t, defaults.Temperature, out.Generation.Temperature)
	assert.Equal(t, defaults.TopP, out.Generation.TopP)
	assert.Equal(t, 4000, out.Generation.MaxTokens)
}

func TestSettingsService_SetConnection(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	require.NoError(t, service.SetConnection("", "ragflow-key"))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAPIURL, settings.Connection.APIURL)
	assert.Equal(t, "ragflow-key", settings.Connection.APIKey)
}

func TestSettingsService_Validate(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	err := service.Validate()
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, service.SetConnection("http://localhost:9380", "ragflow-key"))
	assert.NoError(t, service.Validate())
}

func TestSettingsService_SetGenerationParams(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	params := domain.DefaultGenerationParams()
	params.Model = "deepseek-reasoner"
	params.TopN = 7
	require.NoError(t, service.SetGenerationParams(params))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, "deepseek-reasoner", settings.Generation.Model)
	assert.Equal(t, 7, settings.Generation.TopN)
}
