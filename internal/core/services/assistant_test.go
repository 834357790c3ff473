package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/refrag-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/refrag-cli/internal/core/domain"
)

func newAssistantFixture(client *fakeRAGClient) *AssistantService {
	return NewAssistantService(client, memory.NewMappingStore(), memory.NewSessionStore(), memory.NewKnowledgeBaseStore())
}

func TestAssistantService_ResolveAssistant_CreatesOnce(t *testing.T) {
	client := &fakeRAGClient{}
	service := newAssistantFixture(client)
	ctx := context.Background()

	first, err := service.ResolveAssistant(ctx, "ds-1", nil)
	require.NoError(t, err)

	second, err := service.ResolveAssistant(ctx, "ds-1", nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, client.createAssistantCalls)
}

func TestAssistantService_ResolveAssistant_NormalisesParams(t *testing.T) {
	client := &fakeRAGClient{}
	service := newAssistantFixture(client)

	provider := func() (domain.GenerationParams, error) {
		return domain.GenerationParams{
			Model:       "qwen-max",
			Temperature: 5.0, // out of range
			TopP:        0.9,
			MaxTokens:   2000,
			TopN:        3,
		}, nil
	}

	_, err := service.ResolveAssistant(context.Background(), "ds-1", provider)
	require.NoError(t, err)

	defaults := domain.DefaultGenerationParams()
	assert.Equal(t, "qwen-max", client.lastAssistantParams.Model)
	assert.Equal(t, defaults.Temperature, client.lastAssistantParams.Temperature)
	assert.Equal(t, 0.9, client.lastAssistantParams.TopP)
	assert.Equal(t, 2000, client.lastAssistantParams.MaxTokens)
}

func TestAssistantService_ResolveAssistant_ProviderError(t *testing.T) {
	client := &fakeRAGClient{}
	service := newAssistantFixture(client)

	providerErr := errors.New("wizard aborted")
	provider := func() (domain.GenerationParams, error) {
		return domain.GenerationParams{}, providerErr
	}

	_, err := service.ResolveAssistant(context.Background(), "ds-1", provider)

	assert.ErrorIs(t, err, providerErr)
	assert.Equal(t, 0, client.createAssistantCalls)
}

func TestAssistantService_ResolveAssistant_EmptyDataset(t *testing.T) {
	service := newAssistantFixture(&fakeRAGClient{})

	_, err := service.ResolveAssistant(context.Background(), "", nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAssistantService_ResolveSession_ReusesActive(t *testing.T) {
	client := &fakeRAGClient{}
	service := newAssistantFixture(client)
	ctx := context.Background()

	first, err := service.ResolveSession(ctx, "asst-1")
	require.NoError(t, err)

	second, err := service.ResolveSession(ctx, "asst-1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, client.createSessionCalls)
}

func TestAssistantService_ResetSession_ForcesNewSession(t *testing.T) {
	client := &fakeRAGClient{}
	service := newAssistantFixture(client)
	ctx := context.Background()

	first, err := service.ResolveSession(ctx, "asst-1")
	require.NoError(t, err)

	require.NoError(t, service.ResetSession(ctx, "asst-1"))

	second, err := service.ResolveSession(ctx, "asst-1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, 2, client.createSessionCalls)
}

func TestAssistantService_UpdateParams_Normalises(t *testing.T) {
	client := &fakeRAGClient{}
	service := newAssistantFixture(client)

	err := service.UpdateParams(context.Background(), "asst-1", domain.GenerationParams{
		Model:     "deepseek-chat",
		MaxTokens: 99999, // out of range
		TopN:      2,
	})

	require.NoError(t, err)
	defaults := domain.DefaultGenerationParams()
	assert.Equal(t, "deepseek-chat", client.lastAssistantParams.Model)
	assert.Equal(t, defaults.MaxTokens, client.lastAssistantParams.MaxTokens)
	assert.Equal(t, 2, client.lastAssistantParams.TopN)
}
