package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/refrag-cli/internal/core/domain"
)

func newToolServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("returns cited answer", func(t *testing.T) {
		qa := &mockQAService{
			answer: &domain.Answer{
				Text: "chunking splits documents",
				Sources: []domain.SourcePassage{
					{Content: "passage text", DocumentName: "manual.pdf"},
				},
			},
		}
		server := newToolServer(t, &Ports{QA: qa, Registry: &mockRegistryService{}})

		input := AskInput{Question: "what is chunking?", KnowledgeBaseID: "ds-1"}
		_, output, err := server.handleAsk(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "chunking splits documents", output.Answer)
		require.Len(t, output.Sources, 1)
		assert.Equal(t, "manual.pdf", output.Sources[0].DocumentName)
		assert.Equal(t, "ds-1", qa.lastKB)
	})

	t.Run("falls back to active knowledge base", func(t *testing.T) {
		qa := &mockQAService{answer: &domain.Answer{Text: "ok"}}
		registry := &mockRegistryService{active: &domain.KnowledgeBase{ID: "ds-active"}}
		server := newToolServer(t, &Ports{QA: qa, Registry: registry})

		_, _, err := server.handleAsk(ctx, nil, AskInput{Question: "hello?"})

		require.NoError(t, err)
		assert.Equal(t, "ds-active", qa.lastKB)
	})

	t.Run("no active knowledge base returns error", func(t *testing.T) {
		server := newToolServer(t, &Ports{QA: &mockQAService{}, Registry: &mockRegistryService{}})

		_, _, err := server.handleAsk(ctx, nil, AskInput{Question: "hello?"})

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("returns error on qa failure", func(t *testing.T) {
		qa := &mockQAService{err: errors.New("backend unreachable")}
		server := newToolServer(t, &Ports{QA: qa, Registry: &mockRegistryService{}})

		_, _, err := server.handleAsk(ctx, nil, AskInput{Question: "hello?", KnowledgeBaseID: "ds-1"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "backend unreachable")
	})
}

func TestServer_handleListHistory(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("returns entries with limit", func(t *testing.T) {
		history := &mockHistoryService{
			entries: []domain.HistoryEntry{
				{Question: "q3", Answer: "a3", Timestamp: now},
				{Question: "q2", Answer: "a2", Timestamp: now.Add(-time.Minute)},
				{Question: "q1", Answer: "a1", Timestamp: now.Add(-time.Hour)},
			},
		}
		server := newToolServer(t, &Ports{QA: &mockQAService{}, Registry: &mockRegistryService{}, History: history})

		_, output, err := server.handleListHistory(ctx, nil, ListHistoryInput{Limit: 2})

		require.NoError(t, err)
		assert.Equal(t, 2, output.Count)
		assert.Equal(t, "q3", output.Entries[0].Question)
	})

	t.Run("missing history service", func(t *testing.T) {
		server := newToolServer(t, &Ports{QA: &mockQAService{}, Registry: &mockRegistryService{}})

		_, _, err := server.handleListHistory(ctx, nil, ListHistoryInput{})

		assert.Error(t, err)
	})
}

func TestServer_handleListKnowledgeBases(t *testing.T) {
	registry := &mockRegistryService{
		bases: []domain.KnowledgeBase{
			{ID: "ds-1", Name: "alpha"},
			{ID: "ds-2", Name: "beta"},
		},
		active: &domain.KnowledgeBase{ID: "ds-2"},
	}
	server := newToolServer(t, &Ports{QA: &mockQAService{}, Registry: registry})

	_, output, err := server.handleListKnowledgeBases(context.Background(), nil, struct{}{})

	require.NoError(t, err)
	assert.Equal(t, 2, output.Count)
	assert.False(t, output.KnowledgeBases[0].Active)
	assert.True(t, output.KnowledgeBases[1].Active)
}
