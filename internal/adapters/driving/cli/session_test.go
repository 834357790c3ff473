package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/refrag-cli/internal/core/domain"
)

func setupSessionTest(manager *mockAssistantManager, registry *mockRegistryService) func() {
	oldManager := assistantManager
	oldRegistry := registryService
	assistantManager = manager
	registryService = registry
	return func() {
		assistantManager = oldManager
		registryService = oldRegistry
	}
}

func TestSessionResetCmd_ResetsExistingBinding(t *testing.T) {
	manager := &mockAssistantManager{assistantID: "asst-1"}
	cleanup := setupSessionTest(manager, &mockRegistryService{})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"session", "reset", "ds-1"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.True(t, manager.resetCalled)
	assert.Contains(t, buf.String(), "Session reset.")
}

func TestSessionResetCmd_UsesActiveKB(t *testing.T) {
	manager := &mockAssistantManager{assistantID: "asst-1"}
	registry := &mockRegistryService{active: &domain.KnowledgeBase{ID: "ds-active"}}
	cleanup := setupSessionTest(manager, registry)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"session", "reset"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.True(t, manager.resetCalled)
}

func TestSessionResetCmd_NoBindingYet(t *testing.T) {
	manager := &mockAssistantManager{assistantErr: domain.ErrNotFound}
	cleanup := setupSessionTest(manager, &mockRegistryService{})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"session", "reset", "ds-1"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.False(t, manager.resetCalled)
	assert.Contains(t, buf.String(), "No conversation exists")
}

func TestSessionResetCmd_ServiceNotConfigured(t *testing.T) {
	oldManager := assistantManager
	assistantManager = nil
	defer func() { assistantManager = oldManager }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"session", "reset", "ds-1"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "assistant service not configured")
}
