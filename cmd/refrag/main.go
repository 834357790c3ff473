// Command refrag pushes local reference collections to a RAGFlow backend
// and answers questions against them with citations.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/refrag-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/refrag-cli/internal/adapters/driven/library/filesystem"
	"github.com/custodia-labs/refrag-cli/internal/adapters/driven/ragflow"
	"github.com/custodia-labs/refrag-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/refrag-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/refrag-cli/internal/core/services"
	"github.com/custodia-labs/refrag-cli/internal/logger"
)

// version is overridden at build time via
// -ldflags "-X main.version=x.y.z".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("initialising config store: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("initialising storage: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Warn("closing storage: %v", cerr)
		}
	}()

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	client := ragflow.NewClient(ragflow.Config{Settings: settings.Connection})
	source := filesystem.NewSource()

	assistantService := services.NewAssistantService(
		client,
		store.AssistantMappingStore(),
		store.SessionStore(),
		store.KnowledgeBaseStore(),
	)

	cli.SetServices(cli.Services{
		Ingest:    services.NewIngestionService(client, source, store.KnowledgeBaseStore()),
		QA:        services.NewQAService(client, assistantService, store.HistoryStore()),
		Assistant: assistantService,
		History:   services.NewHistoryService(store.HistoryStore()),
		Registry:  services.NewRegistryService(store.KnowledgeBaseStore(), store.AssistantMappingStore()),
		Settings:  settingsService,
		Library:   source,
	})
	cli.SetVersion(version)

	return cli.Execute()
}
