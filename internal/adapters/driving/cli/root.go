// Package cli implements the refrag command line interface using cobra.
// Services are injected by the composition root in cmd/refrag before
// Execute is called; commands fail with a clear message when run without
// their service.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/refrag-cli/internal/core/ports/driven"
	"github.com/custodia-labs/refrag-cli/internal/core/ports/driving"
	"github.com/custodia-labs/refrag-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services injected by the composition root.
var (
	ingestService    driving.IngestService
	qaService        driving.QAService
	assistantManager driving.AssistantManager
	historyService   driving.HistoryService
	registryService  driving.RegistryService
	settingsService  driving.SettingsService
	librarySource    driven.LibrarySource
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "refrag",
	Short: "Push reference libraries to RAGFlow and ask cited questions",
	Long: `Refrag pushes local reference-manager collections to a RAGFlow
backend and answers questions against them with citations.

Typical workflow:
  refrag settings            # configure the backend connection
  refrag push ~/exports/phd  # upload a collection and start parsing
  refrag status --watch      # wait until the knowledge base is ready
  refrag ask "what does chapter 3 conclude?"`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging to stderr")
}

// Services bundles everything the CLI needs from the composition root.
type Services struct {
	Ingest    driving.IngestService
	QA        driving.QAService
	Assistant driving.AssistantManager
	History   driving.HistoryService
	Registry  driving.RegistryService
	Settings  driving.SettingsService
	Library   driven.LibrarySource
}

// SetServices injects service implementations into the CLI commands.
func SetServices(s Services) {
	ingestService = s.Ingest
	qaService = s.QA
	assistantManager = s.Assistant
	historyService = s.History
	registryService = s.Registry
	settingsService = s.Settings
	librarySource = s.Library
}

// SetVersion overrides the reported version string.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
