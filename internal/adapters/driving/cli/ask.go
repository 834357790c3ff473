package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/refrag-cli/internal/core/domain"
)

var askKB string

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question against a knowledge base",
	Long: `Asks a question against the active knowledge base (or the one named
with --kb) and prints the answer with its cited sources. The backing
assistant and session are created on first use and reused afterwards.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askKB, "kb", "", "knowledge base id (defaults to the active one)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if qaService == nil {
		return errors.New("qa service not configured")
	}
	if settingsService != nil {
		if err := settingsService.Validate(); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	question := strings.Join(args, " ")

	datasetID := askKB
	if datasetID == "" {
		resolved, err := resolveDatasetID(ctx, nil)
		if err != nil {
			return err
		}
		datasetID = resolved
	}

	answer, err := qaService.Ask(ctx, datasetID, question, storedParams)
	if err != nil {
		return fmt.Errorf("ask failed: %w", quotaHint(err))
	}

	cmd.Println(answer.Text)
	printSources(cmd, answer.Sources)
	return nil
}

// storedParams supplies stored generation defaults when an assistant is
// created for the first time. Parameters are tuned through 'refrag
// settings' rather than prompted mid-question.
func storedParams() (domain.GenerationParams, error) {
	if settingsService == nil {
		return domain.DefaultGenerationParams(), nil
	}
	settings, err := settingsService.Get()
	if err != nil {
		return domain.GenerationParams{}, err
	}
	return settings.Generation, nil
}

func printSources(cmd *cobra.Command, sources []domain.SourcePassage) {
	if len(sources) == 0 {
		return
	}
	cmd.Println("\nSources:")
	for i, src := range sources {
		cmd.Printf("  [%d] %s\n", i+1, src.DocumentName)
		if excerpt := firstLine(src.Content); excerpt != "" {
			cmd.Printf("      %s\n", excerpt)
		}
	}
}

// quotaHint attaches a recovery hint to quota errors. Only the CLI adds
// it; the services surface the remote message untouched.
func quotaHint(err error) error {
	if errors.Is(err, domain.ErrQuotaExceeded) {
		return fmt.Errorf("%w (the backend model account has no balance left; top it up and retry)", err)
	}
	return err
}

// firstLine truncates a passage to one display line.
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	const maxLen = 120
	if len(s) > maxLen {
		s = s[:maxLen] + "..."
	}
	return s
}
