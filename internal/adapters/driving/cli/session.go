package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/refrag-cli/internal/core/domain"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage conversation sessions",
}

var sessionResetCmd = &cobra.Command{
	Use:   "reset [kb-id]",
	Short: "Start a fresh conversation",
	Long: `Drops the active session of the knowledge base's assistant. The next
question opens a new conversation with no memory of earlier turns.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSessionReset,
}

func init() {
	sessionCmd.AddCommand(sessionResetCmd)
	rootCmd.AddCommand(sessionCmd)
}

func runSessionReset(cmd *cobra.Command, args []string) error {
	if assistantManager == nil {
		return errors.New("assistant service not configured")
	}

	ctx := cmd.Context()
	datasetID, err := resolveDatasetID(ctx, args)
	if err != nil {
		return err
	}

	assistantID, err := assistantManager.AssistantFor(ctx, datasetID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			cmd.Println("No conversation exists for this knowledge base yet.")
			return nil
		}
		return fmt.Errorf("resolve assistant: %w", err)
	}

	if err := assistantManager.ResetSession(ctx, assistantID); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	cmd.Println("Session reset. The next question starts a fresh conversation.")
	return nil
}
