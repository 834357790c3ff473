package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var statusWatch bool

var statusCmd = &cobra.Command{
	Use:   "status [kb-id]",
	Short: "Show a knowledge base's parse progress",
	Long: `Reads the parse progress of a knowledge base. With no argument the
active knowledge base is checked. With --watch the command polls until
parsing reaches a terminal state.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusWatch, "watch", false, "poll until parsing finishes")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	datasetID, err := resolveDatasetID(ctx, args)
	if err != nil {
		return err
	}

	if statusWatch {
		return watchUntilDone(ctx, cmd, datasetID)
	}

	status, err := ingestService.Status(ctx, datasetID)
	if err != nil {
		return fmt.Errorf("status check failed: %w", err)
	}
	cmd.Printf("%s: %s, %d chunks across %d documents\n",
		datasetID, status.State, status.ChunkCount, status.DocumentCount)
	return nil
}

// resolveDatasetID returns the explicit argument or falls back to the
// active knowledge base.
func resolveDatasetID(ctx context.Context, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if registryService == nil {
		return "", errors.New("registry service not configured")
	}
	kb, err := registryService.Active(ctx)
	if err != nil {
		return "", errors.New("no knowledge base selected; push one or run 'refrag kb use <id>'")
	}
	return kb.ID, nil
}
