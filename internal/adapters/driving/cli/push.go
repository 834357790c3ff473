package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/refrag-cli/internal/core/domain"
)

var (
	pushLabel  string
	pushWatch  bool
	pushFollow bool
)

var pushCmd = &cobra.Command{
	Use:   "push <path>",
	Short: "Upload a local collection as a new knowledge base",
	Long: `Uploads every supported file under the given path into a fresh
knowledge base on the backend and triggers parsing. HTML captures and
web snapshots are skipped; the backend cannot ingest them.

The new knowledge base becomes the active target for questions.`,
	Args: cobra.ExactArgs(1),
	RunE: runPush,
}

func init() {
	pushCmd.Flags().StringVar(&pushLabel, "label", "", "collection label (defaults to the directory name)")
	pushCmd.Flags().BoolVar(&pushWatch, "watch", false, "wait until parsing finishes")
	pushCmd.Flags().BoolVar(&pushFollow, "follow", false, "keep watching the path and re-push on changes")
	rootCmd.AddCommand(pushCmd)
}

func runPush(cmd *cobra.Command, args []string) error {
	if ingestService == nil || librarySource == nil {
		return errors.New("ingest service not configured")
	}
	if settingsService != nil {
		if err := settingsService.Validate(); err != nil {
			return err
		}
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	label := pushLabel
	if label == "" {
		label = filepath.Base(path)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	datasetID, err := pushOnce(ctx, cmd, path, label)
	if err != nil {
		return err
	}

	if pushWatch || pushFollow {
		if err := watchUntilDone(ctx, cmd, datasetID); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	}

	if !pushFollow {
		return nil
	}

	cmd.Printf("Following %s for changes. Press Ctrl+C to stop.\n", path)
	changes, err := librarySource.Watch(ctx, path)
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	for range changes {
		cmd.Println("Collection changed, pushing again...")
		datasetID, err = pushOnce(ctx, cmd, path, label)
		if err != nil {
			cmd.PrintErrf("push failed: %v\n", err)
			continue
		}
		if err := watchUntilDone(ctx, cmd, datasetID); err != nil && !errors.Is(err, context.Canceled) {
			cmd.PrintErrf("watch failed: %v\n", err)
		}
	}
	return nil
}

// pushOnce collects and uploads one snapshot of the collection.
func pushOnce(ctx context.Context, cmd *cobra.Command, path, label string) (string, error) {
	files, err := librarySource.Collect(ctx, path)
	if err != nil {
		return "", fmt.Errorf("collect %s: %w", path, err)
	}
	cmd.Printf("Collected %d files from %s\n", len(files), path)

	datasetID, err := ingestService.Push(ctx, files, label)
	if err != nil {
		return "", fmt.Errorf("push failed: %w", quotaHint(err))
	}
	cmd.Printf("Created knowledge base %s, parsing started.\n", datasetID)
	return datasetID, nil
}

// watchUntilDone streams parse progress until a terminal state.
func watchUntilDone(ctx context.Context, cmd *cobra.Command, datasetID string) error {
	statuses, err := ingestService.Watch(ctx, datasetID)
	if err != nil {
		return err
	}

	var last *domain.KnowledgeBaseStatus
	for status := range statuses {
		s := status
		last = &s
		cmd.Printf("\r%s: %d chunks across %d documents   ",
			status.State, status.ChunkCount, status.DocumentCount)
	}
	cmd.Println()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if last == nil {
		return errors.New("no status observed before the watch ended")
	}
	switch last.State {
	case domain.StateReady:
		cmd.Println("Knowledge base is ready.")
		return nil
	case domain.StateFailed:
		return errors.New("backend reported a parse failure")
	default:
		return errors.New("parsing did not finish within the watch budget")
	}
}
