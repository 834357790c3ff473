package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show answered questions",
	RunE:  runHistoryList,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all retained history",
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "maximum entries to show")
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	entries, err := historyService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}
	if len(entries) == 0 {
		cmd.Println("No history yet. Ask something with 'refrag ask'.")
		return nil
	}

	if historyLimit > 0 && len(entries) > historyLimit {
		entries = entries[:historyLimit]
	}
	for _, entry := range entries {
		cmd.Printf("%s  Q: %s\n", entry.Timestamp.Format("2006-01-02 15:04"), entry.Question)
		cmd.Printf("%19s A: %s\n", "", firstLine(entry.Answer))
		if len(entry.Sources) > 0 {
			cmd.Printf("%19s    (%d sources)\n", "", len(entry.Sources))
		}
	}
	return nil
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}
	if err := historyService.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	cmd.Println("History cleared.")
	return nil
}
