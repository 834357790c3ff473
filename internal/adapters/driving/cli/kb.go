package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/refrag-cli/internal/core/domain"
)

var kbListRemote bool

var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "Manage the knowledge base registry",
}

var kbListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known knowledge bases",
	RunE:  runKBList,
}

var kbUseCmd = &cobra.Command{
	Use:   "use <kb-id>",
	Short: "Make a knowledge base the default target for questions",
	Args:  cobra.ExactArgs(1),
	RunE:  runKBUse,
}

var kbForgetCmd = &cobra.Command{
	Use:   "forget <kb-id>",
	Short: "Remove a knowledge base from the local registry",
	Long: `Removes a knowledge base and its assistant binding from the local
registry. The remote dataset is left untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runKBForget,
}

func init() {
	kbListCmd.Flags().BoolVar(&kbListRemote, "remote", false, "list datasets from the backend instead of the local registry")
	kbCmd.AddCommand(kbListCmd)
	kbCmd.AddCommand(kbUseCmd)
	kbCmd.AddCommand(kbForgetCmd)
	rootCmd.AddCommand(kbCmd)
}

func runKBList(cmd *cobra.Command, _ []string) error {
	if registryService == nil {
		return errors.New("registry service not configured")
	}

	ctx := cmd.Context()

	var (
		bases []domain.KnowledgeBase
		err   error
	)
	if kbListRemote {
		if ingestService == nil {
			return errors.New("ingest service not configured")
		}
		bases, err = ingestService.ListRemote(ctx)
	} else {
		bases, err = registryService.List(ctx)
	}
	if err != nil {
		return fmt.Errorf("list knowledge bases: %w", err)
	}
	if len(bases) == 0 {
		cmd.Println("No knowledge bases yet. Push a collection with 'refrag push'.")
		return nil
	}

	activeID := ""
	if active, aerr := registryService.Active(ctx); aerr == nil {
		activeID = active.ID
	}

	for _, kb := range bases {
		marker := " "
		if kb.ID == activeID {
			marker = "*"
		}
		cmd.Printf("%s %s  %s", marker, kb.ID, kb.Name)
		if kb.Collection != "" {
			cmd.Printf("  (%s)", kb.Collection)
		}
		cmd.Println()
	}
	return nil
}

func runKBUse(cmd *cobra.Command, args []string) error {
	if registryService == nil {
		return errors.New("registry service not configured")
	}
	if err := registryService.Use(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("select knowledge base: %w", err)
	}
	cmd.Printf("Active knowledge base: %s\n", args[0])
	return nil
}

func runKBForget(cmd *cobra.Command, args []string) error {
	if registryService == nil {
		return errors.New("registry service not configured")
	}
	if err := registryService.Forget(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("forget knowledge base: %w", err)
	}
	cmd.Printf("Forgot %s. The remote dataset still exists.\n", args[0])
	return nil
}
