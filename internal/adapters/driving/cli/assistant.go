package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/refrag-cli/internal/core/domain"
)

var (
	assistantModel       string
	assistantTemperature float64
	assistantTopP        float64
	assistantMaxTokens   int
	assistantSimilarity  float64
	assistantTopN        int
)

var assistantCmd = &cobra.Command{
	Use:   "assistant",
	Short: "Manage chat assistants",
}

var assistantUpdateCmd = &cobra.Command{
	Use:   "update [kb-id]",
	Short: "Push new generation parameters to an assistant",
	Long: `Updates the generation parameters of the assistant bound to a
knowledge base. Flags left unset keep the stored defaults; values
outside their valid range are replaced with defaults.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAssistantUpdate,
}

func init() {
	flags := assistantUpdateCmd.Flags()
	flags.StringVar(&assistantModel, "model", "", "model name")
	flags.Float64Var(&assistantTemperature, "temperature", -1, "sampling temperature (0-1)")
	flags.Float64Var(&assistantTopP, "top-p", -1, "nucleus sampling cutoff (0-1)")
	flags.IntVar(&assistantMaxTokens, "max-tokens", 0, "answer length limit (100-8000)")
	flags.Float64Var(&assistantSimilarity, "similarity", -1, "retrieval similarity threshold (0-1)")
	flags.IntVar(&assistantTopN, "top-n", 0, "retrieved chunks per question (1-10)")

	assistantCmd.AddCommand(assistantUpdateCmd)
	rootCmd.AddCommand(assistantCmd)
}

func runAssistantUpdate(cmd *cobra.Command, args []string) error {
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
			return errors.New("no assistant exists for this knowledge base yet; ask a question first")
		}
		return fmt.Errorf("resolve assistant: %w", err)
	}

	params, err := storedParams()
	if err != nil {
		return fmt.Errorf("load stored parameters: %w", err)
	}
	applyAssistantFlags(cmd, &params)

	if err := assistantManager.UpdateParams(ctx, assistantID, params); err != nil {
		return fmt.Errorf("update assistant: %w", err)
	}
	cmd.Println("Assistant updated.")
	return nil
}

// applyAssistantFlags overlays explicitly set flags onto the stored
// parameter baseline.
func applyAssistantFlags(cmd *cobra.Command, params *domain.GenerationParams) {
	flags := cmd.Flags()
	if flags.Changed("model") {
		params.Model = assistantModel
	}
	if flags.Changed("temperature") {
		params.Temperature = assistantTemperature
	}
	if flags.Changed("top-p") {
		params.TopP = assistantTopP
	}
	if flags.Changed("max-tokens") {
		params.MaxTokens = assistantMaxTokens
	}
	if flags.Changed("similarity") {
		params.SimilarityThreshold = assistantSimilarity
	}
	if flags.Changed("top-n") {
		params.TopN = assistantTopN
	}
}
