package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/refrag-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the backend connection and generation defaults.

Use subcommands to configure specific settings or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

var settingsConnectionCmd = &cobra.Command{
	Use:   "connection",
	Short: "Configure the backend connection",
	Long:  `Set the RAGFlow base URL and API key.`,
	RunE:  runSettingsConnection,
}

var settingsGenerationCmd = &cobra.Command{
	Use:   "generation",
	Short: "Configure generation defaults",
	Long:  `Set the model and sampling parameters used when assistants are created.`,
	RunE:  runSettingsGeneration,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	settingsCmd.AddCommand(settingsConnectionCmd)
	settingsCmd.AddCommand(settingsGenerationCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Connection]")
	cmd.Printf("  API URL: %s\n", settings.Connection.APIURL)
	if settings.Connection.APIKey != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Connection.APIKey))
	} else {
		cmd.Printf("  API Key: (not set)\n")
	}
	status := "configured"
	if !settings.Connection.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[Generation]")
	cmd.Printf("  Model: %s\n", settings.Generation.Model)
	cmd.Printf("  Temperature: %.2f\n", settings.Generation.Temperature)
	cmd.Printf("  Top P: %.2f\n", settings.Generation.TopP)
	cmd.Printf("  Max Tokens: %d\n", settings.Generation.MaxTokens)
	cmd.Printf("  Similarity Threshold: %.2f\n", settings.Generation.SimilarityThreshold)
	cmd.Printf("  Top N: %d\n", settings.Generation.TopN)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'refrag settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Println("Refrag Settings Wizard")
	cmd.Println("======================")
	cmd.Println()

	reader := bufio.NewReader(os.Stdin)

	cmd.Println("Step 1: Backend Connection")
	cmd.Println("--------------------------")
	if err := configureConnection(cmd, reader); err != nil {
		return err
	}

	cmd.Println("Step 2: Generation Defaults")
	cmd.Println("---------------------------")
	if err := configureGeneration(cmd, reader); err != nil {
		return err
	}

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings are valid and saved.")
	}

	return nil
}

func runSettingsConnection(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(os.Stdin)
	return configureConnection(cmd, reader)
}

func runSettingsGeneration(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(os.Stdin)
	return configureGeneration(cmd, reader)
}

func configureConnection(cmd *cobra.Command, reader *bufio.Reader) error {
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	currentURL := settings.Connection.APIURL
	if currentURL == "" {
		currentURL = domain.DefaultAPIURL
	}
	cmd.Printf("Enter RAGFlow base URL [%s]: ", currentURL)
	apiURL := readLine(reader)
	if apiURL == "" {
		apiURL = currentURL
	}

	cmd.Print("Enter API key: ")
	apiKey := readPassword()
	cmd.Println()
	if apiKey == "" {
		if settings.Connection.APIKey == "" {
			return errors.New("an API key is required to reach the backend")
		}
		apiKey = settings.Connection.APIKey
	}

	if err := settingsService.SetConnection(apiURL, apiKey); err != nil {
		return fmt.Errorf("failed to save connection settings: %w", err)
	}

	cmd.Printf("Connection configured: %s\n\n", apiURL)
	return nil
}

func configureGeneration(cmd *cobra.Command, reader *bufio.Reader) error {
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	params := settings.Generation

	cmd.Println("Select Model")
	models := domain.KnownModels()
	defaultIdx := 1
	for i, m := range models {
		cmd.Printf("  %d. %s\n", i+1, m)
		if m == params.Model {
			defaultIdx = i + 1
		}
	}
	cmd.Printf("\nEnter choice [%d]: ", defaultIdx)
	input := readLine(reader)
	idx := parseChoice(input, len(models), defaultIdx)
	params.Model = models[idx-1]

	params.Temperature = readFloat(cmd, reader, "Temperature (0-1)", params.Temperature)
	params.TopP = readFloat(cmd, reader, "Top P (0-1)", params.TopP)
	params.MaxTokens = readInt(cmd, reader, "Max tokens (100-8000)", params.MaxTokens)
	params.SimilarityThreshold = readFloat(cmd, reader, "Similarity threshold (0-1)", params.SimilarityThreshold)
	params.TopN = readInt(cmd, reader, "Retrieved chunks per question (1-10)", params.TopN)

	if err := settingsService.SetGenerationParams(params); err != nil {
		return fmt.Errorf("failed to save generation settings: %w", err)
	}

	cmd.Printf("Generation defaults configured: %s\n\n", params.Model)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func readFloat(cmd *cobra.Command, reader *bufio.Reader, prompt string, defaultVal float64) float64 {
	cmd.Printf("%s [%.2f]: ", prompt, defaultVal)
	input := readLine(reader)
	if input == "" {
		return defaultVal
	}
	val, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return defaultVal
	}
	return val
}

func readInt(cmd *cobra.Command, reader *bufio.Reader, prompt string, defaultVal int) int {
	cmd.Printf("%s [%d]: ", prompt, defaultVal)
	input := readLine(reader)
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil {
		return defaultVal
	}
	return val
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
