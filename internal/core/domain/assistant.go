package domain

import "time"

// Generation parameter bounds. Values outside these ranges are clamped to
// the defaults before transmission.
const (
	MinTemperature = 0.0
	MaxTemperature = 1.0
	MinTopP        = 0.0
	MaxTopP        = 1.0
	MinMaxTokens   = 100
	MaxMaxTokens   = 8000
	MinSimilarity  = 0.0
	MaxSimilarity  = 1.0
	MinTopN        = 1
	MaxTopN        = 10
)

// GenerationParams configures how a chat assistant answers questions.
// Every field is user-adjustable; Normalise validates them into safe
// ranges before they are sent to the backend.
type GenerationParams struct {
	Model               string
	Temperature         float64
	TopP                float64
	MaxTokens           int
	SimilarityThreshold float64
	TopN                int
}

// DefaultGenerationParams returns the parameter set used when the user has
// not configured anything.
func DefaultGenerationParams() GenerationParams {
	return GenerationParams{
		Model:               "qwen-turbo",
		Temperature:         0.7,
		TopP:                0.95,
		MaxTokens:           4000,
		SimilarityThreshold: 0.2,
		TopN:                5,
	}
}

// KnownModels lists the model names offered by the settings wizard.
// Any other name is still accepted; the backend is the authority.
func KnownModels() []string {
	return []string{
		"deepseek-reasoner",
		"deepseek-chat",
		"qwen-turbo",
		"qwen-max",
		"qwen-plus",
		"qwen-long",
	}
}

// Normalise returns a copy with every numeric field forced into its safe
// range. Out-of-range values fall back to the default, matching how the
// settings dialog validates free-form input.
func (p GenerationParams) Normalise() GenerationParams {
	defaults := DefaultGenerationParams()
	if p.Model == "" {
		p.Model = defaults.Model
	}
	if p.Temperature < MinTemperature || p.Temperature > MaxTemperature {
		p.Temperature = defaults.Temperature
	}
	if p.TopP < MinTopP || p.TopP > MaxTopP {
		p.TopP = defaults.TopP
	}
	if p.MaxTokens < MinMaxTokens || p.MaxTokens > MaxMaxTokens {
		p.MaxTokens = defaults.MaxTokens
	}
	if p.SimilarityThreshold < MinSimilarity || p.SimilarityThreshold > MaxSimilarity {
		p.SimilarityThreshold = defaults.SimilarityThreshold
	}
	if p.TopN < MinTopN || p.TopN > MaxTopN {
		p.TopN = defaults.TopN
	}
	return p
}

// ChatAssistant is a remote entity binding generation parameters to one or
// more datasets. One assistant exists per knowledge base; the local
// dataset→assistant mapping makes creation idempotent.
type ChatAssistant struct {
	ID         string
	Name       string
	DatasetIDs []string
	Params     GenerationParams
}

// Session is a remote conversation context scoped to one assistant.
// At most one session per assistant is tracked as active at a time.
type Session struct {
	ID          string
	AssistantID string
	Name        string
	CreatedAt   time.Time
}
