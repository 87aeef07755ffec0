// Package generator defines the boundary to the external text generator and a
// langchaingo-backed implementation of it.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/facts"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/types"
)

// Provider names.
const (
	ProviderNone   = "none"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// TurnSummary is a prior question and the answer that was returned for it.
type TurnSummary struct {
	Question string
	Answer   string
}

// Request is everything a generator may use to write an answer.
type Request struct {
	Question string
	Bundle   *facts.Bundle
	History  []TurnSummary
	// Strict is set on regeneration after a grounding violation.
	Strict bool
	// Violations lists the unsupported names and numbers of the rejected answer.
	Violations []string
}

// Generator turns a fact bundle into prose.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Config selects and tunes the language model.
type Config struct {
	Provider    string  `yaml:"provider" json:"provider" mapstructure:"provider" validate:"omitempty,oneof=none openai ollama"`
	Model       string  `yaml:"model" json:"model" mapstructure:"model"`
	BaseURL     string  `yaml:"base_url" json:"base_url" mapstructure:"base_url"`
	APIKey      string  `yaml:"api_key" json:"-" mapstructure:"api_key"`
	Temperature float64 `yaml:"temperature" json:"temperature" mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int     `yaml:"max_tokens" json:"max_tokens" mapstructure:"max_tokens" validate:"gte=0"`
	// HistoryTurns is the number of prior turns included in the prompt.
	HistoryTurns int `yaml:"history_turns" json:"history_turns" mapstructure:"history_turns" validate:"gte=0"`
	// RequestsPerSecond throttles model calls. Zero disables throttling.
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second" mapstructure:"requests_per_second" validate:"gte=0"`
}

// DefaultTemperature seeds the default configuration. ApplyDefaults does not
// fill Temperature; zero is a valid setting.
const DefaultTemperature = 0.1

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderNone
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 1000
	}
	if c.HistoryTurns == 0 {
		c.HistoryTurns = 8
	}
	if c.Provider == ProviderOllama && c.BaseURL == "" {
		c.BaseURL = "http://localhost:11434"
	}
}

// New builds the configured generator. Provider "none" returns a nil
// Generator, which puts the engine in fallback mode.
func New(cfg Config, logger *slog.Logger) (Generator, error) {
	cfg.ApplyDefaults()

	var (
		model llms.Model
		err   error
	)
	switch strings.ToLower(cfg.Provider) {
	case ProviderNone:
		return nil, nil
	case ProviderOpenAI:
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			return nil, types.NewError(types.CONFIG_VALIDATION_FAILED, "openai generator requires an api key")
		}
		opts := []openai.Option{openai.WithToken(apiKey)}
		if cfg.Model != "" {
			opts = append(opts, openai.WithModel(cfg.Model))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		model, err = openai.New(opts...)
	case ProviderOllama:
		opts := []ollama.Option{ollama.WithServerURL(cfg.BaseURL)}
		if cfg.Model != "" {
			opts = append(opts, ollama.WithModel(cfg.Model))
		}
		model, err = ollama.New(opts...)
	default:
		return nil, types.NewError(types.CONFIG_VALIDATION_FAILED, fmt.Sprintf("unknown generator provider %q", cfg.Provider))
	}
	if err != nil {
		return nil, types.WrapError(types.GENERATION_FAILED, "create "+cfg.Provider+" model", err)
	}
	return NewLLMGenerator(model, cfg, logger), nil
}

// LLMGenerator prompts a langchaingo model with the fact bundle.
type LLMGenerator struct {
	model   llms.Model
	cfg     Config
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewLLMGenerator wraps an existing model.
func NewLLMGenerator(model llms.Model, cfg Config, logger *slog.Logger) *LLMGenerator {
	cfg.ApplyDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	g := &LLMGenerator{model: model, cfg: cfg, logger: logger.With("component", "generator")}
	if cfg.RequestsPerSecond > 0 {
		g.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return g
}

// Generate sends the prompt and returns the first choice's text.
func (g *LLMGenerator) Generate(ctx context.Context, req Request) (string, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", types.WrapError(types.GENERATION_FAILED, "wait for generation slot", err)
		}
	}
	messages := BuildMessages(req, g.cfg.HistoryTurns)

	resp, err := g.model.GenerateContent(ctx, messages,
		llms.WithTemperature(g.cfg.Temperature),
		llms.WithMaxTokens(g.cfg.MaxTokens),
	)
	if err != nil {
		return "", types.WrapRetryableError(types.GENERATION_FAILED, "generate answer", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", types.NewError(types.GENERATION_FAILED, "model returned no choices")
	}

	answer := strings.TrimSpace(resp.Choices[0].Content)
	g.logger.DebugContext(ctx, "answer generated", "strict", req.Strict, "chars", len(answer))
	return answer, nil
}

var _ Generator = (*LLMGenerator)(nil)
