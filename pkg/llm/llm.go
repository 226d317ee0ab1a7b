// Package llm wraps the text-generation call that turns a prompt into markup.
package llm

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gemini-2.5-flash"

// Generator produces a single free-text response for a system and a user prompt.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return f(ctx, systemPrompt, userPrompt)
}

// Config holds the model client configuration.
type Config struct {
	APIKey      string
	Model       string
	Temperature *float32           // nil = provider default
	BaseURL     string             // empty = public Gemini endpoint
	Logger      *zap.SugaredLogger // nil = nop logger
}

// GenAI implements Generator on top of Google's Gemini API.
type GenAI struct {
	client      *genai.Client
	model       string
	temperature *float32
	logger      *zap.SugaredLogger
}

// NewGenAI creates a Gemini backed generator.
func NewGenAI(ctx context.Context, config Config) (*GenAI, error) {
	if config.APIKey == "" {
		return nil, errors.New("GenAI API key is required")
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      config.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: config.BaseURL},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create GenAI client")
	}

	return &GenAI{
		client:      client,
		model:       config.Model,
		temperature: config.Temperature,
		logger:      logger,
	}, nil
}

// Generate sends one request and returns the concatenated text of the first candidate.
func (g *GenAI) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature: g.temperature,
	}
	if systemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	g.logger.Debugw("generate content", "model", g.model, "prompt_chars", len(userPrompt))

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(userPrompt), cfg)
	if err != nil {
		return "", errors.Wrap(err, "GenAI generate failed")
	}
	if len(resp.Candidates) == 0 {
		return "", errors.New("no candidates returned")
	}

	text := resp.Text()
	if resp.UsageMetadata != nil {
		g.logger.Debugw("generate content done",
			"model", g.model,
			"prompt_tokens", resp.UsageMetadata.PromptTokenCount,
			"output_tokens", resp.UsageMetadata.CandidatesTokenCount,
		)
	}
	return strings.TrimSpace(text), nil
}

// Name returns the generator name.
func (g *GenAI) Name() string {
	return "genai:" + g.model
}
