package quizgen

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/wikiquiz/internal/llm"
)

// Options carries per-call generation knobs.
type Options struct {
	// Temperature controls randomness (0.0-1.0). Zero means deterministic.
	Temperature float64

	// MaxTokens caps the response size. Zero uses DefaultMaxTokens.
	MaxTokens int
}

// DefaultMaxTokens bounds a generation response when the caller does
// not set one. Sized for MaxQuestionsPerUnit full questions.
const DefaultMaxTokens = 4096

// Gateway is the uniform entry point for question generation. It
// resolves a model id to a provider, shapes the request for that
// provider's schema-enforcement modes, and normalizes the response.
//
// The gateway never retries and never caches: idempotency lives at the
// work-unit level, retry policy with the orchestrator.
type Gateway struct {
	registry *llm.Registry
	log      *zap.Logger
}

// NewGateway creates a Gateway over the given provider registry.
func NewGateway(registry *llm.Registry, log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{
		registry: registry,
		log:      log.With(zap.String("component", "quizgen")),
	}
}

// Generate produces validated questions for prompt using modelID.
// Models that advertise tool calls are tried in tool-call mode first,
// falling back to structured output when the tool path yields
// unparseable content. Normalization failures surface as
// *llm.ErrInvalidResponse, never as a silent empty list.
func (g *Gateway) Generate(ctx context.Context, prompt, modelID string, opts Options) ([]Question, error) {
	provider, err := g.registry.Provider(ctx, modelID)
	if err != nil {
		return nil, err
	}
	caps, err := g.registry.Capabilities(modelID)
	if err != nil {
		return nil, err
	}

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: prompt},
		},
		Schema:      QuestionsSchema,
		Mode:        llm.ModeStructured,
		MaxTokens:   maxTokens,
		Temperature: opts.Temperature,
	}

	if caps.ToolCall {
		req.Mode = llm.ModeToolCall
	}

	questions, err := attempt(ctx, provider, req)
	if err != nil && req.Mode == llm.ModeToolCall && isParseFailure(err) {
		// Tool-call shaping failed to produce usable questions, whether
		// the provider rejected the payload or normalization did; retry
		// the same prompt through structured output.
		g.log.Warn("tool-call mode failed to parse, falling back to structured output",
			zap.String("model", modelID), zap.Error(err))
		req.Mode = llm.ModeStructured
		questions, err = attempt(ctx, provider, req)
	}
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// attempt runs one provider call and normalizes its content. Schema
// violations found during normalization surface as
// *llm.ErrInvalidResponse so the caller can treat them like any other
// unusable payload.
func attempt(ctx context.Context, provider llm.Provider, req llm.Request) ([]Question, error) {
	resp, err := provider.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	questions, err := Normalize(resp.Content)
	if err != nil {
		var violation *SchemaViolationError
		if errors.As(err, &violation) {
			return nil, &llm.ErrInvalidResponse{
				Content: resp.Content,
				Err:     fmt.Errorf("normalize response: %w", err),
			}
		}
		return nil, err
	}
	return questions, nil
}

// isParseFailure reports whether err means the response content was
// unusable, as opposed to a transport or quota failure.
func isParseFailure(err error) bool {
	var inv *llm.ErrInvalidResponse
	return errors.As(err, &inv)
}
