package llm

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// family identifies a provider implementation.
type family string

const (
	familyOpenAI    family = "openai"
	familyGemini    family = "gemini"
	familyAnthropic family = "anthropic"
	familyMock      family = "mock"
)

// Capabilities describes which schema-enforcement modes a model supports.
type Capabilities struct {
	// ToolCall is true for models that support function/tool-call shaping.
	ToolCall bool
}

type modelEntry struct {
	family       family
	providerID   string // the id sent over the wire
	capabilities Capabilities
}

// modelTable is the static model-id → provider lookup. Friendly aliases
// and wire ids both resolve.
var modelTable = map[string]modelEntry{
	"gpt-4o":           {familyOpenAI, "gpt-4o", Capabilities{ToolCall: true}},
	"gpt-4o-mini":      {familyOpenAI, "gpt-4o-mini", Capabilities{ToolCall: true}},
	"gemini-flash":     {familyGemini, "gemini-2.0-flash", Capabilities{}},
	"gemini-pro":       {familyGemini, "gemini-2.0-pro", Capabilities{}},
	"gemini-2.0-flash": {familyGemini, "gemini-2.0-flash", Capabilities{}},
	"claude-sonnet":    {familyAnthropic, "claude-sonnet-4-20250514", Capabilities{}},
	"claude-haiku":     {familyAnthropic, "claude-haiku-4-5-20251001", Capabilities{}},
	"mock":             {familyMock, "mock", Capabilities{}},
	"mock-tools":       {familyMock, "mock", Capabilities{ToolCall: true}},
}

// KnownModels returns the ids accepted by Registry.Provider.
func KnownModels() []string {
	out := make([]string, 0, len(modelTable))
	for id := range modelTable {
		out = append(out, id)
	}
	return out
}

// Registry resolves model ids to ready-to-use providers. Providers are
// constructed lazily, wrapped with the timeout and logging middleware,
// and cached per model id. Safe for concurrent use.
type Registry struct {
	cfg Config
	log *zap.Logger

	mu        sync.Mutex
	providers map[string]Provider

	// mockProvider, when set, serves every model id mapped to familyMock.
	mockProvider Provider
}

// NewRegistry creates a Registry from configuration.
func NewRegistry(cfg Config, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		cfg:       cfg,
		log:       log,
		providers: make(map[string]Provider),
	}
}

// SetMockProvider installs a provider used for the "mock" model id.
// Intended for tests and dry runs.
func (r *Registry) SetMockProvider(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mockProvider = p
}

// Capabilities returns the schema-enforcement capabilities of modelID.
func (r *Registry) Capabilities(modelID string) (Capabilities, error) {
	entry, ok := modelTable[modelID]
	if !ok {
		return Capabilities{}, &ErrUnknownModel{Model: modelID}
	}
	return entry.capabilities, nil
}

// Provider returns the provider serving modelID, constructing it on
// first use. Unknown ids fail with ErrUnknownModel.
func (r *Registry) Provider(ctx context.Context, modelID string) (Provider, error) {
	entry, ok := modelTable[modelID]
	if !ok {
		return nil, &ErrUnknownModel{Model: modelID}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.family == familyMock {
		if r.mockProvider == nil {
			return nil, &ErrUnknownModel{Model: modelID}
		}
		return r.mockProvider, nil
	}

	if p, ok := r.providers[modelID]; ok {
		return p, nil
	}

	base, err := r.build(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", entry.family, err)
	}

	// Middleware chain: caller → timeout → logging → base.
	p := WithTimeout(WithLogging(base, r.log), r.cfg.CallTimeout)
	r.providers[modelID] = p
	return p, nil
}

func (r *Registry) build(ctx context.Context, entry modelEntry) (Provider, error) {
	switch entry.family {
	case familyOpenAI:
		return NewOpenAIProvider(r.cfg.OpenAI, entry.providerID)
	case familyGemini:
		return NewGeminiProvider(ctx, r.cfg.Gemini, entry.providerID)
	case familyAnthropic:
		return NewAnthropicProvider(r.cfg.Anthropic, entry.providerID)
	default:
		return nil, fmt.Errorf("unhandled provider family: %q", entry.family)
	}
}
