package models

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/cohere"
	"github.com/tmc/langchaingo/llms/openai"
)

// ProviderType represents the type of LLM provider
type ProviderType string

const (
	ProviderCohere ProviderType = "cohere"
	ProviderOpenAI ProviderType = "openai"
)

// ModelProvider defines a supported LLM provider
type ModelProvider struct {
	Name      string
	Type      ProviderType
	MaxTokens int
	Endpoint  string
}

// ModelRegistry manages available LLM models
type ModelRegistry struct {
	providers map[string]*ModelProvider
	instances map[string]llms.Model
	mu        sync.RWMutex
}

// NewModelRegistry creates a new model registry with the models the
// dashboard uses: Cohere for text analysis, OpenAI as the fallback.
func NewModelRegistry() *ModelRegistry {
	return &ModelRegistry{
		providers: map[string]*ModelProvider{
			"command": {
				Name:      "command",
				Type:      ProviderCohere,
				MaxTokens: 4096,
			},
			"command-light": {
				Name:      "command-light",
				Type:      ProviderCohere,
				MaxTokens: 4096,
			},
			"gpt-4o-mini": {
				Name:      "gpt-4o-mini",
				Type:      ProviderOpenAI,
				MaxTokens: 128000,
			},
		},
		instances: make(map[string]llms.Model),
	}
}

// Register adds or replaces a provider entry.
func (r *ModelRegistry) Register(id string, provider *ModelProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[id] = provider
	delete(r.instances, id)
}

// GetModel returns an initialized LLM instance
func (r *ModelRegistry) GetModel(name string) (llms.Model, error) {
	r.mu.RLock()
	if model, exists := r.instances[name]; exists {
		r.mu.RUnlock()
		return model, nil
	}
	provider, exists := r.providers[name]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unknown model: %s", name)
	}

	model, err := r.initializeModel(provider)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.instances[name] = model
	r.mu.Unlock()
	return model, nil
}

// initializeModel creates a new LLM instance based on provider type
func (r *ModelRegistry) initializeModel(provider *ModelProvider) (llms.Model, error) {
	switch provider.Type {
	case ProviderCohere:
		return r.initializeCohere(provider)
	case ProviderOpenAI:
		return r.initializeOpenAI(provider)
	default:
		return nil, fmt.Errorf("unsupported model type: %s", provider.Type)
	}
}

// initializeCohere creates a Cohere LLM instance
func (r *ModelRegistry) initializeCohere(provider *ModelProvider) (llms.Model, error) {
	apiKey := os.Getenv("COHERE_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("COHERE_API_KEY environment variable not set")
	}

	opts := []cohere.Option{
		cohere.WithToken(apiKey),
		cohere.WithModel(provider.Name),
	}
	if provider.Endpoint != "" {
		opts = append(opts, cohere.WithBaseURL(provider.Endpoint))
	}

	llm, err := cohere.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cohere model: %w", err)
	}

	return llm, nil
}

// initializeOpenAI creates an OpenAI LLM instance. A non-empty endpoint
// switches to any OpenAI-compatible API.
func (r *ModelRegistry) initializeOpenAI(provider *ModelProvider) (llms.Model, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	opts := []openai.Option{
		openai.WithModel(provider.Name),
		openai.WithToken(apiKey),
	}
	if provider.Endpoint != "" {
		opts = append(opts, openai.WithBaseURL(provider.Endpoint))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenAI model: %w", err)
	}

	return llm, nil
}

// ListModels returns the registered model ids.
func (r *ModelRegistry) ListModels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.providers))
	for id := range r.providers {
		ids = append(ids, id)
	}
	return ids
}

// TestModel tests if the model is working by sending a simple query
func (r *ModelRegistry) TestModel(ctx context.Context, id string) (bool, error) {
	model, err := r.GetModel(id)
	if err != nil {
		return false, err
	}

	_, err = llms.GenerateFromSinglePrompt(ctx, model, "Hello, are you working? Please respond with a short answer.")
	if err != nil {
		return false, err
	}

	return true, nil
}
