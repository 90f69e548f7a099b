package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// ProviderName is the closed set of text generation providers.
type ProviderName string

const (
	ProviderOpenAI      ProviderName = "openai"
	ProviderGroq        ProviderName = "groq"
	ProviderOpenRouter  ProviderName = "openrouter"
	ProviderGemini      ProviderName = "gemini"
	ProviderHuggingFace ProviderName = "huggingface"
)

var Providers = []ProviderName{
	ProviderOpenAI,
	ProviderGroq,
	ProviderOpenRouter,
	ProviderGemini,
	ProviderHuggingFace,
}

var defaultModels = map[ProviderName]string{
	ProviderOpenAI:      "gpt-3.5-turbo",
	ProviderGroq:        "llama3-8b-8192",
	ProviderOpenRouter:  "openai/gpt-4o-mini",
	ProviderGemini:      "gemini-2.0-flash",
	ProviderHuggingFace: "mistralai/Mistral-7B-Instruct-v0.2",
}

// ParseProvider validates a provider tag. Unknown tags are a configuration error.
func ParseProvider(name string) (ProviderName, error) {
	key := ProviderName(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := defaultModels[key]; !ok {
		return "", fmt.Errorf("%w: unknown provider %q", ErrConfiguration, name)
	}
	return key, nil
}

func DefaultModel(p ProviderName) string {
	return defaultModels[p]
}

// GenerationRequest is built per call and never persisted.
type GenerationRequest struct {
	Prompt       string
	SystemPrompt string
	MaxTokens    int
	Provider     string
	Model        string
	APIKey       string
}

// String omits the prompt bodies and the api key.
func (r GenerationRequest) String() string {
	return fmt.Sprintf("provider=%s model=%s max_tokens=%d prompt_len=%d api_key=%s",
		r.Provider, r.Model, r.MaxTokens, len(r.Prompt), redact(r.APIKey))
}

func redact(key string) string {
	if key == "" {
		return "<empty>"
	}
	return "<redacted>"
}

// IBackend performs one generation call against a provider. The request
// carries the resolved model and the caller's api key.
type IBackend interface {
	Generate(ctx context.Context, req *GenerationRequest) (string, error)
}

type BackendFactory func(args interface{}) (IBackend, error)

var registry = map[ProviderName]BackendFactory{}

func Register(name ProviderName, factory BackendFactory) {
	if name == "" || factory == nil {
		return
	}
	registry[name] = factory
}

func newBackend(name ProviderName, args interface{}) (IBackend, error) {
	factory := registry[name]
	if factory == nil {
		return nil, fmt.Errorf("%w: provider %s has no backend", ErrConfiguration, name)
	}
	if args == nil {
		args = map[string]interface{}{}
	}
	return factory(args)
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return fmt.Errorf("ai provider config is required")
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode ai provider config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode ai provider config: %w", err)
	}
	return nil
}
