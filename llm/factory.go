// LLM provider factory.
//
// Providers are selected by name ("ollama", "openai", "anthropic", "gemini",
// plus common aliases) and built from an Options struct. API keys fall back
// to the provider's conventional environment variable.

package llm

import (
	"fmt"
	"os"
	"strings"
)

// ProviderType represents supported LLM providers.
type ProviderType int

const (
	// ProviderOllama is a local Ollama server (OpenAI-compatible endpoint).
	ProviderOllama ProviderType = iota
	// ProviderOpenAI is the OpenAI provider (GPT models).
	ProviderOpenAI
	// ProviderAnthropic is the Anthropic provider (Claude models).
	ProviderAnthropic
	// ProviderGemini is the Google Gemini provider.
	ProviderGemini
)

// String returns the string representation of the provider type.
func (p ProviderType) String() string {
	switch p {
	case ProviderOllama:
		return "ollama"
	case ProviderOpenAI:
		return "openai"
	case ProviderAnthropic:
		return "anthropic"
	case ProviderGemini:
		return "gemini"
	default:
		return "unknown"
	}
}

// EnvVar returns the environment variable name for this provider's API key.
// Ollama needs no key and returns an empty string.
func (p ProviderType) EnvVar() string {
	switch p {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return ""
	}
}

// ParseProviderType parses a provider from string (case-insensitive).
func ParseProviderType(s string) (ProviderType, error) {
	switch strings.ToLower(s) {
	case "ollama", "local":
		return ProviderOllama, nil
	case "openai", "gpt":
		return ProviderOpenAI, nil
	case "anthropic", "claude":
		return ProviderAnthropic, nil
	case "gemini", "google":
		return ProviderGemini, nil
	default:
		return 0, fmt.Errorf("unknown provider: %s", s)
	}
}

// Options configure provider construction.
type Options struct {
	Model     string
	MaxTokens uint32

	// Host is the server address for Ollama; ignored by hosted providers.
	Host string

	// APIKey overrides the environment lookup for hosted providers.
	APIKey string
}

// NewProvider builds a provider of the given type.
// Hosted providers require an API key, either in opts or in the environment.
func NewProvider(providerType ProviderType, opts Options) (Provider, error) {
	if opts.Model == "" {
		return nil, fmt.Errorf("%s: model must be set", providerType)
	}

	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	if providerType == ProviderOllama {
		return NewOllamaProvider(opts.Host, opts.Model, maxTokens), nil
	}

	apiKey := opts.APIKey
	if apiKey == "" {
		envVar := providerType.EnvVar()
		apiKey = os.Getenv(envVar)
		if apiKey == "" {
			return nil, fmt.Errorf("%s: %s environment variable not set", providerType, envVar)
		}
	}

	switch providerType {
	case ProviderOpenAI:
		return NewOpenAIProvider(apiKey, opts.Model, maxTokens), nil
	case ProviderAnthropic:
		return NewAnthropicProvider(apiKey, opts.Model, maxTokens), nil
	case ProviderGemini:
		return NewGeminiProvider(apiKey, opts.Model, maxTokens), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %v", providerType)
	}
}
