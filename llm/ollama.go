// Ollama Provider implementation using go-openai library.
//
// Information Hiding:
// - Uses Ollama's OpenAI-compatible endpoint with a local base URL
// - No API key required; a placeholder satisfies the client
// - JSON format hint maps to the json_object response format

package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultOllamaHost is the standard local Ollama endpoint.
const DefaultOllamaHost = "http://localhost:11434"

// OllamaProvider implements the Provider interface for a local Ollama server.
type OllamaProvider struct {
	client    *openai.Client
	host      string
	model     string
	maxTokens int
}

// NewOllamaProvider creates a new Ollama provider for the given host.
// An empty host selects DefaultOllamaHost.
func NewOllamaProvider(host, model string, maxTokens uint32) *OllamaProvider {
	if host == "" {
		host = DefaultOllamaHost
	}

	config := openai.DefaultConfig("ollama")
	config.BaseURL = strings.TrimSuffix(host, "/") + "/v1"

	return &OllamaProvider{
		client:    openai.NewClientWithConfig(config),
		host:      host,
		model:     model,
		maxTokens: int(maxTokens),
	}
}

// Name returns the provider name.
func (p *OllamaProvider) Name() string {
	return "ollama"
}

// Model returns the current model.
func (p *OllamaProvider) Model() string {
	return p.model
}

// Host returns the configured server address.
func (p *OllamaProvider) Host() string {
	return p.host
}

// Chat sends a chat completion request.
func (p *OllamaProvider) Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (Response, error) {
	req := openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    convertToOpenAIMessages(messages),
		MaxTokens:   p.maxTokens,
		Temperature: requestTemperature(opts.Temperature),
	}

	if opts.JSONFormat {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return Response{}, fmt.Errorf("ollama chat completion failed: %w", err)
	}

	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}

	return Response{
		Content: content,
		Usage: &TokenUsage{
			PromptTokens:     uint32(resp.Usage.PromptTokens),
			CompletionTokens: uint32(resp.Usage.CompletionTokens),
			TotalTokens:      uint32(resp.Usage.TotalTokens),
		},
	}, nil
}

// Verify OllamaProvider implements Provider
var _ Provider = (*OllamaProvider)(nil)
