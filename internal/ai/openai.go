package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	defaultOpenAIBaseURL     = "https://api.openai.com/v1"
	defaultGroqBaseURL       = "https://api.groq.com/openai/v1"
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

	defaultTemperature = 0.7
)

type chatConfig struct {
	BaseURL     string `json:"base_url"`
	HTTPReferer string `json:"http_referer"`
	XTitle      string `json:"x_title"`
}

// chatBackend speaks the OpenAI chat completions protocol, which OpenAI,
// Groq and OpenRouter all accept.
type chatBackend struct {
	name        ProviderName
	baseURL     string
	httpReferer string
	xTitle      string
	client      *http.Client
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []chatMsg `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature"`
	Stream      bool      `json:"stream"`
}

type chatMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (b *chatBackend) Generate(ctx context.Context, req *GenerationRequest) (string, error) {
	endpoint := strings.TrimRight(b.baseURL, "/") + "/chat/completions"
	msgs := make([]chatMsg, 0, 2)
	if req.SystemPrompt != "" {
		msgs = append(msgs, chatMsg{Role: "system", Content: req.SystemPrompt})
	}
	msgs = append(msgs, chatMsg{Role: "user", Content: req.Prompt})
	data, err := json.Marshal(chatRequest{
		Model:       req.Model,
		Messages:    msgs,
		MaxTokens:   req.MaxTokens,
		Temperature: defaultTemperature,
	})
	if err != nil {
		return "", err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	if b.httpReferer != "" {
		httpReq.Header.Set("HTTP-Referer", b.httpReferer)
	}
	if b.xTitle != "" {
		httpReq.Header.Set("X-Title", b.xTitle)
	}
	resp, err := b.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", newStatusError(b.name, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode %s response: %w", b.name, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%s response has no choices", b.name)
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

func createChatFactory(name ProviderName, defaultBaseURL string) BackendFactory {
	return func(args interface{}) (IBackend, error) {
		cfg := &chatConfig{}
		if err := decodeConfig(args, cfg); err != nil {
			return nil, err
		}
		baseURL := strings.TrimSpace(cfg.BaseURL)
		if baseURL == "" {
			baseURL = defaultBaseURL
		}
		return &chatBackend{
			name:        name,
			baseURL:     baseURL,
			httpReferer: strings.TrimSpace(cfg.HTTPReferer),
			xTitle:      strings.TrimSpace(cfg.XTitle),
			client:      http.DefaultClient,
		}, nil
	}
}

type openAIEmbedRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type openAIEmbedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

type openAIEmbedConfig struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"`
}

type openAIEmbedProvider struct {
	apiKey  string
	baseURL string
}

func (p *openAIEmbedProvider) Embed(ctx context.Context, model string, text string, taskType string) ([]float32, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("%w: openai embedding api key is not set", ErrConfiguration)
	}
	endpoint := strings.TrimRight(p.baseURL, "/") + "/embeddings"
	data, err := json.Marshal(openAIEmbedRequest{Model: model, Input: text})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, newStatusError(ProviderOpenAI, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var out openAIEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if len(out.Data) == 0 {
		return nil, fmt.Errorf("openai response has no embeddings")
	}
	return out.Data[0].Embedding, nil
}

func createOpenAIEmbedFactory(args interface{}) (IEmbedProvider, error) {
	cfg := &openAIEmbedConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	return &openAIEmbedProvider{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		baseURL: baseURL,
	}, nil
}

func init() {
	Register(ProviderOpenAI, createChatFactory(ProviderOpenAI, defaultOpenAIBaseURL))
	Register(ProviderGroq, createChatFactory(ProviderGroq, defaultGroqBaseURL))
	Register(ProviderOpenRouter, createChatFactory(ProviderOpenRouter, defaultOpenRouterBaseURL))
	RegisterEmbed("openai", createOpenAIEmbedFactory)
}
