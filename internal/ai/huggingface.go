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

const defaultHuggingFaceBaseURL = "https://api-inference.huggingface.co"

type huggingFaceConfig struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"`
}

type huggingFaceBackend struct {
	baseURL string
	client  *http.Client
}

type hfGenerateRequest struct {
	Inputs     string           `json:"inputs"`
	Parameters hfGenerateParams `json:"parameters"`
}

type hfGenerateParams struct {
	MaxNewTokens   int     `json:"max_new_tokens,omitempty"`
	Temperature    float64 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

type hfGenerateItem struct {
	GeneratedText string `json:"generated_text"`
}

func (b *huggingFaceBackend) Generate(ctx context.Context, req *GenerationRequest) (string, error) {
	prompt := req.Prompt
	if req.SystemPrompt != "" {
		prompt = req.SystemPrompt + "\n\n" + req.Prompt
	}
	body, err := hfPost(ctx, b.client, b.baseURL+"/models/"+req.Model, req.APIKey, hfGenerateRequest{
		Inputs: prompt,
		Parameters: hfGenerateParams{
			MaxNewTokens: req.MaxTokens,
			Temperature:  defaultTemperature,
		},
	})
	if err != nil {
		return "", err
	}
	var items []hfGenerateItem
	if err := json.Unmarshal(body, &items); err != nil {
		return "", fmt.Errorf("decode huggingface response: %w", err)
	}
	if len(items) == 0 {
		return "", fmt.Errorf("huggingface response has no generations")
	}
	return strings.TrimSpace(items[0].GeneratedText), nil
}

func createHuggingFaceFactory(args interface{}) (IBackend, error) {
	cfg := &huggingFaceConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	return &huggingFaceBackend{baseURL: hfBaseURL(cfg.BaseURL), client: http.DefaultClient}, nil
}

type hfEmbedRequest struct {
	Inputs  string          `json:"inputs"`
	Options map[string]bool `json:"options,omitempty"`
}

// huggingFaceEmbedProvider calls the feature-extraction pipeline.
type huggingFaceEmbedProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func (p *huggingFaceEmbedProvider) Embed(ctx context.Context, model string, text string, taskType string) ([]float32, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("%w: huggingface embedding api key is not set", ErrConfiguration)
	}
	body, err := hfPost(ctx, p.client, p.baseURL+"/pipeline/feature-extraction/"+model, p.apiKey, hfEmbedRequest{
		Inputs:  text,
		Options: map[string]bool{"wait_for_model": true},
	})
	if err != nil {
		return nil, err
	}
	return decodeFeatures(body)
}

// decodeFeatures accepts a pooled vector or per-token vectors, which are mean pooled.
func decodeFeatures(body []byte) ([]float32, error) {
	var pooled []float32
	if err := json.Unmarshal(body, &pooled); err == nil && len(pooled) > 0 {
		return pooled, nil
	}
	var tokens [][]float32
	if err := json.Unmarshal(body, &tokens); err == nil && len(tokens) > 0 {
		return meanPool(tokens), nil
	}
	var batch [][][]float32
	if err := json.Unmarshal(body, &batch); err == nil && len(batch) > 0 && len(batch[0]) > 0 {
		return meanPool(batch[0]), nil
	}
	return nil, fmt.Errorf("unexpected feature-extraction response: %s", truncateForLog(string(body), 120))
}

func meanPool(tokens [][]float32) []float32 {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]float32, len(tokens[0]))
	for _, tok := range tokens {
		for i := 0; i < len(out) && i < len(tok); i++ {
			out[i] += tok[i]
		}
	}
	n := float32(len(tokens))
	for i := range out {
		out[i] /= n
	}
	return out
}

func createHuggingFaceEmbedFactory(args interface{}) (IEmbedProvider, error) {
	cfg := &huggingFaceConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	return &huggingFaceEmbedProvider{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		baseURL: hfBaseURL(cfg.BaseURL),
		client:  http.DefaultClient,
	}, nil
}

func hfBaseURL(v string) string {
	v = strings.TrimRight(strings.TrimSpace(v), "/")
	if v == "" {
		return defaultHuggingFaceBaseURL
	}
	return v
}

func hfPost(ctx context.Context, client *http.Client, endpoint, apiKey string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, newStatusError(ProviderHuggingFace, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

func init() {
	Register(ProviderHuggingFace, createHuggingFaceFactory)
	RegisterEmbed("huggingface", createHuggingFaceEmbedFactory)
}
