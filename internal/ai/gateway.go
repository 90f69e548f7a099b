package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Second

type GatewayConfig struct {
	Timeout time.Duration
	// Providers carries optional per provider backend arguments such as base_url.
	Providers map[string]interface{}
}

type GatewayOption func(*Gateway)

// WithBackend replaces the backend used for a provider.
func WithBackend(name ProviderName, b IBackend) GatewayOption {
	return func(g *Gateway) {
		g.backends[name] = b
	}
}

// Gateway dispatches generation requests to one provider backend. Each call
// makes exactly one upstream attempt bounded by the configured timeout.
type Gateway struct {
	backends map[ProviderName]IBackend
	timeout  time.Duration
}

func NewGateway(cfg GatewayConfig, opts ...GatewayOption) (*Gateway, error) {
	g := &Gateway{
		backends: make(map[ProviderName]IBackend, len(Providers)),
		timeout:  cfg.Timeout,
	}
	if g.timeout <= 0 {
		g.timeout = defaultTimeout
	}
	for _, name := range Providers {
		b, err := newBackend(name, cfg.Providers[string(name)])
		if err != nil {
			return nil, fmt.Errorf("init %s backend: %w", name, err)
		}
		g.backends[name] = b
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func (g *Gateway) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	name, err := ParseProvider(req.Provider)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(req.APIKey) == "" {
		return "", fmt.Errorf("%w: api key for %s is not set", ErrConfiguration, name)
	}
	backend := g.backends[name]
	if backend == nil {
		return "", fmt.Errorf("%w: provider %s is not available", ErrConfiguration, name)
	}
	req.Provider = string(name)
	req.APIKey = strings.TrimSpace(req.APIKey)
	if strings.TrimSpace(req.Model) == "" {
		req.Model = DefaultModel(name)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	logger := logutil.GetLogger(ctx).With(
		zap.String("provider", string(name)),
		zap.String("model", req.Model),
		zap.Int("prompt_len", len(req.Prompt)),
	)
	start := time.Now()
	text, err := backend.Generate(ctx, &req)
	if err != nil {
		err = classify(name, err)
		logger.Warn("generation failed", zap.Duration("duration", time.Since(start)), zap.Error(err))
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		logger.Warn("generation returned empty text")
		return "", &ProviderError{Kind: KindOther, Provider: name, Err: fmt.Errorf("empty response")}
	}
	logger.Debug("generation finished", zap.Duration("duration", time.Since(start)), zap.Int("output_len", len(text)))
	return text, nil
}
