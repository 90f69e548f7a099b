// Package embedding produces normalised sentence embeddings for resumes and
// job descriptions through a primary model with a single fallback tier.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/nextstep/internal/ai"
)

const (
	DefaultPrimaryModel  = "intfloat/e5-base-v2"
	DefaultFallbackModel = "sentence-transformers/all-mpnet-base-v2"
	DefaultDimension     = 768

	// MaxInputChars bounds the text callers send for one embedding.
	MaxInputChars = 5000

	e5Prefix     = "passage: "
	probeText    = "embedding availability probe"
	probeTimeout = 60 * time.Second
)

var ErrModelUnavailable = errors.New("embedding model unavailable")

// Tier is one model's pair of embedders. Probe must reach the model
// itself so that availability is never answered from a cache; Serve
// handles encoding and defaults to Probe.
type Tier struct {
	Probe ai.IEmbedder
	Serve ai.IEmbedder
}

// Resolver builds the tier for a model name.
type Resolver func(model string) (Tier, error)

type Config struct {
	PrimaryModel  string
	FallbackModel string
	Dimension     int
}

// Engine is created once per process. The first Encode loads a tier and the
// outcome, success or ErrModelUnavailable, holds for the process lifetime.
type Engine struct {
	cfg     Config
	resolve Resolver

	once    sync.Once
	active  ai.IEmbedder
	model   string
	loaded  atomic.Pointer[string]
	loadErr error
}

func NewEngine(cfg Config, resolve Resolver) *Engine {
	if cfg.PrimaryModel == "" {
		cfg.PrimaryModel = DefaultPrimaryModel
	}
	if cfg.FallbackModel == "" {
		cfg.FallbackModel = DefaultFallbackModel
	}
	if cfg.Dimension <= 0 {
		cfg.Dimension = DefaultDimension
	}
	return &Engine{cfg: cfg, resolve: resolve}
}

func (e *Engine) Dimension() int {
	return e.cfg.Dimension
}

// ModelName returns the loaded tier's model, empty before the first load.
func (e *Engine) ModelName() string {
	if name := e.loaded.Load(); name != nil {
		return *name
	}
	return ""
}

func (e *Engine) ensureLoaded(ctx context.Context) error {
	e.once.Do(func() {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), probeTimeout)
		defer cancel()
		e.load(loadCtx)
	})
	return e.loadErr
}

func (e *Engine) load(ctx context.Context) {
	logger := logutil.GetLogger(ctx)
	var errs []error
	for _, model := range []string{e.cfg.PrimaryModel, e.cfg.FallbackModel} {
		emb, err := e.tryTier(ctx, model)
		if err != nil {
			logger.Warn("embedding model load failed", zap.String("model", model), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", model, err))
			continue
		}
		e.active = emb
		e.model = model
		e.loaded.Store(&model)
		logger.Info("embedding model loaded", zap.String("model", model), zap.Int("dimension", e.cfg.Dimension))
		return
	}
	e.loadErr = fmt.Errorf("%w: %w", ErrModelUnavailable, errors.Join(errs...))
	logger.Error("no embedding model available", zap.Error(e.loadErr))
}

func (e *Engine) tryTier(ctx context.Context, model string) (ai.IEmbedder, error) {
	if e.resolve == nil {
		return nil, fmt.Errorf("no embedding resolver")
	}
	tier, err := e.resolve(model)
	if err != nil {
		return nil, err
	}
	if tier.Probe == nil {
		return nil, fmt.Errorf("no embedder for model")
	}
	vec, err := tier.Probe.Embed(ctx, prefixFor(model, probeText), ai.TaskRetrievalDocument)
	if err != nil {
		return nil, fmt.Errorf("probe: %w", err)
	}
	if len(vec) != e.cfg.Dimension {
		return nil, fmt.Errorf("probe returned dimension %d, want %d", len(vec), e.cfg.Dimension)
	}
	if tier.Serve != nil {
		return tier.Serve, nil
	}
	return tier.Probe, nil
}

// Encode embeds each text and returns unit vectors in input order. Texts are
// sent one provider call at a time since the provider interface carries a
// single text; callers pass at most a resume and a job per request.
func (e *Engine) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	if err := e.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	out := make([][]float32, 0, len(texts))
	for i, text := range texts {
		vec, err := e.active.Embed(ctx, prefixFor(e.model, text), ai.TaskRetrievalDocument)
		if err != nil {
			return nil, fmt.Errorf("embed text %d: %w", i, err)
		}
		if len(vec) != e.cfg.Dimension {
			return nil, fmt.Errorf("embed text %d: dimension %d, want %d", i, len(vec), e.cfg.Dimension)
		}
		normalized := make([]float32, len(vec))
		copy(normalized, vec)
		out = append(out, Normalize(normalized))
	}
	return out, nil
}

func (e *Engine) EncodeOne(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.Encode(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func prefixFor(model, text string) string {
	if strings.Contains(strings.ToLower(model), "e5") {
		return e5Prefix + text
	}
	return text
}

// TruncateInput cuts text to at most MaxInputChars characters.
func TruncateInput(text string) string {
	if utf8.RuneCountInString(text) <= MaxInputChars {
		return text
	}
	return string([]rune(text)[:MaxInputChars])
}
